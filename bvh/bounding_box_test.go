package bvh

import (
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/raytra/types"
)

func TestBoundingBoxIntersection(t *testing.T) {
	type spec struct {
		origin types.Point
		dir    types.Vec3
		expHit bool
		expT   float32
	}

	box := NewBoundingBox(types.XYZ(0, 0, 0), types.XYZ(10, 10, 10), NoSurface)
	specs := []spec{
		{types.P(-10, -10, -10), types.XYZ(1, 0, 0), false, 0},
		{types.P(-10, -10, -10), types.XYZ(1, 1, 1), true, float32(math.Sqrt(300))},
		{types.P(20, 20, 20), types.XYZ(-1, -1, -1), true, float32(math.Sqrt(300))},
		{types.P(-5, 5, 5), types.XYZ(1, 0, 0), true, 5},
		{types.P(5, 5, 5), types.XYZ(0, 1, 0), true, 0},
		{types.P(5, 5, 15), types.XYZ(0, 0, 1), false, 0},
		{types.P(5, 15, 5), types.XYZ(1, 0, 0), false, 0},
	}

	for index, s := range specs {
		ray := types.NewRay(s.origin, s.dir)
		tHit, hit := box.Intersect(ray)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, hit)
		}
		if hit && math.Abs(float64(tHit-s.expT)) > 1e-3 {
			t.Fatalf("[spec %d] expected entry t to be %f; got %f", index, s.expT, tHit)
		}
	}
}

func TestBoundingBoxSlabSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	box := NewBoundingBox(types.XYZ(-1, -2, -3), types.XYZ(2, 1, 0), NoSurface)

	for i := 0; i < 500; i++ {
		// Aim a ray from outside the box towards a random point inside it
		target := types.P(
			box.Min[0]+rng.Float32()*(box.Max[0]-box.Min[0]),
			box.Min[1]+rng.Float32()*(box.Max[1]-box.Min[1]),
			box.Min[2]+rng.Float32()*(box.Max[2]-box.Min[2]),
		)
		dir := types.XYZ(rng.Float32()*2-1, rng.Float32()*2-1, rng.Float32()*2-1).Normalize()
		if dir.IsZero() {
			continue
		}
		origin := target.Add(dir.Mul(-20))

		ray := types.NewRay(origin, dir)
		tIn, hit := box.Intersect(ray)
		if !hit {
			t.Fatalf("[ray %d] expected ray from %v along %v to hit the box", i, origin, dir)
		}

		// Reverse the ray and start it beyond the far side of the box
		revOrigin := target.Add(dir.Mul(20))
		revRay := types.NewRay(revOrigin, dir.Neg())
		tRev, hit := box.Intersect(revRay)
		if !hit {
			t.Fatalf("[ray %d] expected reversed ray from %v along %v to hit the box", i, revOrigin, dir.Neg())
		}

		// The entry points of both rays bound the segment the ray spends inside the box
		if tIn > 20 || tRev > 20 || tIn+tRev > 40+1e-3 {
			t.Fatalf("[ray %d] inconsistent entry parameters %f and %f", i, tIn, tRev)
		}
	}
}

func TestBoundingBoxDegenerateNudge(t *testing.T) {
	box := NewBoundingBox(types.XYZ(0, 0, 5), types.XYZ(1, 1, 5), 3)
	if !(box.Min[2] < box.Max[2]) {
		t.Fatalf("expected flat box to be padded along z; got min %v max %v", box.Min, box.Max)
	}
	if box.Surface != 3 {
		t.Fatalf("expected box to reference surface 3; got %d", box.Surface)
	}

	// A ray travelling along z must be able to hit the flat box.
	ray := types.NewRay(types.P(0.5, 0.5, 0), types.XYZ(0, 0, 1))
	if tHit, hit := box.Intersect(ray); !hit || math.Abs(float64(tHit-5)) > 1e-3 {
		t.Fatalf("expected ray to hit flat box at t=5; got %f (hit: %t)", tHit, hit)
	}

	swapped := NewBoundingBox(types.XYZ(1, 1, 1), types.XYZ(0, 0, 0), NoSurface)
	for axis := 0; axis < 3; axis++ {
		if swapped.Min[axis] > swapped.Max[axis] {
			t.Fatalf("expected min <= max on axis %d; got %v %v", axis, swapped.Min, swapped.Max)
		}
	}
}

func TestGroupBounding(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	boxes := make([]BoundingBox, 32)
	for i := range boxes {
		min := types.XYZ(rng.Float32()*20-10, rng.Float32()*20-10, rng.Float32()*20-10)
		boxes[i] = NewBoundingBox(min, min.Add(types.XYZ(rng.Float32(), rng.Float32(), rng.Float32())), i)
	}

	group := GroupBounding(boxes)
	if group.Surface != NoSurface {
		t.Fatalf("expected group box to have no surface; got %d", group.Surface)
	}
	for i, box := range boxes {
		if !group.Contains(box) {
			t.Fatalf("expected group box %v-%v to contain box %d: %v-%v", group.Min, group.Max, i, box.Min, box.Max)
		}
	}
}

func TestSurfaceNormalAt(t *testing.T) {
	type spec struct {
		point     types.Point
		expNormal types.Vec3
	}

	box := NewBoundingBox(types.XYZ(0, 0, 0), types.XYZ(2, 2, 2), NoSurface)
	specs := []spec{
		{types.P(0, 1, 1), types.XYZ(-1, 0, 0)},
		{types.P(2, 1, 1), types.XYZ(1, 0, 0)},
		{types.P(1, 0, 1), types.XYZ(0, -1, 0)},
		{types.P(1, 2.0001, 1), types.XYZ(0, 1, 0)},
		{types.P(1, 1, 0), types.XYZ(0, 0, -1)},
		{types.P(1.2, 0.9, 1.99), types.XYZ(0, 0, 1)},
	}

	for index, s := range specs {
		if normal := box.SurfaceNormalAt(s.point); normal != s.expNormal {
			t.Fatalf("[spec %d] expected normal at %v to be %v; got %v", index, s.point, s.expNormal, normal)
		}
	}
}

func TestCompareByAxis(t *testing.T) {
	a := NewBoundingBox(types.XYZ(0, 5, 0), types.XYZ(1, 6, 1), 0)
	b := NewBoundingBox(types.XYZ(2, 1, -5), types.XYZ(3, 2, -4), 1)

	if less := CompareByAxis(XAxis); !less(&a, &b) || less(&b, &a) {
		t.Fatal("expected a to be ordered before b on the x axis")
	}
	if less := CompareByAxis(YAxis); less(&a, &b) || !less(&b, &a) {
		t.Fatal("expected b to be ordered before a on the y axis")
	}
	if less := CompareByAxis(ZAxis); less(&a, &b) || !less(&b, &a) {
		t.Fatal("expected b to be ordered before a on the z axis")
	}
}
