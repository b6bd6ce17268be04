package bvh

import (
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/raytra/types"
)

type mockSphere struct {
	center types.Point
	radius float32

	// Number of exact intersection tests performed against this surface.
	tests int
}

func (s *mockSphere) Intersect(r types.Ray) (float32, bool) {
	s.tests++
	oc := r.Origin.Sub(s.center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.radius*s.radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	if t := -b - sq; t >= 0 {
		return t, true
	}
	if t := -b + sq; t >= 0 {
		return t, true
	}
	return 0, false
}

func (s *mockSphere) BoundingBox() BoundingBox {
	r := types.XYZ(s.radius, s.radius, s.radius)
	return NewBoundingBox(s.center.Vec3().Sub(r), s.center.Vec3().Add(r), NoSurface)
}

func randomSpheres(rng *rand.Rand, count int) []Surface {
	surfaces := make([]Surface, count)
	for i := range surfaces {
		surfaces[i] = &mockSphere{
			center: types.P(rng.Float32()*40-20, rng.Float32()*40-20, rng.Float32()*40-20),
			radius: 0.2 + rng.Float32()*1.5,
		}
	}
	return surfaces
}

func randomRay(rng *rand.Rand) types.Ray {
	origin := types.P(rng.Float32()*60-30, rng.Float32()*60-30, rng.Float32()*60-30)
	target := types.P(rng.Float32()*40-20, rng.Float32()*40-20, rng.Float32()*40-20)
	ray, _ := types.RayBetween(origin, target)
	return ray
}

func bruteForceClosest(surfaces []Surface, ray types.Ray, exclude int) (int, float32) {
	best, bestT := NoSurface, float32(math.Inf(1))
	for index, surface := range surfaces {
		if index == exclude {
			continue
		}
		if t, hit := surface.Intersect(ray); hit && t >= 0 && t < bestT {
			best, bestT = index, t
		}
	}
	return best, bestT
}

func TestEmptyTree(t *testing.T) {
	tree := Build(nil)
	if tree.Root() != NoNode {
		t.Fatalf("expected empty tree to have no root; got %d", tree.Root())
	}

	ray := types.NewRay(types.P(0, 0, 0), types.XYZ(0, 0, -1))
	if surface, dist := tree.ClosestSurface(ray, NoSurface, Exact); surface != NoSurface || !math.IsInf(float64(dist), 1) {
		t.Fatalf("expected empty tree query to return (%d, +Inf); got (%d, %f)", NoSurface, surface, dist)
	}
	if tree.Occluded(ray, 100, NoSurface, Exact) {
		t.Fatal("expected empty tree to report no occlusion")
	}
	if leaves := tree.CollectLeaves(ray, nil); len(leaves) != 0 {
		t.Fatalf("expected empty tree to collect no leaves; got %v", leaves)
	}
}

func TestSingleSurfaceTree(t *testing.T) {
	surfaces := []Surface{&mockSphere{center: types.P(0, 0, -5), radius: 1}}
	tree := Build(surfaces)

	nodes := tree.Nodes()
	if len(nodes) != 1 || !nodes[0].IsLeaf() || nodes[0].Box.Surface != 0 {
		t.Fatalf("expected tree to contain a single leaf for surface 0; got %+v", nodes)
	}

	ray := types.NewRay(types.P(0, 0, 0), types.XYZ(0, 0, -1))
	surface, dist := tree.ClosestSurface(ray, NoSurface, Exact)
	if surface != 0 || math.Abs(float64(dist-4)) > 1e-4 {
		t.Fatalf("expected ray to hit surface 0 at t=4; got surface %d at t=%f", surface, dist)
	}

	if surface, _ = tree.ClosestSurface(ray, 0, Exact); surface != NoSurface {
		t.Fatalf("expected excluded surface to be ignored; got surface %d", surface)
	}

	if !tree.Occluded(ray, 10, NoSurface, Exact) {
		t.Fatal("expected ray to be occluded before t=10")
	}
	if tree.Occluded(ray, 3, NoSurface, Exact) {
		t.Fatal("expected ray not to be occluded before t=3")
	}
}

func TestNodeInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, count := range []int{1, 2, 3, 7, 64, 257} {
		surfaces := randomSpheres(rng, count)
		tree := Build(surfaces)
		nodes := tree.Nodes()

		if expNodes := 2*count - 1; len(nodes) != expNodes {
			t.Fatalf("[%d surfaces] expected %d nodes; got %d", count, expNodes, len(nodes))
		}

		seen := make(map[int]bool)
		for index := range nodes {
			node := &nodes[index]
			switch {
			case node.Left == NoNode && node.Right == NoNode:
				if node.Box.Surface < 0 {
					t.Fatalf("[%d surfaces] leaf node %d has no surface", count, index)
				}
				seen[node.Box.Surface] = true
			case node.Left != NoNode && node.Right != NoNode:
				if node.Box.Surface != NoSurface {
					t.Fatalf("[%d surfaces] internal node %d references surface %d", count, index, node.Box.Surface)
				}
				if !node.Box.Contains(nodes[node.Left].Box) || !node.Box.Contains(nodes[node.Right].Box) {
					t.Fatalf("[%d surfaces] internal node %d does not contain its children", count, index)
				}
			default:
				t.Fatalf("[%d surfaces] node %d has a single child", count, index)
			}
		}

		if len(seen) != count {
			t.Fatalf("[%d surfaces] expected every surface to appear in exactly one leaf; got %d distinct leaves", count, len(seen))
		}

		stats := tree.Stats()
		if stats.Leaves != count || stats.Nodes != len(nodes) {
			t.Fatalf("[%d surfaces] unexpected stats %+v", count, stats)
		}
	}
}

func TestClosestSurfaceMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))
	surfaces := randomSpheres(rng, 300)
	tree := Build(surfaces)

	hits := 0
	for i := 0; i < 2000; i++ {
		ray := randomRay(rng)
		expSurface, expT := bruteForceClosest(surfaces, ray, NoSurface)
		surface, dist := tree.ClosestSurface(ray, NoSurface, Exact)

		if surface != expSurface || dist != expT {
			t.Fatalf("[ray %d] expected bvh query to return (%d, %f); got (%d, %f)", i, expSurface, expT, surface, dist)
		}
		if surface != NoSurface {
			hits++
		}
	}

	if hits == 0 {
		t.Fatal("expected at least one ray to hit a surface")
	}
}

func TestEqualDistanceTies(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	surfaces := randomSpheres(rng, 20)

	// Identical spheres are hit at exactly the same distance
	for _, index := range []int{5, 9, 13, 17} {
		surfaces[index] = &mockSphere{center: types.P(0, 0, 40), radius: 1}
	}
	tree := Build(surfaces)
	ray := types.NewRay(types.P(0, 0, 60), types.XYZ(0, 0, -1))

	expSurface, expT := bruteForceClosest(surfaces, ray, NoSurface)
	if expSurface != 5 || expT != 19 {
		t.Fatalf("expected brute force to return (5, 19); got (%d, %f)", expSurface, expT)
	}

	for _, policy := range []Policy{Exact, BoundsOnly} {
		if surface, dist := tree.ClosestSurface(ray, NoSurface, policy); surface != expSurface || dist != expT {
			t.Fatalf("[policy %d] expected (%d, %f); got (%d, %f)", policy, expSurface, expT, surface, dist)
		}
	}

	// Excluding the lowest index selects the next copy
	if surface, _ := tree.ClosestSurface(ray, 5, Exact); surface != 9 {
		t.Fatalf("expected surface 9 when excluding 5; got %d", surface)
	}
}

func TestSelfExclusion(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	surfaces := randomSpheres(rng, 100)
	tree := Build(surfaces)

	for i := 0; i < 500; i++ {
		k := rng.Intn(len(surfaces))
		sphere := surfaces[k].(*mockSphere)

		// Start the ray exactly on the surface of sphere k
		dir := types.XYZ(rng.Float32()*2-1, rng.Float32()*2-1, rng.Float32()*2-1).Normalize()
		origin := sphere.center.Add(dir.Mul(sphere.radius))
		ray := types.NewRay(origin, dir)

		surface, dist := tree.ClosestSurface(ray, k, Exact)
		if surface == k {
			t.Fatalf("[ray %d] expected surface %d to be excluded", i, k)
		}

		expSurface, expT := bruteForceClosest(surfaces, ray, k)
		if surface != expSurface || dist != expT {
			t.Fatalf("[ray %d] expected (%d, %f); got (%d, %f)", i, expSurface, expT, surface, dist)
		}

		if surface, _ = tree.ClosestSurface(ray, k, BoundsOnly); surface == k {
			t.Fatalf("[ray %d] expected surface %d to be excluded in bounds-only mode", i, k)
		}
	}
}

func TestOcclusion(t *testing.T) {
	// A row of spheres next to the shadow ray plus a single blocker on it
	surfaces := make([]Surface, 0)
	for i := 0; i < 50; i++ {
		surfaces = append(surfaces, &mockSphere{center: types.P(float32(i)-25, 5, -10), radius: 0.4})
	}
	blocker := &mockSphere{center: types.P(0, 0, -10), radius: 1}
	surfaces = append(surfaces, blocker)
	blockerIndex := len(surfaces) - 1

	tree := Build(surfaces)
	ray, dist := types.RayBetween(types.P(0, 0, 0), types.P(0, 0, -20))

	if !tree.Occluded(ray, dist, NoSurface, Exact) {
		t.Fatal("expected shadow ray to be blocked")
	}
	if tree.Occluded(ray, dist, blockerIndex, Exact) {
		t.Fatal("expected shadow ray not to be blocked when the blocker is excluded")
	}
	if tree.Occluded(ray, 8.5, NoSurface, Exact) {
		t.Fatal("expected shadow ray to be unblocked before the blocker")
	}

	// Only the blocker may be tested exactly; every other leaf is pruned by its box
	for index, surface := range surfaces[:blockerIndex] {
		if tests := surface.(*mockSphere).tests; tests != 0 {
			t.Fatalf("expected surface %d not to be tested; got %d tests", index, tests)
		}
	}
	if blocker.tests == 0 {
		t.Fatal("expected blocker to be tested")
	}
}

func TestOcclusionEpsilon(t *testing.T) {
	surfaces := []Surface{&mockSphere{center: types.P(0, 0, -6), radius: 1}}
	tree := Build(surfaces)

	// The ray ends exactly on the sphere surface
	ray, dist := types.RayBetween(types.P(0, 0, 0), types.P(0, 0, -5))
	if tree.Occluded(ray, dist, NoSurface, Exact) {
		t.Fatal("expected surface at the end of the shadow ray not to occlude it")
	}
}

func TestCollectLeaves(t *testing.T) {
	surfaces := []Surface{
		&mockSphere{center: types.P(0, 0, -5), radius: 1},
		&mockSphere{center: types.P(0, 0, -10), radius: 1},
		&mockSphere{center: types.P(5, 5, -5), radius: 1},
		&mockSphere{center: types.P(0.6, 0.6, -15), radius: 0.7},
	}
	tree := Build(surfaces)

	ray := types.NewRay(types.P(0, 0, 0), types.XYZ(0, 0, -1))
	leaves := tree.CollectLeaves(ray, nil)

	// The ray misses sphere 3 but clips the corner of its box
	exp := map[int]bool{0: true, 1: true, 3: true}
	if len(leaves) != len(exp) {
		t.Fatalf("expected %d candidate leaves; got %v", len(exp), leaves)
	}
	for _, leaf := range leaves {
		if !exp[leaf] {
			t.Fatalf("unexpected candidate leaf %d", leaf)
		}
	}
}
