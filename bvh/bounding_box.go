package bvh

import (
	"math"

	"github.com/achilleasa/raytra/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// Boxes thinner than this along an axis are padded by this amount on both
// sides of that axis.
const degenerateEpsilon float32 = 1e-4

// Get the axis that follows a in round-robin order.
func (a Axis) Next() Axis {
	return (a + 1) % 3
}

func (a Axis) String() string {
	switch a {
	case XAxis:
		return "x"
	case YAxis:
		return "y"
	case ZAxis:
		return "z"
	}
	return "unknown"
}

// An axis-aligned bounding box. Boxes that bound a surface carry its index
// in Surface; boxes that bound groups of surfaces use NoSurface.
type BoundingBox struct {
	Min    types.Vec3
	Max    types.Vec3
	Center types.Point

	Surface int
}

// Create a new bounding box from two corner points. Corners are reordered
// if needed and flat axes are nudged so that the box never has zero extent.
func NewBoundingBox(min, max types.Vec3, surface int) BoundingBox {
	bMin := types.MinVec3(min, max)
	bMax := types.MaxVec3(min, max)
	for axis := 0; axis < 3; axis++ {
		if bMax[axis]-bMin[axis] < degenerateEpsilon {
			bMin[axis] -= degenerateEpsilon
			bMax[axis] += degenerateEpsilon
		}
	}

	return BoundingBox{
		Min:     bMin,
		Max:     bMax,
		Center:  types.Point(bMin.Add(bMax).Mul(0.5)),
		Surface: surface,
	}
}

// Calculate the minimal box enclosing all boxes in the list. The returned
// box is not associated with any surface.
func GroupBounding(boxes []BoundingBox) BoundingBox {
	if len(boxes) == 0 {
		return NewBoundingBox(types.Vec3{}, types.Vec3{}, NoSurface)
	}

	min, max := boxes[0].Min, boxes[0].Max
	for _, box := range boxes[1:] {
		min = types.MinVec3(min, box.Min)
		max = types.MaxVec3(max, box.Max)
	}

	return BoundingBox{
		Min:     min,
		Max:     max,
		Center:  types.Point(min.Add(max).Mul(0.5)),
		Surface: NoSurface,
	}
}

// Intersect the box with a ray using the slab method. On a hit, it returns
// the parametric distance where the ray enters the box, or 0 if the ray
// origin lies inside the box.
func (b BoundingBox) Intersect(r types.Ray) (float32, bool) {
	var tMin float32 = 0
	var tMax = float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		origin, dir := r.Origin[axis], r.Dir[axis]

		// Ray is parallel to this slab
		if dir == 0 {
			if origin < b.Min[axis] || origin > b.Max[axis] {
				return 0, false
			}
			continue
		}

		invDir := 1.0 / dir
		tNear := (b.Min[axis] - origin) * invDir
		tFar := (b.Max[axis] - origin) * invDir
		if dir < 0 {
			tNear, tFar = tFar, tNear
		}

		if tNear > tMin {
			tMin = tNear
		}
		if tFar < tMax {
			tMax = tFar
		}
		if tMin > tMax {
			return 0, false
		}
	}

	return tMin, true
}

// Get the outward normal of the box face closest to point p.
func (b BoundingBox) SurfaceNormalAt(p types.Point) types.Vec3 {
	var normal types.Vec3
	bestDist := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		if dist := abs32(p[axis] - b.Min[axis]); dist < bestDist {
			bestDist = dist
			normal = types.Vec3{}
			normal[axis] = -1
		}
		if dist := abs32(p[axis] - b.Max[axis]); dist < bestDist {
			bestDist = dist
			normal = types.Vec3{}
			normal[axis] = 1
		}
	}

	return normal
}

// Returns true if other fits inside this box.
func (b BoundingBox) Contains(other BoundingBox) bool {
	for axis := 0; axis < 3; axis++ {
		if other.Min[axis] < b.Min[axis] || other.Max[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// Get an ordering predicate that compares the box centers along an axis.
func CompareByAxis(axis Axis) func(a, b *BoundingBox) bool {
	return func(a, b *BoundingBox) bool {
		return a.Center[axis] < b.Center[axis]
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
