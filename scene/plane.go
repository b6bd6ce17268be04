package scene

import (
	"github.com/achilleasa/raytra/bvh"
	"github.com/achilleasa/raytra/types"
)

const (
	// Half extent of the box used to bound infinite planes.
	planeExtent float32 = 1e6

	// Half thickness of the box bounding axis-aligned planes.
	planeThickness float32 = 1e-3
)

// An infinite plane containing all points p with Normal . p = Offset.
type Plane struct {
	surfaceMaterial

	Normal types.Vec3
	Offset float32
}

// Create a plane. The normal is normalized and the offset scaled to match.
func NewPlane(normal types.Vec3, offset float32, material *Material) *Plane {
	l := normal.Len()
	if l > 0 {
		offset /= l
	}
	return &Plane{
		surfaceMaterial: surfaceMaterial{material},
		Normal:          normal.Normalize(),
		Offset:          offset,
	}
}

func (pl *Plane) Type() SurfaceType {
	return PlaneSurface
}

func (pl *Plane) Intersect(r types.Ray) (float32, bool) {
	denom := pl.Normal.Dot(r.Dir)
	if denom == 0 {
		return 0, false
	}

	t := (pl.Offset - pl.Normal.Dot(r.Origin.Vec3())) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}

func (pl *Plane) NormalAt(_ types.Point) types.Vec3 {
	return pl.Normal
}

func (pl *Plane) IsFrontFacedTo(r types.Ray, _ types.Point) bool {
	return pl.Normal.Dot(r.Dir) <= 0
}

// Planes aligned to a coordinate axis get a thin slab; all other planes are
// bounded by a large cube.
func (pl *Plane) BoundingBox() bvh.BoundingBox {
	min := types.XYZ(-planeExtent, -planeExtent, -planeExtent)
	max := types.XYZ(planeExtent, planeExtent, planeExtent)

	for axis := 0; axis < 3; axis++ {
		if pl.Normal[axis] == 1 || pl.Normal[axis] == -1 {
			coord := pl.Offset / pl.Normal[axis]
			min[axis] = coord - planeThickness
			max[axis] = coord + planeThickness
			break
		}
	}

	return bvh.NewBoundingBox(min, max, bvh.NoSurface)
}
