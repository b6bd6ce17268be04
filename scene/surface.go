package scene

import (
	"github.com/achilleasa/raytra/bvh"
	"github.com/achilleasa/raytra/types"
)

type SurfaceType uint8

const (
	SphereSurface SurfaceType = iota
	TriangleSurface
	PlaneSurface
)

func (st SurfaceType) String() string {
	switch st {
	case SphereSurface:
		return "sphere"
	case TriangleSurface:
		return "triangle"
	case PlaneSurface:
		return "plane"
	}
	return "unknown"
}

// The Surface interface is implemented by all scene geometry. The set of
// implementations is closed: Sphere, Triangle and Plane.
type Surface interface {
	bvh.Surface

	// Get the unit normal at a point on the surface.
	NormalAt(p types.Point) types.Vec3

	// Returns true if the surface faces the ray at hit point p.
	IsFrontFacedTo(r types.Ray, p types.Point) bool

	// Get the surface material.
	Material() *Material

	// Get the surface type.
	Type() SurfaceType
}

type surfaceMaterial struct {
	material *Material
}

// Get the surface material.
func (s *surfaceMaterial) Material() *Material {
	return s.material
}
