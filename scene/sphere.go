package scene

import (
	"math"

	"github.com/achilleasa/raytra/bvh"
	"github.com/achilleasa/raytra/types"
)

type Sphere struct {
	surfaceMaterial

	Center types.Point
	Radius float32
}

// Create a sphere.
func NewSphere(center types.Point, radius float32, material *Material) *Sphere {
	return &Sphere{
		surfaceMaterial: surfaceMaterial{material},
		Center:          center,
		Radius:          radius,
	}
}

func (s *Sphere) Type() SurfaceType {
	return SphereSurface
}

// Intersect the sphere with a ray. It returns the nearest root with t >= 0.
func (s *Sphere) Intersect(r types.Ray) (float32, bool) {
	oc := r.Origin.Sub(s.Center)
	b := oc.Dot(r.Dir)
	c := oc.Len2() - s.Radius*s.Radius
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

func (s *Sphere) NormalAt(p types.Point) types.Vec3 {
	return p.Sub(s.Center).Normalize()
}

func (s *Sphere) IsFrontFacedTo(r types.Ray, p types.Point) bool {
	return r.Dir.Dot(s.NormalAt(p)) < 0
}

func (s *Sphere) BoundingBox() bvh.BoundingBox {
	ext := types.XYZ(s.Radius, s.Radius, s.Radius)
	center := s.Center.Vec3()
	return bvh.NewBoundingBox(center.Sub(ext), center.Add(ext), bvh.NoSurface)
}
