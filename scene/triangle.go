package scene

import (
	"github.com/achilleasa/raytra/bvh"
	"github.com/achilleasa/raytra/types"
)

// Determinants below this value mean the ray is parallel to the triangle.
const triangleEpsilon float32 = 1e-7

type Triangle struct {
	surfaceMaterial

	Vertices [3]types.Point

	// Cached geometric normal and edges.
	normal types.Vec3
	edge1  types.Vec3
	edge2  types.Vec3
}

// Create a triangle. The normal follows the counter-clockwise winding of
// the vertices.
func NewTriangle(a, b, c types.Point, material *Material) *Triangle {
	tri := &Triangle{
		surfaceMaterial: surfaceMaterial{material},
		Vertices:        [3]types.Point{a, b, c},
		edge1:           b.Sub(a),
		edge2:           c.Sub(a),
	}
	tri.normal = tri.edge1.Cross(tri.edge2).Normalize()
	return tri
}

func (tri *Triangle) Type() SurfaceType {
	return TriangleSurface
}

// Intersect the triangle with a ray using the Moller-Trumbore algorithm.
func (tri *Triangle) Intersect(r types.Ray) (float32, bool) {
	h := r.Dir.Cross(tri.edge2)
	a := tri.edge1.Dot(h)
	if a > -triangleEpsilon && a < triangleEpsilon {
		return 0, false
	}

	f := 1.0 / a
	s := r.Origin.Sub(tri.Vertices[0])
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(tri.edge1)
	v := f * r.Dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * tri.edge2.Dot(q)
	if t < 0 {
		return 0, false
	}
	return t, true
}

func (tri *Triangle) NormalAt(_ types.Point) types.Vec3 {
	return tri.normal
}

func (tri *Triangle) IsFrontFacedTo(r types.Ray, _ types.Point) bool {
	return tri.normal.Dot(r.Dir) <= 0
}

func (tri *Triangle) BoundingBox() bvh.BoundingBox {
	min := types.MinVec3(types.MinVec3(tri.Vertices[0].Vec3(), tri.Vertices[1].Vec3()), tri.Vertices[2].Vec3())
	max := types.MaxVec3(types.MaxVec3(tri.Vertices[0].Vec3(), tri.Vertices[1].Vec3()), tri.Vertices[2].Vec3())
	return bvh.NewBoundingBox(min, max, bvh.NoSurface)
}
