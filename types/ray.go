package types

// A ray with an origin and a normalized direction.
type Ray struct {
	Origin Point
	Dir    Vec3
}

// Create a ray. The direction is normalized.
func NewRay(origin Point, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// Create a ray that starts at from and points towards to. It also returns
// the distance between the two points.
func RayBetween(from, to Point) (Ray, float32) {
	delta := to.Sub(from)
	dist := delta.Len()
	return Ray{Origin: from, Dir: delta.Normalize()}, dist
}

// Get the point at parametric distance t along the ray.
func (r Ray) PointAt(t float32) Point {
	return r.Origin.Add(r.Dir.Mul(t))
}
