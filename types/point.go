package types

import "golang.org/x/image/math/f32"

// A Point is an affine position. Points can be displaced by vectors and
// subtracted from each other but never added together.
type Point f32.Vec3

// Define a point.
func P(x, y, z float32) Point {
	return Point{x, y, z}
}

// Move point along vector v.
func (p Point) Add(v Vec3) Point {
	return Point{p[0] + v[0], p[1] + v[1], p[2] + v[2]}
}

// Get the vector pointing from p2 to p.
func (p Point) Sub(p2 Point) Vec3 {
	return Vec3{p[0] - p2[0], p[1] - p2[1], p[2] - p2[2]}
}

// Get the vector from the origin to this point.
func (p Point) Vec3() Vec3 {
	return Vec3(p)
}
