package scene

import (
	"fmt"

	"github.com/achilleasa/raytra/types"
)

// The largest supported frame width or height in pixels.
const MaxFrameDim uint32 = 1 << 15

var worldUp = types.XYZ(0, 1, 0)

// A pinhole camera with an image plane at distance FocalDist from the eye.
// The camera basis is u (right), v (up) and w (opposite of the view
// direction).
type Camera struct {
	Eye types.Point
	Dir types.Vec3

	U types.Vec3
	V types.Vec3
	W types.Vec3

	FocalDist float32

	// Image plane dimensions in world units.
	ImageW float32
	ImageH float32

	// Output resolution in pixels.
	FrameW uint32
	FrameH uint32
}

// Create a camera looking along dir.
func NewCamera(eye types.Point, dir types.Vec3, focalDist, imageW, imageH float32, frameW, frameH uint32) (*Camera, error) {
	d := dir.Normalize()
	if d.IsZero() {
		return nil, fmt.Errorf("camera: view direction must be non-zero")
	}

	u := d.Cross(worldUp).Normalize()
	if u.IsZero() {
		return nil, fmt.Errorf("camera: view direction %v is parallel to the up axis", dir)
	}

	cam := &Camera{
		Eye:       eye,
		Dir:       d,
		U:         u,
		V:         u.Cross(d).Normalize(),
		W:         d.Neg(),
		FocalDist: focalDist,
		ImageW:    imageW,
		ImageH:    imageH,
		FrameW:    frameW,
		FrameH:    frameH,
	}

	return cam, cam.Validate()
}

// Check camera parameters.
func (c *Camera) Validate() error {
	switch {
	case c.FocalDist <= 0:
		return fmt.Errorf("camera: focal distance must be positive; got %f", c.FocalDist)
	case c.ImageW <= 0 || c.ImageH <= 0:
		return fmt.Errorf("camera: image plane dimensions must be positive; got %fx%f", c.ImageW, c.ImageH)
	case c.FrameW == 0 || c.FrameH == 0:
		return fmt.Errorf("camera: frame dimensions must be positive; got %dx%d", c.FrameW, c.FrameH)
	case c.FrameW > MaxFrameDim || c.FrameH > MaxFrameDim:
		return fmt.Errorf("camera: frame dimensions must not exceed %dx%d; got %dx%d", MaxFrameDim, MaxFrameDim, c.FrameW, c.FrameH)
	}
	return nil
}

// Generate the primary ray through pixel (x, y). Row 0 is the top row of
// the frame. The offsets (in [0, 1)) select the position inside the pixel;
// 0.5 targets the pixel center.
func (c *Camera) PrimaryRay(x, y uint32, offsetX, offsetY float32) types.Ray {
	px := -c.ImageW*0.5 + c.ImageW*(float32(x)+offsetX)/float32(c.FrameW)
	py := c.ImageH*0.5 - c.ImageH*(float32(y)+offsetY)/float32(c.FrameH)

	dir := c.U.Mul(px).Add(c.V.Mul(py)).Sub(c.W.Mul(c.FocalDist))
	return types.NewRay(c.Eye, dir)
}
