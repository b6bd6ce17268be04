package frame

import "github.com/achilleasa/raytra/types"

// A row-major buffer of RGBA float pixels. Row 0 is the top row. Color
// values are linear and unclamped.
type Buffer struct {
	Width  uint32
	Height uint32
	Pix    []types.Vec4
}

// Allocate a frame buffer with every pixel set to opaque black. Pixel
// offsets are computed in int so large frames do not wrap around uint32.
func New(width, height uint32) *Buffer {
	fb := &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]types.Vec4, int(width)*int(height)),
	}
	for index := range fb.Pix {
		fb.Pix[index][3] = 1
	}
	return fb
}

// Get the pixel at (x, y).
func (fb *Buffer) At(x, y uint32) types.Vec4 {
	return fb.Pix[fb.offset(x, y)]
}

// Set the color of pixel (x, y). Pixels are always opaque.
func (fb *Buffer) Set(x, y uint32, color types.Vec3) {
	fb.Pix[fb.offset(x, y)] = color.Vec4(1)
}

func (fb *Buffer) offset(x, y uint32) int {
	return int(y)*int(fb.Width) + int(x)
}

// Get the pixels of row y.
func (fb *Buffer) Row(y uint32) []types.Vec4 {
	start := fb.offset(0, y)
	return fb.Pix[start : start+int(fb.Width)]
}

// Blend src into the buffer as the n-th pass of a running average. The
// first pass (n = 1) copies src.
func (fb *Buffer) Accumulate(src *Buffer, n uint32) {
	if n <= 1 {
		copy(fb.Pix, src.Pix)
		return
	}

	weight := 1 / float32(n)
	for index, px := range src.Pix {
		acc := fb.Pix[index].Vec3()
		fb.Pix[index] = acc.Add(px.Vec3().Sub(acc).Mul(weight)).Vec4(1)
	}
}
