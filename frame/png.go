package frame

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"strings"
)

// A ToneMapper maps a linear color channel value to [0, 1].
type ToneMapper func(v float32) float32

// Scale by exposure and clamp to [0, 1].
func ClampTonemap(exposure float32) ToneMapper {
	return func(v float32) float32 {
		return float32(math.Min(1, math.Max(0, float64(v*exposure))))
	}
}

// Apply simple Reinhard tone-mapping.
func ReinhardTonemap(exposure float32) ToneMapper {
	return func(v float32) float32 {
		v *= exposure
		if v <= 0 {
			return 0
		}
		return v / (1 + v)
	}
}

// Select a tone mapper by name (clamp or reinhard).
func ToneMapperByName(name string, exposure float32) (ToneMapper, error) {
	switch strings.ToLower(name) {
	case "clamp":
		return ClampTonemap(exposure), nil
	case "reinhard":
		return ReinhardTonemap(exposure), nil
	}
	return nil, fmt.Errorf("frame: unknown tone mapper %q", name)
}

// Convert the buffer to an 8-bit RGBA image.
func (fb *Buffer) Image(tm ToneMapper) *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, int(fb.Width), int(fb.Height)))
	for y := uint32(0); y < fb.Height; y++ {
		for x, px := range fb.Row(y) {
			im.SetRGBA(x, int(y), color.RGBA{
				R: to8(tm(px[0])),
				G: to8(tm(px[1])),
				B: to8(tm(px[2])),
				A: to8(px[3]),
			})
		}
	}
	return im
}

// Encode the buffer as a PNG image.
func (fb *Buffer) WritePNG(w io.Writer, tm ToneMapper) error {
	return png.Encode(w, fb.Image(tm))
}

// Save the buffer as a PNG file.
func (fb *Buffer) SavePNG(imgFile string, tm ToneMapper) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = fb.WritePNG(f, tm); err != nil {
		return err
	}
	return f.Close()
}

func to8(v float32) uint8 {
	return uint8(math.Min(255, math.Max(0, math.Round(float64(v)*255))))
}
