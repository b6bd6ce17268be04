package renderer

import "github.com/achilleasa/raytra/frame"

type Renderer interface {
	// Render frame.
	Render() (*frame.Buffer, error)

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
