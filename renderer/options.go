package renderer

import (
	"github.com/achilleasa/raytra/tracer"
	"github.com/achilleasa/raytra/tracer/integrator"
)

const (
	// The default reflection depth limit.
	DefaultMaxDepth uint32 = 20
)

// Invoked after each completed frame row with the number of completed rows
// and the frame height.
type ProgressFunc func(rowsDone, totalRows uint32)

type Options struct {
	// Each pixel is sampled PrimarySamples x PrimarySamples times.
	PrimarySamples uint32

	// Each square light is sampled ShadowSamples x ShadowSamples times.
	ShadowSamples uint32

	// Max reflection depth.
	MaxDepth uint32

	// The intersection strategy.
	Mode integrator.Mode

	// Number of cpu tracers; 0 selects one tracer per logical cpu.
	NumTracers int

	// Jitter samples inside their stratification cell. When false samples
	// are taken at cell centers.
	Jitter bool
	Seed   int64

	// Number of frames rendered and averaged by RenderFrame. Each pass
	// uses a different jitter seed.
	Passes uint32

	// The block scheduler; nil selects the naive scheduler.
	Scheduler tracer.BlockScheduler

	// An optional progress callback. It is invoked from the goroutine
	// that called Render.
	Progress ProgressFunc
}

func (o Options) withDefaults() Options {
	if o.PrimarySamples == 0 {
		o.PrimarySamples = 1
	}
	if o.ShadowSamples == 0 {
		o.ShadowSamples = 1
	}
	if o.Passes == 0 {
		o.Passes = 1
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}
