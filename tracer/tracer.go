package tracer

import (
	"time"

	"github.com/achilleasa/raytra/frame"
)

type UpdateType uint8

// The types of state updates that can be queued on a tracer.
const (
	// Update the scene (*scene.Scene).
	UpdateScene UpdateType = iota

	// Update the intersector used for visibility queries (integrator.Intersector).
	UpdateIntersector
)

// A unit of work that is processed by a tracer. Each request covers a
// range of full frame rows.
type BlockRequest struct {
	// Frame dimensions.
	FrameW uint32
	FrameH uint32

	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The primary sample grid size; each pixel is sampled P x P times.
	SamplesPerPixel uint32

	// The area light sample grid size; each square light is sampled S x S times.
	ShadowSamples uint32

	// Max reflection depth.
	MaxDepth uint32

	// If false, samples are taken at the center of each grid cell.
	Jitter bool

	// A random seed value for the tracer's random number generator.
	Seed int64

	// A channel to signal progress with the number of completed rows. The
	// rows reported for a block add up to BlockH.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Ray counters collected while rendering a block.
type RayStats struct {
	PrimaryRays    uint64
	ShadowRays     uint64
	ReflectionRays uint64
	ShadeCalls     uint64
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block.
	RenderTime time.Duration

	// The time spent applying queued updates.
	UpdateTime time.Duration

	// Rays traced for the last block.
	Rays RayStats
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracer's computation speed estimate compared to a single
	// cpu core.
	SpeedEstimate() float32

	// Initialize tracer and start processing block requests. Rendered
	// pixels are written to the supplied frame buffer.
	Init(fb *frame.Buffer) error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Queue a state update. Updates are applied before processing the
	// next block request.
	Update(UpdateType, interface{})

	// Retrieve last frame statistics.
	Stats() *Stats
}
