package renderer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/achilleasa/raytra/bvh"
	"github.com/achilleasa/raytra/frame"
	"github.com/achilleasa/raytra/log"
	"github.com/achilleasa/raytra/scene"
	"github.com/achilleasa/raytra/tracer"
	"github.com/achilleasa/raytra/tracer/cpu"
	"github.com/achilleasa/raytra/tracer/integrator"
	cpuinfo "github.com/shirou/gopsutil/cpu"
)

// A renderer that splits each frame into row blocks and distributes them
// to a pool of cpu tracers.
type defaultRenderer struct {
	logger log.Logger

	scene     *scene.Scene
	tree      *bvh.Tree
	scheduler tracer.BlockScheduler
	options   Options

	fb      *frame.Buffer
	tracers []tracer.Tracer

	// The running average of all rendered passes.
	accumulator *frame.Buffer
	passes      uint32

	stats FrameStats
}

// Create a new default renderer for the scene. The BVH is built once here
// and shared by all tracers. A nil scheduler selects the naive scheduler.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	switch {
	case sc == nil:
		return nil, ErrSceneNotDefined
	case sc.Camera == nil:
		return nil, ErrCameraNotDefined
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	if scheduler == nil {
		scheduler = tracer.NaiveScheduler()
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		scene:     sc,
		scheduler: scheduler,
		options:   opts.withDefaults(),
		fb:        frame.New(sc.Camera.FrameW, sc.Camera.FrameH),
	}
	r.accumulator = frame.New(r.fb.Width, r.fb.Height)

	if r.options.Mode.NeedsTree() {
		r.tree = bvh.Build(sc.BoundedSurfaces())
		r.stats.BVH = r.tree.Stats()
	}

	intersector, err := integrator.NewIntersector(r.options.Mode, sc.Surfaces, r.tree)
	if err != nil {
		return nil, err
	}

	numTracers := r.options.NumTracers
	if numTracers <= 0 {
		numTracers = logicalCPUs()
	}
	if uint32(numTracers) > r.fb.Height {
		numTracers = int(r.fb.Height)
	}

	for index := 0; index < numTracers; index++ {
		tr := cpu.NewTracer(fmt.Sprintf("cpu-%d", index))
		if err = tr.Init(r.fb); err != nil {
			r.Close()
			return nil, err
		}
		tr.Update(tracer.UpdateScene, sc)
		tr.Update(tracer.UpdateIntersector, intersector)
		r.tracers = append(r.tracers, tr)
	}

	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	r.logger.Infof("rendering %dx%d frame with %d tracer(s) in %s mode", r.fb.Width, r.fb.Height, len(r.tracers), r.options.Mode)
	return r, nil
}

// Get the number of logical cpus.
func logicalCPUs() int {
	count, err := cpuinfo.Counts(true)
	if err != nil || count < 1 {
		return runtime.NumCPU()
	}
	return count
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Render a pass and blend it into the accumulated frame. Each pass offsets
// the jitter seed so subsequent passes add new samples.
func (r *defaultRenderer) Render() (*frame.Buffer, error) {
	if len(r.tracers) == 0 {
		return nil, ErrRendererClosed
	}

	start := time.Now()
	frameH := r.fb.Height
	blockAssignment := r.scheduler.Schedule(r.tracers, frameH)

	doneChan := make(chan uint32, frameH)
	errChan := make(chan error, len(r.tracers))

	var blockY uint32
	for index, tr := range r.tracers {
		if blockAssignment[index] == 0 {
			continue
		}

		tr.Enqueue(tracer.BlockRequest{
			FrameW:          r.fb.Width,
			FrameH:          frameH,
			BlockY:          blockY,
			BlockH:          blockAssignment[index],
			SamplesPerPixel: r.options.PrimarySamples,
			ShadowSamples:   r.options.ShadowSamples,
			MaxDepth:        r.options.MaxDepth,
			Jitter:          r.options.Jitter,
			Seed:            r.options.Seed + int64(r.passes)<<32,
			DoneChan:        doneChan,
			ErrChan:         errChan,
		})
		blockY += blockAssignment[index]
	}

	var rowsDone uint32
	for rowsDone < frameH {
		select {
		case rows := <-doneChan:
			rowsDone += rows
			if r.options.Progress != nil {
				r.options.Progress(rowsDone, frameH)
			}
		case err := <-errChan:
			return nil, err
		}
	}

	r.passes++
	r.accumulator.Accumulate(r.fb, r.passes)
	r.collectStats(blockAssignment, time.Since(start))
	return r.accumulator, nil
}

func (r *defaultRenderer) collectStats(blockAssignment []uint32, renderTime time.Duration) {
	r.stats.Passes = r.passes
	r.stats.RenderTime += renderTime
	r.stats.Tracers = make([]TracerStat, len(r.tracers))
	for index, tr := range r.tracers {
		var stat TracerStat
		stat.Id = tr.Id()
		stat.BlockH = blockAssignment[index]
		stat.FramePercent = 100.0 * float32(stat.BlockH) / float32(r.fb.Height)
		if stat.BlockH > 0 {
			trStats := tr.Stats()
			stat.RenderTime = trStats.RenderTime
			stat.UpdateTime = trStats.UpdateTime
			stat.Rays = trStats.Rays
		}
		r.stats.Tracers[index] = stat

		r.stats.Rays.PrimaryRays += stat.Rays.PrimaryRays
		r.stats.Rays.ShadowRays += stat.Rays.ShadowRays
		r.stats.Rays.ReflectionRays += stat.Rays.ReflectionRays
		r.stats.Rays.ShadeCalls += stat.Rays.ShadeCalls
	}
}

// Render a frame of the scene by averaging opts.Passes passes. Progress is
// reported over the rows of all passes.
func RenderFrame(sc *scene.Scene, opts Options) (*frame.Buffer, FrameStats, error) {
	passes := opts.withDefaults().Passes

	var pass uint32
	if progress := opts.Progress; progress != nil {
		opts.Progress = func(rowsDone, totalRows uint32) {
			progress(pass*totalRows+rowsDone, passes*totalRows)
		}
	}

	r, err := NewDefault(sc, opts.Scheduler, opts)
	if err != nil {
		return nil, FrameStats{}, err
	}
	defer r.Close()

	var fb *frame.Buffer
	for pass = 0; pass < passes; pass++ {
		if fb, err = r.Render(); err != nil {
			return nil, FrameStats{}, err
		}
	}
	return fb, r.Stats(), nil
}
