package cpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/raytra/frame"
	"github.com/achilleasa/raytra/log"
	"github.com/achilleasa/raytra/scene"
	"github.com/achilleasa/raytra/tracer"
	"github.com/achilleasa/raytra/tracer/integrator"
	"github.com/achilleasa/raytra/types"
)

// A tracer that renders blocks on a dedicated go-routine.
type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// The frame buffer that receives rendered rows.
	fb *frame.Buffer

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateMutex  sync.Mutex
	updateBuffer map[tracer.UpdateType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *tracer.Stats

	// The scene and the intersector used for visibility queries.
	sceneData   *scene.Scene
	intersector integrator.Intersector
}

// Create a new cpu tracer.
func NewTracer(id string) tracer.Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		blockReqChan: make(chan tracer.BlockRequest, 1),
		updateBuffer: make(map[tracer.UpdateType]interface{}, 0),
		stats:        &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// All cpu tracers run on a single core.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return 1.0
}

// Initialize tracer and start the block worker.
func (tr *cpuTracer) Init(fb *frame.Buffer) error {
	if fb == nil {
		return ErrNotInitialized
	}

	tr.Lock()
	defer tr.Unlock()

	tr.fb = fb
	if tr.closeChan == nil {
		tr.startWorker()
	}

	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	tr.cleanup()
}

// Cleanup tracer. This method is meant to be called while holding tr.Lock()
func (tr *cpuTracer) cleanup() {
	// If the worker is running shut it down
	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close
		<-tr.closeChan
		tr.wg.Wait()
		close(tr.closeChan)
		tr.closeChan = nil
	}

	tr.fb = nil
	tr.sceneData = nil
	tr.intersector = nil
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		// drop the request if worker is not listening
		tr.logger.Error("request processor did not receive block request")
	}
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) Update(updateType tracer.UpdateType, data interface{}) {
	tr.updateMutex.Lock()
	tr.updateBuffer[updateType] = data
	tr.updateMutex.Unlock()
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Commit queued changes.
func (tr *cpuTracer) commitUpdates() error {
	tr.updateMutex.Lock()
	defer tr.updateMutex.Unlock()

	for updateType, data := range tr.updateBuffer {
		switch updateType {
		case tracer.UpdateScene:
			sc, ok := data.(*scene.Scene)
			if !ok {
				return fmt.Errorf("cpu tracer: expected *scene.Scene for scene update; got %T", data)
			}
			tr.sceneData = sc
		case tracer.UpdateIntersector:
			in, ok := data.(integrator.Intersector)
			if !ok {
				return fmt.Errorf("cpu tracer: expected integrator.Intersector for intersector update; got %T", data)
			}
			tr.intersector = in
		default:
			return fmt.Errorf("cpu tracer: unsupported update type %d", updateType)
		}
	}

	tr.updateBuffer = make(map[tracer.UpdateType]interface{}, 0)
	return nil
}

func (tr *cpuTracer) hasPendingUpdates() bool {
	tr.updateMutex.Lock()
	defer tr.updateMutex.Unlock()
	return len(tr.updateBuffer) != 0
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	// Worker already running
	if tr.closeChan != nil {
		return
	}

	tr.closeChan = make(chan struct{}, 0)
	readyChan := make(chan struct{}, 0)
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var startTime time.Time
		var updateTime time.Duration
		var rays tracer.RayStats
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				// Apply any pending changes
				updateTime = 0
				if tr.hasPendingUpdates() {
					startTime = time.Now()
					err = tr.commitUpdates()
					if err != nil {
						blockReq.ErrChan <- err
						continue
					}
					updateTime = time.Since(startTime)
				}

				// Render block and reply with our completion status
				startTime = time.Now()
				rays, err = tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats before reporting the last row so the
				// renderer observes them once the frame completes.
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)
				tr.stats.UpdateTime = updateTime
				tr.stats.Rays = rays

				if blockReq.BlockH > 0 {
					blockReq.DoneChan <- 1
				}
			case <-tr.closeChan:
				// Ack close
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block. Completed rows are reported on the request's DoneChan
// except for the last one which is reported by the worker.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) (tracer.RayStats, error) {
	var rays tracer.RayStats

	switch {
	case tr.sceneData == nil || tr.sceneData.Camera == nil:
		return rays, ErrNoSceneData
	case tr.intersector == nil:
		return rays, ErrNoIntersector
	case tr.fb == nil:
		return rays, ErrNotInitialized
	case blockReq.FrameW != tr.fb.Width || blockReq.FrameH != tr.fb.Height || blockReq.BlockY+blockReq.BlockH > tr.fb.Height:
		return rays, ErrFrameSizeMismatch
	}

	shader := integrator.NewWhitted(tr.sceneData, tr.intersector, blockReq.ShadowSamples)
	camera := tr.sceneData.Camera

	gridSize := blockReq.SamplesPerPixel
	if gridSize == 0 {
		gridSize = 1
	}
	cellSize := 1 / float32(gridSize)
	sampleWeight := cellSize * cellSize

	lastRow := blockReq.BlockY + blockReq.BlockH
	for y := blockReq.BlockY; y < lastRow; y++ {
		// Seed per row so the output does not depend on block assignment
		sampler := integrator.CenterSampler()
		if blockReq.Jitter {
			sampler = integrator.RandomSampler(blockReq.Seed + int64(y))
		}

		row := tr.fb.Row(y)
		for x := uint32(0); x < blockReq.FrameW; x++ {
			var color types.Vec3
			for p := uint32(0); p < gridSize; p++ {
				for q := uint32(0); q < gridSize; q++ {
					offsetX := (float32(p) + sampler.Float32()) * cellSize
					offsetY := (float32(q) + sampler.Float32()) * cellSize
					ray := camera.PrimaryRay(x, y, offsetX, offsetY)
					color = color.Add(shader.TracePrimary(ray, blockReq.MaxDepth, sampler))
				}
			}
			row[x] = color.Mul(sampleWeight).Vec4(1)
		}

		if y+1 < lastRow {
			blockReq.DoneChan <- 1
		}
	}

	counters := shader.Counters()
	rays = tracer.RayStats{
		PrimaryRays:    counters.PrimaryRays,
		ShadowRays:     counters.ShadowRays,
		ReflectionRays: counters.ReflectionRays,
		ShadeCalls:     counters.ShadeCalls,
	}
	return rays, nil
}
