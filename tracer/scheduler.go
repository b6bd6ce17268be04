package tracer

import (
	"fmt"
	"math"
	"strings"
)

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers using feedback collected from previous frames.
	//
	// This function returns the block height assignment for each tracer
	// in the input list. The frame height must be at least equal to the
	// number of tracers.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler splits the frame rows proportionally to each
// tracer's speed estimate.
type naiveScheduler struct {
}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	return speedBasedAssignment(tracers, frameH)
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for tracer w and frame i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	// If this is the first time we try to schedule or the number of tracers
	// has changed we need to reset the block assignments
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = speedBasedAssignment(tracers, frameH)
		return sch.blockAssignment
	}

	// Use last frame statistics
	var total float64 = 0.0
	var stats *Stats
	for _, tr := range tracers {
		stats = tr.Stats()
		total += float64(stats.BlockH) / math.Max(1, float64(stats.RenderTime))
	}

	// Tracers that have not rendered anything yet provide no feedback
	if total == 0 {
		sch.blockAssignment = speedBasedAssignment(tracers, frameH)
		return sch.blockAssignment
	}

	scaler := float64(frameH) / total
	for idx, tr := range tracers {
		stats = tr.Stats()
		rate := float64(stats.BlockH) / math.Max(1, float64(stats.RenderTime))
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(rate*scaler)))
	}

	balanceAssignment(sch.blockAssignment, frameH)
	return sch.blockAssignment
}

// Distribute rows according to each tracer's speed estimate.
func speedBasedAssignment(tracers []Tracer, frameH uint32) []uint32 {
	var total float64 = 0.0
	for _, tr := range tracers {
		total += float64(tr.SpeedEstimate())
	}
	scaler := float64(frameH) / total

	blockAssignment := make([]uint32, len(tracers))
	for idx, tr := range tracers {
		blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(float64(tr.SpeedEstimate())*scaler)))
	}

	balanceAssignment(blockAssignment, frameH)
	return blockAssignment
}

// Make the assignment add up to frameH. Missing rows are appended to the
// first tracer; excess rows are removed from the largest blocks.
func balanceAssignment(blockAssignment []uint32, frameH uint32) {
	var scheduledRows uint32 = 0
	for _, rows := range blockAssignment {
		scheduledRows += rows
	}

	if scheduledRows <= frameH {
		blockAssignment[0] += frameH - scheduledRows
		return
	}

	for ; scheduledRows > frameH; scheduledRows-- {
		largest := 0
		for idx, rows := range blockAssignment {
			if rows > blockAssignment[largest] {
				largest = idx
			}
		}
		if blockAssignment[largest] <= 1 {
			return
		}
		blockAssignment[largest]--
	}
}

// Lookup a block scheduler by name (naive or perfect).
func SchedulerByName(name string) (BlockScheduler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "naive":
		return NaiveScheduler(), nil
	case "perfect":
		return PerfectScheduler(), nil
	}
	return nil, fmt.Errorf("tracer: unknown scheduler %q", name)
}
