package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/achilleasa/raytra/bvh"
	"github.com/achilleasa/raytra/tracer"
	"github.com/olekukonko/tablewriter"
)

type TracerStat struct {
	// The tracer id.
	Id string

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32
	FramePercent float32

	// Render time for assigned block
	RenderTime time.Duration

	// Time spent applying scene and intersector updates.
	UpdateTime time.Duration

	// Rays traced for the assigned block.
	Rays tracer.RayStats
}

type FrameStats struct {
	// Individual tracer stats for the last pass.
	Tracers []TracerStat

	// BVH statistics; zero when the mode does not use a tree.
	BVH bvh.Stats

	// Number of rendered passes.
	Passes uint32

	// Total render time for all passes.
	RenderTime time.Duration

	// Ray totals for all tracers and passes.
	Rays tracer.RayStats
}

// Render frame statistics as a table.
func (fs FrameStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Primary rays", "Shadow rays", "Reflection rays", "Update time", "Render time"})
	for _, stat := range fs.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Rays.PrimaryRays),
			fmt.Sprintf("%d", stat.Rays.ShadowRays),
			fmt.Sprintf("%d", stat.Rays.ReflectionRays),
			stat.UpdateTime.String(),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{
		"TOTAL", fmt.Sprintf("%d pass(es)", fs.Passes), "",
		fmt.Sprintf("%d", fs.Rays.PrimaryRays),
		fmt.Sprintf("%d", fs.Rays.ShadowRays),
		fmt.Sprintf("%d", fs.Rays.ReflectionRays),
		"",
		fs.RenderTime.String(),
	})

	table.Render()
	return buf.String()
}
