package bvh

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Tree build statistics.
type Stats struct {
	Nodes     int
	Leaves    int
	MaxDepth  int
	BuildTime time.Duration
}

// Render statistics as a table.
func (s Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"BVH", "Value"})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", s.Nodes)})
	table.Append([]string{"Leaves", fmt.Sprintf("%d", s.Leaves)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", s.MaxDepth)})
	table.Append([]string{"Build time", s.BuildTime.String()})
	table.Render()
	return buf.String()
}
