package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"
)

// List the cpus available to the tracers.
func ListDevices(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	cpuInfo, err := cpu.Info()
	if err != nil {
		return fmt.Errorf("could not query cpu info: %s", err.Error())
	}

	logical, err := cpu.Counts(true)
	if err != nil {
		return fmt.Errorf("could not query cpu count: %s", err.Error())
	}
	physical, _ := cpu.Counts(false)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"CPU", "Model", "Cores", "Speed"})
	for index, info := range cpuInfo {
		table.Append([]string{
			fmt.Sprintf("%02d", index),
			info.ModelName,
			fmt.Sprintf("%d", info.Cores),
			fmt.Sprintf("%.0f MHz", info.Mhz),
		})
	}

	footer := []string{"", fmt.Sprintf("%d physical / %d logical cores", physical, logical), "", ""}
	if memInfo, err := mem.VirtualMemory(); err == nil {
		footer[3] = fmt.Sprintf("%d MB RAM", memInfo.Total/(1024*1024))
	}
	table.SetFooter(footer)
	table.Render()

	logger.Noticef("system provides %d cpu tracer slot(s):\n%s", logical, buf.String())
	return nil
}
