package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/raytra/cmd"
	"github.com/achilleasa/raytra/renderer"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "raytra"
	app.Usage = "render scenes using Whitted-style ray tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level (debug, info, notice, warning, error)",
			EnvVar: "RAYTRA_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "list-devices",
			Usage:  "list the cpus available for rendering",
			Action: cmd.ListDevices,
		},
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Parse a scene file, build a BVH over its surfaces and render a single frame
using one tracer per logical cpu. Each pixel is sampled spp x spp times and
each square light shadow-samples x shadow-samples times. With more than one
pass the frame is re-rendered with fresh jitter and averaged; the perfect
scheduler rebalances rows between passes based on tracer speed.`,
			ArgsUsage: "scene_file.scn",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:   "spp, p",
					Value:  1,
					Usage:  "primary sample grid size per pixel",
					EnvVar: "RAYTRA_SPP",
				},
				cli.IntFlag{
					Name:   "shadow-samples, s",
					Value:  1,
					Usage:  "sample grid size for square lights",
					EnvVar: "RAYTRA_SHADOW_SAMPLES",
				},
				cli.IntFlag{
					Name:   "depth",
					Value:  int(renderer.DefaultMaxDepth),
					Usage:  "max reflection depth",
					EnvVar: "RAYTRA_DEPTH",
				},
				cli.StringFlag{
					Name:   "mode",
					Value:  "bvh",
					Usage:  "intersection mode (bvh, brute-force, bvh-candidates, bbox)",
					EnvVar: "RAYTRA_MODE",
				},
				cli.IntFlag{
					Name:   "tracers",
					Value:  0,
					Usage:  "number of cpu tracers; 0 uses one tracer per logical cpu",
					EnvVar: "RAYTRA_TRACERS",
				},
				cli.Int64Flag{
					Name:   "seed",
					Value:  0,
					Usage:  "random seed for sample jittering",
					EnvVar: "RAYTRA_SEED",
				},
				cli.BoolFlag{
					Name:  "no-jitter",
					Usage: "sample the center of each stratification cell",
				},
				cli.IntFlag{
					Name:   "passes",
					Value:  1,
					Usage:  "number of jittered passes to average into the frame",
					EnvVar: "RAYTRA_PASSES",
				},
				cli.StringFlag{
					Name:   "scheduler",
					Value:  "naive",
					Usage:  "row block scheduler (naive, perfect)",
					EnvVar: "RAYTRA_SCHEDULER",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "camera exposure for tone-mapping",
				},
				cli.StringFlag{
					Name:  "tonemap",
					Value: "clamp",
					Usage: "tone-mapping operator (clamp, reinhard)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:      "debug",
			Usage:     "render the BVH leaf bounding boxes",
			ArgsUsage: "scene_file.scn",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "depth",
					Value: int(renderer.DefaultMaxDepth),
					Usage: "max reflection depth",
				},
				cli.IntFlag{
					Name:  "tracers",
					Value: 0,
					Usage: "number of cpu tracers; 0 uses one tracer per logical cpu",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "camera exposure for tone-mapping",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "debug-bbox.png",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.Debug,
		},
		{
			Name:  "scene",
			Usage: "inspect scene files",
			Subcommands: []cli.Command{
				{
					Name:      "info",
					Usage:     "display scene and BVH statistics",
					ArgsUsage: "scene_file.scn",
					Action:    cmd.ShowSceneInfo,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
