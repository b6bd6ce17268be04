package cmd

import (
	"errors"

	"github.com/achilleasa/raytra/frame"
	"github.com/achilleasa/raytra/renderer"
	"github.com/achilleasa/raytra/scene/reader"
	"github.com/achilleasa/raytra/tracer/integrator"
	"github.com/urfave/cli"
)

// Render the leaf bounding boxes of the scene BVH and display tree stats.
func Debug(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		logger.Error(err)
		return err
	}

	fb, stats, err := renderer.RenderFrame(sc, renderer.Options{
		Mode:       integrator.BoundingBoxes,
		MaxDepth:   uint32(ctx.Int("depth")),
		NumTracers: ctx.Int("tracers"),
	})
	if err != nil {
		logger.Error(err)
		return err
	}

	logger.Noticef("BVH statistics\n%s", stats.BVH.Table())

	imgFile := ctx.String("out")
	if err = fb.SavePNG(imgFile, frame.ClampTonemap(float32(ctx.Float64("exposure")))); err != nil {
		return err
	}
	logger.Noticef("wrote bounding box frame to %s in %s", imgFile, stats.RenderTime)
	return nil
}
