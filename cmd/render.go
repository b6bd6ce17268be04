package cmd

import (
	"errors"

	"github.com/achilleasa/raytra/frame"
	"github.com/achilleasa/raytra/renderer"
	"github.com/achilleasa/raytra/scene/reader"
	"github.com/achilleasa/raytra/tracer"
	"github.com/achilleasa/raytra/tracer/integrator"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	mode, err := integrator.ParseMode(ctx.String("mode"))
	if err != nil {
		return err
	}

	toneMapper, err := frame.ToneMapperByName(ctx.String("tonemap"), float32(ctx.Float64("exposure")))
	if err != nil {
		return err
	}

	scheduler, err := tracer.SchedulerByName(ctx.String("scheduler"))
	if err != nil {
		return err
	}

	if ctx.Int("passes") < 1 {
		return errors.New("passes must be at least 1")
	}

	opts := renderer.Options{
		PrimarySamples: uint32(ctx.Int("spp")),
		ShadowSamples:  uint32(ctx.Int("shadow-samples")),
		MaxDepth:       uint32(ctx.Int("depth")),
		Mode:           mode,
		NumTracers:     ctx.Int("tracers"),
		Jitter:         !ctx.Bool("no-jitter"),
		Seed:           ctx.Int64("seed"),
		Passes:         uint32(ctx.Int("passes")),
		Scheduler:      scheduler,
		Progress:       progressReporter(),
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}
	logger.Noticef("scene information:\n%s", sc.Stats())

	fb, stats, err := renderer.RenderFrame(sc, opts)
	if err != nil {
		return err
	}

	imgFile := ctx.String("out")
	if err = fb.SavePNG(imgFile, toneMapper); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", imgFile)

	// Display stats
	logger.Noticef("frame statistics\n%s", stats.Table())
	return nil
}

// Log render progress in 10% steps.
func progressReporter() renderer.ProgressFunc {
	var lastStep uint32
	return func(rowsDone, totalRows uint32) {
		step := rowsDone * 10 / totalRows
		if step <= lastStep {
			return
		}
		lastStep = step
		logger.Noticef("rendered %d%% (%d/%d rows)", step*10, rowsDone, totalRows)
	}
}
