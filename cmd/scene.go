package cmd

import (
	"errors"

	"github.com/achilleasa/raytra/bvh"
	"github.com/achilleasa/raytra/scene/reader"
	"github.com/urfave/cli"
)

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sc.Stats())

	tree := bvh.Build(sc.BoundedSurfaces())
	logger.Noticef("BVH statistics\n%s", tree.Stats().Table())

	return nil
}
