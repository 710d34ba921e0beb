package cmd

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"os/signal"

	"github.com/urfave/cli"

	"github.com/PepcyCh/simple-path-tracer/log"
	"github.com/PepcyCh/simple-path-tracer/pkg/integrator"
	"github.com/PepcyCh/simple-path-tracer/pkg/renderer"
)

// RenderScene renders a still frame and writes it out as a PNG.
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, setup, err := buildScene(ctx)
	if err != nil {
		return err
	}

	camera := renderer.NewCamera(renderer.CameraConfig{
		Eye:        setup.Eye,
		LookAt:     setup.LookAt,
		Up:         setup.Up,
		FovDeg:     setup.FovDeg,
		LensRadius: ctx.Float64("lens-radius"),
		FocusDist:  ctx.Float64("focus-dist"),
	})
	pt := integrator.NewPathTracer(sc, ctx.Int("depth"))

	r := renderer.NewRenderer(camera, pt, renderer.Options{
		Width:           ctx.Int("width"),
		Height:          ctx.Int("height"),
		SamplesPerPixel: ctx.Int("spp"),
		TileSize:        ctx.Int("tile-size"),
		Workers:         ctx.Int("workers"),
		Seed:            ctx.Int64("seed"),
	})
	r.SetLogger(log.NewPrintfBridge(logger))
	lastPercent := -1
	r.SetProgress(func(completed, total int) {
		percent := completed * 100 / total
		if percent/10 > lastPercent/10 {
			logger.Noticef("rendered %d%% (%d/%d tiles)", percent, completed, total)
		}
		lastPercent = percent
	})

	// Ctrl-C stops the render; completed tiles are still written out
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	film, stats := r.Render(renderCtx)
	if stats.Cancelled {
		logger.Warning("render cancelled, writing partial frame")
	}

	out := ctx.String("out")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, film.Image()); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", out)

	displayRenderStats(stats)
	return nil
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	stats.WriteTable(&buf)
	logger.Noticef("render statistics\n%s", buf.String())
}
