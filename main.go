package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/PepcyCh/simple-path-tracer/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "simple-path-tracer"
	app.Usage = "render scenes using path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}

	sceneFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "env",
			Usage: "lat-long environment image",
		},
		cli.Float64Flag{
			Name:  "env-scale",
			Value: 1.0,
			Usage: "environment radiance scale",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a still frame",
			Description: `
Render a scene with the unidirectional path tracer and write the frame
out as a PNG. With no argument, the built-in cornell box is rendered;
with a wavefront obj file argument, the mesh is rendered under a
default material and environment light.`,
			ArgsUsage: "[scene.obj]",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 32,
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "depth",
					Value: 10,
					Usage: "maximum path depth",
				},
				cli.IntFlag{
					Name:  "tile-size",
					Value: 32,
					Usage: "tile edge length in pixels",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of render workers, 0 for one per CPU",
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "base sampler seed",
				},
				cli.Float64Flag{
					Name:  "lens-radius",
					Usage: "aperture radius for depth of field, 0 for a pinhole",
				},
				cli.Float64Flag{
					Name:  "focus-dist",
					Usage: "focus distance, defaults to the look-at distance",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			}, sceneFlags...),
			Action: cmd.RenderScene,
		},
		{
			Name:      "info",
			Usage:     "print a scene summary without rendering",
			ArgsUsage: "[scene.obj]",
			Flags:     sceneFlags,
			Action:    cmd.SceneInfo,
		},
	}

	app.Run(os.Args)
}
