package cmd

import (
	"github.com/urfave/cli"

	"github.com/PepcyCh/simple-path-tracer/log"
	"github.com/PepcyCh/simple-path-tracer/pkg/core"
	"github.com/PepcyCh/simple-path-tracer/pkg/lights"
	"github.com/PepcyCh/simple-path-tracer/pkg/loaders"
	"github.com/PepcyCh/simple-path-tracer/pkg/material"
	"github.com/PepcyCh/simple-path-tracer/pkg/primitive"
	"github.com/PepcyCh/simple-path-tracer/pkg/scene"
)

// buildScene loads the scene named on the command line, or falls back
// to the built-in cornell box when no file is given. OBJ scenes get a
// neutral gray material and an environment light so they render without
// any further setup.
func buildScene(ctx *cli.Context) (*scene.Scene, scene.CameraSetup, error) {
	if ctx.NArg() == 0 {
		logger.Notice("no scene file given, rendering the built-in cornell box")
		return scene.NewCornellBox()
	}

	path := ctx.Args().First()
	logger.Noticef("loading mesh from %s", path)
	mesh, err := loaders.LoadOBJ(path, log.NewPrintfBridge(logger))
	if err != nil {
		return nil, scene.CameraSetup{}, err
	}
	logger.Infof("loaded %d vertices, %d triangles", mesh.VertexCount(), mesh.TriangleCount())

	builder := scene.NewBuilder()
	builder.AddPrimitive("mesh", primitive.NewBVH(mesh.Triangles(), primitive.DefaultMaxLeafSize))
	builder.AddMaterial("default", material.NewLambert(material.NewSolidGray(0.6)))
	builder.AddInstance(scene.InstanceDecl{
		Name:      "mesh",
		Primitive: "mesh",
		Transform: primitive.IdentityTransform(),
		Material:  "default",
	})

	scale := ctx.Float64("env-scale")
	if scale <= 0 {
		scale = 1
	}
	if envPath := ctx.String("env"); envPath != "" {
		env, err := loaders.LoadEnvironment(envPath, core.NewVec3(scale, scale, scale))
		if err != nil {
			return nil, scene.CameraSetup{}, err
		}
		builder.SetEnvironment(env)
	} else {
		builder.SetEnvironment(lights.NewUniformEnvironment(core.NewVec3(scale, scale, scale)))
	}

	sc, err := builder.Build()
	if err != nil {
		return nil, scene.CameraSetup{}, err
	}
	return sc, frameCamera(sc.BoundingBox()), nil
}

// frameCamera places the camera to see the whole bounding box from a
// slightly raised front position
func frameCamera(box core.AABB) scene.CameraSetup {
	center := box.Center()
	distance := box.Size().Length() * 1.2
	return scene.CameraSetup{
		Eye:    center.Add(core.NewVec3(0, 0.3, 1).Normalize().Multiply(distance)),
		LookAt: center,
		Up:     core.NewVec3(0, 1, 0),
		FovDeg: 45,
	}
}
