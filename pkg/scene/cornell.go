package scene

import (
	"github.com/PepcyCh/simple-path-tracer/pkg/core"
	"github.com/PepcyCh/simple-path-tracer/pkg/material"
	"github.com/PepcyCh/simple-path-tracer/pkg/primitive"
)

// CameraSetup describes where a built-in scene wants its camera. The
// driver turns it into a renderer camera.
type CameraSetup struct {
	Eye    core.Vec3
	LookAt core.Vec3
	Up     core.Vec3
	FovDeg float64
}

// quadMesh builds a two-triangle quad from four corners in CCW order
// with the implied face normal
func quadMesh(a, b, c, d core.Vec3) core.Primitive {
	normal := b.Subtract(a).Cross(d.Subtract(a)).Normalize()
	vertices := []primitive.MeshVertex{
		{Position: a, Normal: normal, UV: core.NewVec2(0, 0)},
		{Position: b, Normal: normal, UV: core.NewVec2(1, 0)},
		{Position: c, Normal: normal, UV: core.NewVec2(1, 1)},
		{Position: d, Normal: normal, UV: core.NewVec2(0, 1)},
	}
	mesh := primitive.NewTriangleMesh(vertices, []uint32{0, 1, 2, 0, 2, 3})
	return primitive.NewBVH(mesh.Triangles(), primitive.DefaultMaxLeafSize)
}

// NewCornellBox builds the classic five-wall test box: gray Lambertian
// walls in the unit-ish cube, a small bright patch under the ceiling.
func NewCornellBox() (*Scene, CameraSetup, error) {
	builder := NewBuilder()

	gray := material.NewLambert(material.NewSolidColor(core.NewVec3(0.73, 0.73, 0.73)))
	builder.AddMaterial("gray", gray)

	// Box spans [-1,1] in x, [0,2] in y, [-1,1] in z, open toward +z.
	// Corners are wound so every normal points into the box.
	builder.AddPrimitive("floor", quadMesh(
		core.NewVec3(-1, 0, 1), core.NewVec3(1, 0, 1),
		core.NewVec3(1, 0, -1), core.NewVec3(-1, 0, -1)))
	builder.AddPrimitive("ceiling", quadMesh(
		core.NewVec3(-1, 2, -1), core.NewVec3(1, 2, -1),
		core.NewVec3(1, 2, 1), core.NewVec3(-1, 2, 1)))
	builder.AddPrimitive("back", quadMesh(
		core.NewVec3(-1, 0, -1), core.NewVec3(1, 0, -1),
		core.NewVec3(1, 2, -1), core.NewVec3(-1, 2, -1)))
	builder.AddPrimitive("left", quadMesh(
		core.NewVec3(-1, 0, 1), core.NewVec3(-1, 0, -1),
		core.NewVec3(-1, 2, -1), core.NewVec3(-1, 2, 1)))
	builder.AddPrimitive("right", quadMesh(
		core.NewVec3(1, 0, -1), core.NewVec3(1, 0, 1),
		core.NewVec3(1, 2, 1), core.NewVec3(1, 2, -1)))
	// Small emissive patch just below the ceiling, facing down
	builder.AddPrimitive("lamp", quadMesh(
		core.NewVec3(-0.25, 1.99, -0.25), core.NewVec3(0.25, 1.99, -0.25),
		core.NewVec3(0.25, 1.99, 0.25), core.NewVec3(-0.25, 1.99, 0.25)))

	builder.AddSurface("lamp", &core.Surface{
		Emissive: core.NewVec3(200, 200, 200),
	})

	identity := primitive.IdentityTransform()
	for _, name := range []string{"floor", "ceiling", "back", "left", "right"} {
		builder.AddInstance(InstanceDecl{
			Name:      name,
			Primitive: name,
			Transform: identity,
			Material:  "gray",
		})
	}
	builder.AddInstance(InstanceDecl{
		Name:      "lamp",
		Primitive: "lamp",
		Transform: identity,
		Surface:   "lamp",
	})

	scene, err := builder.Build()
	camera := CameraSetup{
		Eye:    core.NewVec3(0, 1, 3.6),
		LookAt: core.NewVec3(0, 1, 0),
		Up:     core.NewVec3(0, 1, 0),
		FovDeg: 40,
	}
	return scene, camera, err
}
