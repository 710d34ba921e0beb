package primitive

import "github.com/PepcyCh/simple-path-tracer/pkg/core"

// Instance places a shared primitive into the world with a transform and
// a surface. It is the unit the scene-level aggregate holds.
type Instance struct {
	primitive core.Primitive
	transform Transform
	surface   *core.Surface
	bbox      core.AABB
}

// NewInstance creates an instance of a primitive
func NewInstance(primitive core.Primitive, transform Transform, surface *core.Surface) *Instance {
	return &Instance{
		primitive: primitive,
		transform: transform,
		surface:   surface,
		bbox:      transform.AABB(primitive.BoundingBox()),
	}
}

// Surface returns the instance's surface
func (ins *Instance) Surface() *core.Surface {
	return ins.surface
}

func (ins *Instance) Intersect(ray core.Ray, inter *core.SurfaceInteraction) bool {
	localRay := ins.transform.InverseRay(ray)
	if !ins.primitive.Intersect(localRay, inter) {
		return false
	}

	inter.Instance = ins
	inter.Surface = ins.surface
	inter.Point = ray.At(inter.T)
	inter.Normal = ins.transform.Normal(inter.Normal)
	inter.Tangent = ins.transform.Vector(inter.Tangent)
	inter.Bitangent = ins.transform.Vector(inter.Bitangent)
	return true
}

func (ins *Instance) IntersectP(ray core.Ray, tMax float64) bool {
	return ins.primitive.IntersectP(ins.transform.InverseRay(ray), tMax)
}

func (ins *Instance) BoundingBox() core.AABB {
	return ins.bbox
}

// Sample draws a point on the instanced primitive and maps it to world
// space, correcting the area pdf by the local-to-world area ratio of the
// tangent patch
func (ins *Instance) Sample(sampler core.Sampler) (core.SurfaceInteraction, float64) {
	inter, pdf := ins.primitive.Sample(sampler)
	inter.Instance = ins
	inter.Surface = ins.surface

	originalArea := inter.Tangent.Cross(inter.Bitangent).Length()

	inter.Point = ins.transform.Point(inter.Point)
	inter.Normal = ins.transform.Normal(inter.Normal)
	inter.Tangent = ins.transform.Vector(inter.Tangent)
	inter.Bitangent = ins.transform.Vector(inter.Bitangent)

	transformedArea := inter.Tangent.Cross(inter.Bitangent).Length()
	if transformedArea > 0 {
		pdf = pdf * originalArea / transformedArea
	}
	return inter, pdf
}

// PDF converts the instanced primitive's area density to world space
func (ins *Instance) PDF(inter *core.SurfaceInteraction) float64 {
	tangent := ins.transform.InverseVector(inter.Tangent)
	bitangent := ins.transform.InverseVector(inter.Bitangent)

	originalArea := tangent.Cross(bitangent).Length()
	transformedArea := inter.Tangent.Cross(inter.Bitangent).Length()
	if transformedArea <= 0 {
		return 0
	}
	return ins.primitive.PDF(inter) * originalArea / transformedArea
}
