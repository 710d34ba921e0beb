package primitive

import "github.com/PepcyCh/simple-path-tracer/pkg/core"

// Group is a flat aggregate that tests every child in turn. Small scenes
// and tests use it directly; larger collections go through the BVH.
type Group struct {
	primitives []core.Primitive
	bbox       core.AABB
}

// NewGroup creates a group over the given primitives
func NewGroup(primitives []core.Primitive) *Group {
	bbox := core.EmptyAABB()
	for _, prim := range primitives {
		bbox = bbox.Union(prim.BoundingBox())
	}
	return &Group{primitives: primitives, bbox: bbox}
}

func (g *Group) Intersect(ray core.Ray, inter *core.SurfaceInteraction) bool {
	result := false
	for _, prim := range g.primitives {
		if prim.Intersect(ray, inter) {
			result = true
		}
	}
	return result
}

func (g *Group) IntersectP(ray core.Ray, tMax float64) bool {
	for _, prim := range g.primitives {
		if prim.IntersectP(ray, tMax) {
			return true
		}
	}
	return false
}

func (g *Group) BoundingBox() core.AABB {
	return g.bbox
}

// Sample picks a child uniformly, then samples it
func (g *Group) Sample(sampler core.Sampler) (core.SurfaceInteraction, float64) {
	if len(g.primitives) == 0 {
		return core.NewSurfaceInteraction(), 0
	}
	index := int(sampler.Get1D() * float64(len(g.primitives)))
	if index >= len(g.primitives) {
		index = len(g.primitives) - 1
	}
	inter, pdf := g.primitives[index].Sample(sampler)
	return inter, pdf / float64(len(g.primitives))
}

func (g *Group) PDF(inter *core.SurfaceInteraction) float64 {
	if len(g.primitives) == 0 || inter.Primitive == nil {
		return 0
	}
	return inter.Primitive.PDF(inter) / float64(len(g.primitives))
}
