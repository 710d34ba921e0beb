// Package scene assembles named resources into an immutable scene. All
// reference resolution happens in Build; the frozen Scene is read-only
// and safe for concurrent tracing.
package scene

import (
	"errors"
	"fmt"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
	"github.com/PepcyCh/simple-path-tracer/pkg/lights"
	"github.com/PepcyCh/simple-path-tracer/pkg/primitive"
)

// Build-time validation errors. Wrapped values carry the offending
// reference name.
var (
	ErrUnknownReference   = errors.New("unknown reference")
	ErrConflictingBinding = errors.New("material and surface both set")
	ErrMissingBinding     = errors.New("neither material nor surface set")
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// Aggregate variant names accepted by the builder
const (
	AggregateBVH   = "bvh"
	AggregateGroup = "group"
)

// Light sampler variant names accepted by the builder
const (
	LightSamplerUniform = "uniform"
	LightSamplerPower   = "power"
)

// InstanceDecl binds a named primitive into the world. Exactly one of
// Material and Surface must be set; a bare material is wrapped into a
// default surface.
type InstanceDecl struct {
	Name      string
	Primitive string
	Transform primitive.Transform
	Material  string
	Surface   string
}

// Builder accumulates named scene resources. It is single-threaded;
// Build resolves every reference and freezes the result.
type Builder struct {
	primitives  map[string]core.Primitive
	materials   map[string]core.Material
	surfaces    map[string]*core.Surface
	mediums     map[string]core.Medium
	instances   []InstanceDecl
	lights      []core.Light
	environment *lights.Environment
	aggregate   string
	sampler     string
}

// NewBuilder creates an empty scene builder with the default aggregate
// (BVH) and light sampler (power-weighted)
func NewBuilder() *Builder {
	return &Builder{
		primitives: make(map[string]core.Primitive),
		materials:  make(map[string]core.Material),
		surfaces:   make(map[string]*core.Surface),
		mediums:    make(map[string]core.Medium),
		aggregate:  AggregateBVH,
		sampler:    LightSamplerPower,
	}
}

// AddPrimitive registers a named primitive
func (b *Builder) AddPrimitive(name string, p core.Primitive) *Builder {
	b.primitives[name] = p
	return b
}

// AddMaterial registers a named material
func (b *Builder) AddMaterial(name string, m core.Material) *Builder {
	b.materials[name] = m
	return b
}

// AddSurface registers a named surface
func (b *Builder) AddSurface(name string, s *core.Surface) *Builder {
	b.surfaces[name] = s
	return b
}

// AddMedium registers a named medium for surfaces to reference
func (b *Builder) AddMedium(name string, m core.Medium) *Builder {
	b.mediums[name] = m
	return b
}

// Medium looks up a registered medium by name
func (b *Builder) Medium(name string) (core.Medium, error) {
	m, ok := b.mediums[name]
	if !ok {
		return nil, fmt.Errorf("medium %q: %w", name, ErrUnknownReference)
	}
	return m, nil
}

// AddInstance queues an instance declaration for resolution at Build
func (b *Builder) AddInstance(decl InstanceDecl) *Builder {
	b.instances = append(b.instances, decl)
	return b
}

// AddLight registers an explicit light. Shape lights for emissive
// surfaces are derived automatically at Build.
func (b *Builder) AddLight(l core.Light) *Builder {
	b.lights = append(b.lights, l)
	return b
}

// SetEnvironment sets the environment light, which doubles as the
// background for escaped rays
func (b *Builder) SetEnvironment(env *lights.Environment) *Builder {
	b.environment = env
	return b
}

// SetAggregate selects the aggregate variant by name
func (b *Builder) SetAggregate(name string) *Builder {
	b.aggregate = name
	return b
}

// SetLightSampler selects the light selection strategy by name
func (b *Builder) SetLightSampler(name string) *Builder {
	b.sampler = name
	return b
}

func (b *Builder) resolveSurface(decl InstanceDecl) (*core.Surface, error) {
	switch {
	case decl.Material != "" && decl.Surface != "":
		return nil, fmt.Errorf("instance %q: %w", decl.Name, ErrConflictingBinding)
	case decl.Material != "":
		material, ok := b.materials[decl.Material]
		if !ok {
			return nil, fmt.Errorf("instance %q: material %q: %w",
				decl.Name, decl.Material, ErrUnknownReference)
		}
		return core.NewSurface(material), nil
	case decl.Surface != "":
		surface, ok := b.surfaces[decl.Surface]
		if !ok {
			return nil, fmt.Errorf("instance %q: surface %q: %w",
				decl.Name, decl.Surface, ErrUnknownReference)
		}
		return surface, nil
	default:
		return nil, fmt.Errorf("instance %q: %w", decl.Name, ErrMissingBinding)
	}
}

// Build resolves every declaration into a frozen Scene
func (b *Builder) Build() (*Scene, error) {
	instances := make([]*primitive.Instance, 0, len(b.instances))
	sceneLights := append([]core.Light(nil), b.lights...)

	for _, decl := range b.instances {
		prim, ok := b.primitives[decl.Primitive]
		if !ok {
			return nil, fmt.Errorf("instance %q: primitive %q: %w",
				decl.Name, decl.Primitive, ErrUnknownReference)
		}
		surface, err := b.resolveSurface(decl)
		if err != nil {
			return nil, err
		}

		instance := primitive.NewInstance(prim, decl.Transform, surface)
		if !instance.BoundingBox().IsValid() {
			return nil, fmt.Errorf("instance %q: %w", decl.Name, ErrDegenerateGeometry)
		}
		instances = append(instances, instance)

		// Emissive surfaces become area lights, registered exactly once
		if surface.IsEmissive() {
			sceneLights = append(sceneLights, lights.NewShapeLight(instance))
		}
	}

	if b.environment != nil {
		sceneLights = append(sceneLights, b.environment)
	}

	prims := make([]core.Primitive, len(instances))
	for i, ins := range instances {
		prims[i] = ins
	}
	var aggregate core.Primitive
	switch b.aggregate {
	case AggregateBVH:
		aggregate = primitive.NewBVH(prims, primitive.DefaultMaxLeafSize)
	case AggregateGroup:
		aggregate = primitive.NewGroup(prims)
	default:
		return nil, fmt.Errorf("aggregate %q: %w", b.aggregate, ErrUnknownReference)
	}

	var sampler core.LightSampler
	switch b.sampler {
	case LightSamplerUniform:
		sampler = lights.NewUniformSampler(sceneLights)
	case LightSamplerPower:
		sampler = lights.NewPowerSampler(sceneLights)
	default:
		return nil, fmt.Errorf("light sampler %q: %w", b.sampler, ErrUnknownReference)
	}

	return &Scene{
		aggregate:   aggregate,
		instances:   instances,
		lights:      sceneLights,
		sampler:     sampler,
		environment: b.environment,
	}, nil
}

// Scene is the frozen render input: aggregate, lights and light sampler.
// Immutable after Build, shared read-only across workers.
type Scene struct {
	aggregate   core.Primitive
	instances   []*primitive.Instance
	lights      []core.Light
	sampler     core.LightSampler
	environment *lights.Environment
}

// Intersect finds the closest surface hit in the scene
func (s *Scene) Intersect(ray core.Ray, inter *core.SurfaceInteraction) bool {
	return s.aggregate.Intersect(ray, inter)
}

// IntersectP reports whether anything blocks the ray before tMax
func (s *Scene) IntersectP(ray core.Ray, tMax float64) bool {
	return s.aggregate.IntersectP(ray, tMax)
}

// Aggregate returns the scene's top-level primitive, used for nested
// queries like subsurface probe rays
func (s *Scene) Aggregate() core.Primitive {
	return s.aggregate
}

// Lights returns the full light list, explicit and derived
func (s *Scene) Lights() []core.Light {
	return s.lights
}

// LightSampler returns the light selection strategy
func (s *Scene) LightSampler() core.LightSampler {
	return s.sampler
}

// Environment returns the environment light, nil if the scene has none
func (s *Scene) Environment() *lights.Environment {
	return s.environment
}

// InstanceCount returns the number of placed instances
func (s *Scene) InstanceCount() int {
	return len(s.instances)
}

// BoundingBox returns the bound of everything in the scene
func (s *Scene) BoundingBox() core.AABB {
	return s.aggregate.BoundingBox()
}
