package core

// Logger interface for renderer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Primitive is the intersectable unit. Aggregates implement it too, so
// groups, BVHs and instances compose recursively.
type Primitive interface {
	// Intersect finds the closest hit with t in [TMinEps, inter.T),
	// updating inter and returning true when one exists
	Intersect(ray Ray, inter *SurfaceInteraction) bool

	// IntersectP reports whether any hit exists with t in [TMinEps, tMax).
	// Shadow-ray fast path: no interaction is computed.
	IntersectP(ray Ray, tMax float64) bool

	// BoundingBox returns a world-space bound for the primitive
	BoundingBox() AABB

	// Sample picks a point on the primitive's surface for light sampling.
	// Returns the sampled interaction and an area-measure pdf.
	Sample(sampler Sampler) (SurfaceInteraction, float64)

	// PDF returns the area-measure density of sampling the given
	// interaction point with Sample
	PDF(inter *SurfaceInteraction) float64
}

// Material produces a Scatter for a shading point. Materials are stateless
// and immutable after construction; all per-point state lives in the
// returned Scatter.
type Material interface {
	ScatterAt(inter *SurfaceInteraction) Scatter
}

// ScatterSample is the result of importance-sampling a Scatter.
// All directions are in the local shading frame (z = shading normal).
type ScatterSample struct {
	Wi    Vec3    // sampled incident direction
	Value Vec3    // BxDF value for (wo, wi)
	PDF   float64 // solid-angle density of wi
	Delta bool    // sampled lobe is a delta distribution
}

// Scatter is a BxDF: it can be evaluated and importance-sampled.
// Invariants: Evaluate is reciprocal for physically-based variants, and
// PDF returns 0 exactly where Evaluate returns 0 outside the support.
type Scatter interface {
	Sample(wo Vec3, sampler Sampler) ScatterSample
	Evaluate(wo, wi Vec3) Vec3
	PDF(wo, wi Vec3) float64
	IsDelta() bool
}

// ExitSample is a sampled subsurface exit point
type ExitSample struct {
	Point  Vec3
	Frame  Frame
	Weight Vec3 // profile value over pdf, pre-divided
	Valid  bool
}

// SubsurfaceScatter extends Scatter with BSSRDF exit-point sampling.
// The nested probe query goes through the scene aggregate.
type SubsurfaceScatter interface {
	Scatter
	SampleExit(po Vec3, frame Frame, scene Primitive, sampler Sampler) ExitSample
}

// Medium is a homogeneous participating medium
type Medium interface {
	// SampleTransport advances from p along -wo by a sampled free-flight
	// distance bounded by tMax. Returns the new position, whether an
	// in-medium scattering event occurred (false means the segment was
	// crossed), and the transmittance-over-pdf weight.
	SampleTransport(p, wo Vec3, tMax float64, sampler Sampler) (Vec3, bool, Vec3)

	// SamplePhase samples an in-scatter direction for outgoing direction
	// wo, returning the direction and its pdf
	SamplePhase(wo Vec3, sampler Sampler) (Vec3, float64)

	// Transmittance returns the per-channel transmittance over a distance
	Transmittance(dist float64) Vec3

	// Phase evaluates the phase function between two directions
	Phase(wo, wi Vec3) float64
}

// LightSample is a sampled direction toward a light
type LightSample struct {
	Direction Vec3    // from shading point to light, unit length
	PDF       float64 // solid-angle density
	Radiance  Vec3    // incident radiance along Direction
	Distance  float64 // to the light sample; +Inf for infinite lights
}

// Light is an emissive source that can be sampled for direct lighting
type Light interface {
	// Sample picks a direction from the reference point toward the light
	Sample(p Vec3, sampler Sampler) LightSample

	// RadiancePDF evaluates the light along a known direction: the
	// radiance arriving at p from dir, the distance to the light, and
	// the solid-angle pdf Sample would have for that direction
	RadiancePDF(p Vec3, dir Vec3) (Vec3, float64, float64)

	// IsDelta reports whether the light is a delta distribution
	// (point/directional/spot) that BSDF sampling can never hit
	IsDelta() bool

	// Power estimates total emitted power, used for weighted selection
	Power() float64
}

// LightSampler selects one light per sample
type LightSampler interface {
	// SampleLight picks a light and returns it with its selection
	// probability. Returns nil when there are no lights.
	SampleLight(sampler Sampler) (Light, float64)

	// Probability returns the selection probability of the light at the
	// given index
	Probability(index int) float64

	// Count returns the number of lights
	Count() int
}

// Texture supplies colors by UV coordinate and world position
type Texture interface {
	ColorAt(uv Vec2, p Vec3) Vec3
	Average() Vec3
}
