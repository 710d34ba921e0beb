package lights

import (
	"math"
	"math/rand"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
	"github.com/PepcyCh/simple-path-tracer/pkg/primitive"
)

// minEmitterCos floors the cosine in the area-to-solid-angle conversion
// so grazing samples do not blow up the pdf
const minEmitterCos = 0.001

// ShapeLight turns an emissive instance into a sampleable area light.
// One-sided surfaces emit from the front face only; back-face samples
// return black radiance with a benign pdf.
type ShapeLight struct {
	shape *primitive.Instance
	power float64
}

// NewShapeLight wraps an emissive instance
func NewShapeLight(shape *primitive.Instance) *ShapeLight {
	return &ShapeLight{
		shape: shape,
		power: estimatePower(shape),
	}
}

// Instance returns the wrapped instance, used to recognize the light when
// a scattered ray hits it directly
func (l *ShapeLight) Instance() *primitive.Instance {
	return l.shape
}

// estimatePower approximates emitted power as average emission times
// surface area. Uniform area samplers have pdf 1/area, so averaging the
// reciprocal pdf over a few fixed-seed samples estimates the area.
func estimatePower(shape *primitive.Instance) float64 {
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(0x5eed)))
	const n = 16
	area := 0.0
	for i := 0; i < n; i++ {
		_, pdf := shape.Sample(sampler)
		if pdf > 0 {
			area += 1.0 / pdf
		}
	}
	area /= n

	emission := shape.Surface().AverageEmission().Luminance()
	if shape.Surface().DoubleSided {
		emission *= 2.0
	}
	return emission * area * math.Pi
}

// emitterCos resolves the emission cosine for a sample seen from
// direction dir (pointing at the light). Single-sided surfaces emit
// only where the normal faces the receiver.
func emitterCos(surface *core.Surface, normal, dir core.Vec3) (float64, bool) {
	if surface.DoubleSided {
		return math.Abs(dir.Dot(normal)), true
	}
	cos := dir.Negate().Dot(normal)
	if cos > 0 {
		return cos, true
	}
	return 1.0, false
}

func (l *ShapeLight) Sample(p core.Vec3, sampler core.Sampler) core.LightSample {
	inter, pdf := l.shape.Sample(sampler)

	toLight := inter.Point.Subtract(p)
	distSqr := toLight.Dot(toLight)
	dist := math.Sqrt(distSqr)
	dir := toLight.Divide(dist)

	radiance := inter.Surface.Emission(&inter)
	cos, front := emitterCos(inter.Surface, inter.Normal, dir)
	if !front {
		radiance = core.Vec3{}
	}

	return core.LightSample{
		Direction: dir,
		PDF:       pdf * distSqr / math.Max(cos, minEmitterCos),
		Radiance:  radiance,
		Distance:  dist,
	}
}

func (l *ShapeLight) RadiancePDF(p core.Vec3, dir core.Vec3) (core.Vec3, float64, float64) {
	ray := core.Ray{Origin: p, Direction: dir}
	inter := core.NewSurfaceInteraction()
	if !l.shape.Intersect(ray, &inter) {
		return core.Vec3{}, math.Inf(1), 0
	}

	radiance := inter.Surface.Emission(&inter)
	cos, front := emitterCos(inter.Surface, inter.Normal, dir)
	if !front {
		radiance = core.Vec3{}
	}

	pdf := l.shape.PDF(&inter) * inter.T * inter.T / math.Max(cos, minEmitterCos)
	return radiance, inter.T, pdf
}

func (l *ShapeLight) IsDelta() bool {
	return false
}

func (l *ShapeLight) Power() float64 {
	return l.power
}
