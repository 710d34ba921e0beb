package lights

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Spot is a point light restricted to a cone. Strength is full inside the
// inner angle and falls off linearly in cosine to zero at the outer angle.
type Spot struct {
	position  core.Vec3
	direction core.Vec3
	cosInner  float64
	cosOuter  float64
	strength  core.Vec3
}

// NewSpot creates a spot light aimed along direction. Angles are in
// radians, measured from the axis.
func NewSpot(position, direction core.Vec3, innerAngle, outerAngle float64, strength core.Vec3) *Spot {
	return &Spot{
		position:  position,
		direction: direction.Normalize(),
		cosInner:  math.Cos(innerAngle),
		cosOuter:  math.Cos(outerAngle),
		strength:  strength,
	}
}

func (l *Spot) falloff(wi core.Vec3) core.Vec3 {
	atten := (l.direction.Dot(wi.Negate()) - l.cosOuter) /
		math.Max(l.cosInner-l.cosOuter, 0.0001)
	atten = math.Max(0, math.Min(1, atten))
	return l.strength.Multiply(atten)
}

func (l *Spot) Sample(p core.Vec3, sampler core.Sampler) core.LightSample {
	toLight := l.position.Subtract(p)
	distSqr := toLight.Dot(toLight)
	dist := math.Sqrt(distSqr)
	dir := toLight.Divide(dist)
	return core.LightSample{
		Direction: dir,
		PDF:       1.0,
		Radiance:  l.falloff(dir).Divide(distSqr),
		Distance:  dist,
	}
}

func (l *Spot) RadiancePDF(p core.Vec3, dir core.Vec3) (core.Vec3, float64, float64) {
	return core.Vec3{}, math.Inf(1), 0
}

func (l *Spot) IsDelta() bool {
	return true
}

func (l *Spot) Power() float64 {
	// Solid angle of the outer cone
	return 2.0 * math.Pi * (1.0 - l.cosOuter) * l.strength.Luminance()
}
