// Package lights implements the light sources sampled for direct lighting
// and the strategies that pick one light per shading point.
package lights

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Point is an isotropic point light. Radiance falls off with the squared
// distance to the shading point.
type Point struct {
	position core.Vec3
	strength core.Vec3
}

// NewPoint creates a point light
func NewPoint(position, strength core.Vec3) *Point {
	return &Point{position: position, strength: strength}
}

func (l *Point) Sample(p core.Vec3, sampler core.Sampler) core.LightSample {
	toLight := l.position.Subtract(p)
	distSqr := toLight.Dot(toLight)
	dist := math.Sqrt(distSqr)
	return core.LightSample{
		Direction: toLight.Divide(dist),
		PDF:       1.0,
		Radiance:  l.strength.Divide(distSqr),
		Distance:  dist,
	}
}

func (l *Point) RadiancePDF(p core.Vec3, dir core.Vec3) (core.Vec3, float64, float64) {
	return core.Vec3{}, math.Inf(1), 0
}

func (l *Point) IsDelta() bool {
	return true
}

func (l *Point) Power() float64 {
	return 4.0 * math.Pi * l.strength.Luminance()
}
