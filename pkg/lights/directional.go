package lights

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Directional is a light at infinity emitting parallel rays
type Directional struct {
	direction core.Vec3 // direction the light travels, unit length
	strength  core.Vec3
}

// NewDirectional creates a directional light. direction is the travel
// direction of the emitted light.
func NewDirectional(direction, strength core.Vec3) *Directional {
	return &Directional{direction: direction.Normalize(), strength: strength}
}

func (l *Directional) Sample(p core.Vec3, sampler core.Sampler) core.LightSample {
	return core.LightSample{
		Direction: l.direction.Negate(),
		PDF:       1.0,
		Radiance:  l.strength,
		Distance:  math.Inf(1),
	}
}

func (l *Directional) RadiancePDF(p core.Vec3, dir core.Vec3) (core.Vec3, float64, float64) {
	return core.Vec3{}, math.Inf(1), 0
}

func (l *Directional) IsDelta() bool {
	return true
}

func (l *Directional) Power() float64 {
	return l.strength.Luminance()
}
