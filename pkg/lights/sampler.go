package lights

import (
	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// UniformSampler selects each light with equal probability
type UniformSampler struct {
	lights []core.Light
}

// NewUniformSampler creates a uniform light selection strategy
func NewUniformSampler(lights []core.Light) *UniformSampler {
	return &UniformSampler{lights: lights}
}

func (s *UniformSampler) SampleLight(sampler core.Sampler) (core.Light, float64) {
	n := len(s.lights)
	if n == 0 {
		return nil, 0
	}
	index := int(sampler.Get1D() * float64(n))
	if index >= n {
		index = n - 1
	}
	return s.lights[index], 1.0 / float64(n)
}

func (s *UniformSampler) Probability(index int) float64 {
	if index < 0 || index >= len(s.lights) {
		return 0
	}
	return 1.0 / float64(len(s.lights))
}

func (s *UniformSampler) Count() int {
	return len(s.lights)
}

// PowerSampler selects lights proportionally to their estimated power.
// Bright lights get most of the shadow rays without starving dim ones.
type PowerSampler struct {
	lights []core.Light
	table  *core.AliasTable
}

// NewPowerSampler creates a power-weighted light selection strategy
func NewPowerSampler(lights []core.Light) *PowerSampler {
	weights := make([]float64, len(lights))
	for i, light := range lights {
		weights[i] = light.Power()
	}
	return &PowerSampler{lights: lights, table: core.NewAliasTable(weights)}
}

func (s *PowerSampler) SampleLight(sampler core.Sampler) (core.Light, float64) {
	if len(s.lights) == 0 {
		return nil, 0
	}
	index, prob := s.table.Sample(sampler.Get1D())
	return s.lights[index], prob
}

func (s *PowerSampler) Probability(index int) float64 {
	return s.table.Probability(index)
}

func (s *PowerSampler) Count() int {
	return len(s.lights)
}
