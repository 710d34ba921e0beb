package bxdf

import "github.com/PepcyCh/simple-path-tracer/pkg/core"

// Mix linearly blends two scatters: weight of the first, 1-weight of the
// second. Sampling picks one component with that probability; the combined
// pdf sums both weighted densities so either sampling route stays unbiased.
type Mix struct {
	first  core.Scatter
	second core.Scatter
	weight float64
}

// NewMix creates a blend of two scatters. weight is clamped to [0, 1].
func NewMix(first, second core.Scatter, weight float64) *Mix {
	if weight < 0 {
		weight = 0
	} else if weight > 1 {
		weight = 1
	}
	return &Mix{first: first, second: second, weight: weight}
}

func (m *Mix) Sample(wo core.Vec3, sampler core.Sampler) core.ScatterSample {
	chosen, other := m.first, m.second
	chosenWeight, otherWeight := m.weight, 1.0-m.weight
	if sampler.Get1D() >= m.weight {
		chosen, other = m.second, m.first
		chosenWeight, otherWeight = otherWeight, chosenWeight
	}

	sample := chosen.Sample(wo, sampler)
	if sample.Delta {
		// A delta spike cannot blend with the other lobe's finite value
		sample.Value = sample.Value.Multiply(chosenWeight)
		sample.PDF *= chosenWeight
		return sample
	}

	sample.Value = sample.Value.Multiply(chosenWeight).
		Add(other.Evaluate(wo, sample.Wi).Multiply(otherWeight))
	sample.PDF = chosenWeight*sample.PDF + otherWeight*other.PDF(wo, sample.Wi)
	return sample
}

func (m *Mix) Evaluate(wo, wi core.Vec3) core.Vec3 {
	return m.first.Evaluate(wo, wi).Multiply(m.weight).
		Add(m.second.Evaluate(wo, wi).Multiply(1.0 - m.weight))
}

func (m *Mix) PDF(wo, wi core.Vec3) float64 {
	return m.weight*m.first.PDF(wo, wi) + (1.0-m.weight)*m.second.PDF(wo, wi)
}

func (m *Mix) IsDelta() bool {
	return m.first.IsDelta() && m.second.IsDelta()
}
