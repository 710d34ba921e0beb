package bxdf

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// MicrofacetDistribution abstracts a half-vector distribution for
// microfacet scatters
type MicrofacetDistribution interface {
	// SampleHalf draws a half vector visible from wo and its pdf
	SampleHalf(wo core.Vec3, sampler core.Sampler) (core.Vec3, float64)

	// HalfPDF returns the density SampleHalf would have for a half vector
	HalfPDF(wo, half core.Vec3) float64

	// NDFVisible is the distribution value times the masking-shadowing
	// term over 4|cosθo||cosθi|
	NDFVisible(wo, wi, half core.Vec3) float64
}

// GGX is the anisotropic GGX distribution sampled by visible normals
type GGX struct {
	roughnessX float64
	roughnessY float64
}

// NewGGX creates a GGX distribution with per-axis roughness
func NewGGX(roughnessX, roughnessY float64) *GGX {
	return &GGX{roughnessX: roughnessX, roughnessY: roughnessY}
}

func (g *GGX) SampleHalf(wo core.Vec3, sampler core.Sampler) (core.Vec3, float64) {
	return GGXVNDFSample(wo, g.roughnessX, g.roughnessY, sampler.Get2D())
}

func (g *GGX) HalfPDF(wo, half core.Vec3) float64 {
	return GGXVNDFPDF(half, wo, g.roughnessX, g.roughnessY)
}

func (g *GGX) NDFVisible(wo, wi, half core.Vec3) float64 {
	ndf := GGXNDF(half, g.roughnessX, g.roughnessY)
	visible := SmithVisible(wo, wi, g.roughnessX, g.roughnessY)
	return ndf * visible
}

// MicrofacetReflect is a glossy reflector: a microfacet distribution with
// a Fresnel term and no transmission. Conductors use it directly.
type MicrofacetReflect struct {
	distribution MicrofacetDistribution
	fresnel      Fresnel
}

// NewMicrofacetReflect creates a reflective microfacet scatter
func NewMicrofacetReflect(distribution MicrofacetDistribution, fresnel Fresnel) *MicrofacetReflect {
	return &MicrofacetReflect{distribution: distribution, fresnel: fresnel}
}

func (m *MicrofacetReflect) Sample(wo core.Vec3, sampler core.Sampler) core.ScatterSample {
	half, halfPDF := m.distribution.SampleHalf(wo, sampler)
	fresnel := m.fresnel.Fresnel(wo, half)
	wi := ReflectAbout(wo, half)
	return core.ScatterSample{
		Wi:    wi,
		Value: fresnel.Multiply(m.distribution.NDFVisible(wo, wi, half)),
		PDF:   halfPDF / (4.0 * math.Abs(wo.Dot(half))),
	}
}

func (m *MicrofacetReflect) Evaluate(wo, wi core.Vec3) core.Vec3 {
	if !core.SameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	half := HalfFromReflect(wo, wi)
	fresnel := m.fresnel.Fresnel(wo, half)
	return fresnel.Multiply(m.distribution.NDFVisible(wo, wi, half))
}

func (m *MicrofacetReflect) PDF(wo, wi core.Vec3) float64 {
	if !core.SameHemisphere(wo, wi) {
		return 0
	}
	half := HalfFromReflect(wo, wi)
	return m.distribution.HalfPDF(wo, half) / (4.0 * math.Abs(wo.Dot(half)))
}

func (m *MicrofacetReflect) IsDelta() bool {
	return false
}

// MicrofacetDielectric is a rough dielectric with Fresnel-weighted
// reflection and refraction lobes
type MicrofacetDielectric struct {
	distribution MicrofacetDistribution
	fresnel      Fresnel
}

// NewMicrofacetDielectric creates a rough dielectric scatter
func NewMicrofacetDielectric(distribution MicrofacetDistribution, fresnel Fresnel) *MicrofacetDielectric {
	return &MicrofacetDielectric{distribution: distribution, fresnel: fresnel}
}

// Sample draws a visible half vector, then chooses reflection with the
// Fresnel luminance as the branch probability
func (m *MicrofacetDielectric) Sample(wo core.Vec3, sampler core.Sampler) core.ScatterSample {
	half, halfPDF := m.distribution.SampleHalf(wo, sampler)
	fresnel := m.fresnel.Fresnel(wo, half)
	reflectProb := fresnel.Luminance()

	if sampler.Get1D() < reflectProb {
		wi := ReflectAbout(wo, half)
		return core.ScatterSample{
			Wi:    wi,
			Value: fresnel.Multiply(m.distribution.NDFVisible(wo, wi, half)),
			PDF:   reflectProb * halfPDF / (4.0 * math.Abs(wo.Dot(half))),
		}
	}

	wi, ok := RefractAbout(wo, half, m.fresnel.IOR())
	if !ok {
		return core.ScatterSample{PDF: 1}
	}

	iorRatio := m.fresnel.IOR()
	if wo.Z >= 0 {
		iorRatio = 1.0 / iorRatio
	}
	denom := iorRatio*wo.Dot(half) + wi.Dot(half)
	denom *= denom

	one := core.NewVec3(1, 1, 1)
	value := one.Subtract(fresnel).
		Multiply(m.distribution.NDFVisible(wo, wi, half)).
		Multiply(4.0 * math.Abs(wo.Dot(half)) * math.Abs(wi.Dot(half)) / denom)
	pdf := (1.0 - reflectProb) * halfPDF * math.Abs(wi.Dot(half)) / denom

	return core.ScatterSample{Wi: wi, Value: value, PDF: pdf}
}

func (m *MicrofacetDielectric) Evaluate(wo, wi core.Vec3) core.Vec3 {
	if core.SameHemisphere(wo, wi) {
		half := HalfFromReflect(wo, wi)
		fresnel := m.fresnel.Fresnel(wo, half)
		return fresnel.Multiply(m.distribution.NDFVisible(wo, wi, half))
	}

	half := HalfFromRefract(wo, wi, m.fresnel.IOR())
	fresnel := m.fresnel.Fresnel(wo, half)
	iorRatio := m.fresnel.IOR()
	if wo.Z >= 0 {
		iorRatio = 1.0 / iorRatio
	}
	denom := iorRatio*wo.Dot(half) + wi.Dot(half)
	denom *= denom

	one := core.NewVec3(1, 1, 1)
	return one.Subtract(fresnel).
		Multiply(m.distribution.NDFVisible(wo, wi, half)).
		Multiply(4.0 * math.Abs(wo.Dot(half)) * math.Abs(wi.Dot(half)) / denom)
}

func (m *MicrofacetDielectric) PDF(wo, wi core.Vec3) float64 {
	if core.SameHemisphere(wo, wi) {
		half := HalfFromReflect(wo, wi)
		reflectProb := m.fresnel.Fresnel(wo, half).Luminance()
		return reflectProb * m.distribution.HalfPDF(wo, half) / (4.0 * math.Abs(wo.Dot(half)))
	}

	half := HalfFromRefract(wo, wi, m.fresnel.IOR())
	reflectProb := m.fresnel.Fresnel(wo, half).Luminance()
	iorRatio := m.fresnel.IOR()
	if wo.Z >= 0 {
		iorRatio = 1.0 / iorRatio
	}
	denom := iorRatio*wo.Dot(half) + wi.Dot(half)
	denom *= denom
	return (1.0 - reflectProb) * m.distribution.HalfPDF(wo, half) * math.Abs(wi.Dot(half)) / denom
}

func (m *MicrofacetDielectric) IsDelta() bool {
	return false
}
