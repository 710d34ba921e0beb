package bxdf

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Plastic layers a glossy microfacet coat over a Lambertian substrate.
// Fresnel decides how much light the coat reflects; the remainder reaches
// the substrate, attenuated by the transmitted macro Fresnel of both
// directions so the lobe stays reciprocal. Lobe selection weighs the
// coat's macro Fresnel luminance against the substrate's transmitted
// reflectance.
type Plastic struct {
	distribution MicrofacetDistribution
	fresnel      Fresnel
	substrate    *LambertReflect
}

// NewPlastic creates a coated diffuse scatter
func NewPlastic(distribution MicrofacetDistribution, fresnel Fresnel, substrate *LambertReflect) *Plastic {
	return &Plastic{distribution: distribution, fresnel: fresnel, substrate: substrate}
}

func (p *Plastic) lobeProbability(wo core.Vec3) (core.Vec3, float64) {
	one := core.NewVec3(1, 1, 1)
	fresnelMacro := p.fresnel.Fresnel(wo, core.NewVec3(0, 0, 1))
	coatWeight := fresnelMacro.Luminance()
	substrateWeight := one.Subtract(fresnelMacro).MultiplyVec(p.substrate.Reflectance()).Luminance()
	total := coatWeight + substrateWeight
	if total <= 0 {
		return fresnelMacro, 0.5
	}
	return fresnelMacro, coatWeight / total
}

func (p *Plastic) Sample(wo core.Vec3, sampler core.Sampler) core.ScatterSample {
	one := core.NewVec3(1, 1, 1)
	fresnelMacro, coatProb := p.lobeProbability(wo)

	var wi core.Vec3
	if sampler.Get1D() < coatProb {
		half, _ := p.distribution.SampleHalf(wo, sampler)
		wi = ReflectAbout(wo, half)
	} else {
		wi = p.substrate.Sample(wo, sampler).Wi
	}

	if !core.SameHemisphere(wo, wi) {
		return core.ScatterSample{PDF: 1}
	}

	half := HalfFromReflect(wo, wi)
	fresnel := p.fresnel.Fresnel(wo, half)
	coatValue := fresnel.Multiply(p.distribution.NDFVisible(wo, wi, half))
	coatPDF := coatProb * p.distribution.HalfPDF(wo, half) / (4.0 * math.Abs(wo.Dot(half)))

	fresnelMacroWi := p.fresnel.Fresnel(wi, core.NewVec3(0, 0, 1))
	substrateValue := one.Subtract(fresnelMacro).
		MultiplyVec(one.Subtract(fresnelMacroWi)).
		MultiplyVec(p.substrate.Evaluate(wo, wi))
	substratePDF := (1.0 - coatProb) * p.substrate.PDF(wo, wi)

	return core.ScatterSample{
		Wi:    wi,
		Value: coatValue.Add(substrateValue),
		PDF:   coatPDF + substratePDF,
	}
}

func (p *Plastic) Evaluate(wo, wi core.Vec3) core.Vec3 {
	if !core.SameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	one := core.NewVec3(1, 1, 1)
	half := HalfFromReflect(wo, wi)
	fresnel := p.fresnel.Fresnel(wo, half)
	coat := fresnel.Multiply(p.distribution.NDFVisible(wo, wi, half))

	normal := core.NewVec3(0, 0, 1)
	fresnelMacroWo := p.fresnel.Fresnel(wo, normal)
	fresnelMacroWi := p.fresnel.Fresnel(wi, normal)
	substrate := one.Subtract(fresnelMacroWo).
		MultiplyVec(one.Subtract(fresnelMacroWi)).
		MultiplyVec(p.substrate.Evaluate(wo, wi))
	return coat.Add(substrate)
}

func (p *Plastic) PDF(wo, wi core.Vec3) float64 {
	if !core.SameHemisphere(wo, wi) {
		return 0
	}
	_, coatProb := p.lobeProbability(wo)
	half := HalfFromReflect(wo, wi)
	coatPDF := coatProb * p.distribution.HalfPDF(wo, half) / (4.0 * math.Abs(wo.Dot(half)))
	return coatPDF + (1.0-coatProb)*p.substrate.PDF(wo, wi)
}

func (p *Plastic) IsDelta() bool {
	return false
}
