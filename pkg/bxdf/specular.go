package bxdf

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// SpecularReflect is a perfect mirror with a Fresnel reflectance term
type SpecularReflect struct {
	fresnel Fresnel
}

// NewSpecularReflect creates a perfect mirror scatter
func NewSpecularReflect(fresnel Fresnel) *SpecularReflect {
	return &SpecularReflect{fresnel: fresnel}
}

func (s *SpecularReflect) Sample(wo core.Vec3, sampler core.Sampler) core.ScatterSample {
	fresnel := s.fresnel.Fresnel(wo, core.NewVec3(0, 0, 1))
	wi := Reflect(wo)
	return core.ScatterSample{
		Wi:    wi,
		Value: fresnel.Divide(math.Abs(wi.Z)),
		PDF:   1,
		Delta: true,
	}
}

// Evaluate is zero everywhere; the mirror lobe is a delta distribution
func (s *SpecularReflect) Evaluate(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (s *SpecularReflect) PDF(wo, wi core.Vec3) float64 {
	return 0
}

func (s *SpecularReflect) IsDelta() bool {
	return true
}

// SpecularDielectric is a smooth dielectric with Fresnel-weighted perfect
// reflection and refraction
type SpecularDielectric struct {
	fresnel Fresnel
}

// NewSpecularDielectric creates a smooth dielectric scatter
func NewSpecularDielectric(fresnel Fresnel) *SpecularDielectric {
	return &SpecularDielectric{fresnel: fresnel}
}

// Sample chooses reflection with the Fresnel luminance as the branch
// probability, refraction otherwise. Refraction scales radiance by the
// squared index ratio.
func (s *SpecularDielectric) Sample(wo core.Vec3, sampler core.Sampler) core.ScatterSample {
	fresnel := s.fresnel.Fresnel(wo, core.NewVec3(0, 0, 1))
	reflectProb := fresnel.Luminance()

	if sampler.Get1D() < reflectProb {
		wi := Reflect(wo)
		return core.ScatterSample{
			Wi:    wi,
			Value: fresnel.Divide(math.Abs(wi.Z)),
			PDF:   reflectProb,
			Delta: true,
		}
	}

	wi, ok := Refract(wo, s.fresnel.IOR())
	if !ok {
		return core.ScatterSample{PDF: 1, Delta: true}
	}

	iorRatio := s.fresnel.IOR()
	if wo.Z >= 0 {
		iorRatio = 1.0 / iorRatio
	}
	one := core.NewVec3(1, 1, 1)
	value := one.Subtract(fresnel).Multiply(iorRatio * iorRatio / math.Abs(wi.Z))
	return core.ScatterSample{
		Wi:    wi,
		Value: value,
		PDF:   1.0 - reflectProb,
		Delta: true,
	}
}

// Evaluate is zero everywhere; both lobes are delta distributions
func (s *SpecularDielectric) Evaluate(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (s *SpecularDielectric) PDF(wo, wi core.Vec3) float64 {
	return 0
}

func (s *SpecularDielectric) IsDelta() bool {
	return true
}
