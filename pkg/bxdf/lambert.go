package bxdf

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// LambertReflect is an ideal diffuse reflector with constant reflectance
type LambertReflect struct {
	reflectance core.Vec3
}

// NewLambertReflect creates a Lambertian reflector
func NewLambertReflect(reflectance core.Vec3) *LambertReflect {
	return &LambertReflect{reflectance: reflectance}
}

// Reflectance returns the constant albedo
func (l *LambertReflect) Reflectance() core.Vec3 {
	return l.reflectance
}

// Sample draws a cosine-weighted direction in wo's hemisphere
func (l *LambertReflect) Sample(wo core.Vec3, sampler core.Sampler) core.ScatterSample {
	wi := core.SampleCosineHemisphere(sampler.Get2D())
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	return core.ScatterSample{
		Wi:    wi,
		Value: l.reflectance.Multiply(1.0 / math.Pi),
		PDF:   math.Abs(wi.Z) / math.Pi,
	}
}

func (l *LambertReflect) Evaluate(wo, wi core.Vec3) core.Vec3 {
	if !core.SameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	return l.reflectance.Multiply(1.0 / math.Pi)
}

func (l *LambertReflect) PDF(wo, wi core.Vec3) float64 {
	if !core.SameHemisphere(wo, wi) {
		return 0
	}
	return math.Abs(wi.Z) / math.Pi
}

func (l *LambertReflect) IsDelta() bool {
	return false
}

// LambertTransmit diffusely transmits into the hemisphere opposite wo.
// Subsurface exits use it to re-emit refracted light at the exit point.
type LambertTransmit struct {
	transmittance core.Vec3
}

// NewLambertTransmit creates a Lambertian transmitter
func NewLambertTransmit(transmittance core.Vec3) *LambertTransmit {
	return &LambertTransmit{transmittance: transmittance}
}

// Sample draws a cosine-weighted direction opposite wo's hemisphere
func (l *LambertTransmit) Sample(wo core.Vec3, sampler core.Sampler) core.ScatterSample {
	wi := core.SampleCosineHemisphere(sampler.Get2D())
	if wo.Z >= 0 {
		wi.Z = -wi.Z
	}
	return core.ScatterSample{
		Wi:    wi,
		Value: l.transmittance.Multiply(1.0 / math.Pi),
		PDF:   math.Abs(wi.Z) / math.Pi,
	}
}

func (l *LambertTransmit) Evaluate(wo, wi core.Vec3) core.Vec3 {
	if core.SameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	return l.transmittance.Multiply(1.0 / math.Pi)
}

func (l *LambertTransmit) PDF(wo, wi core.Vec3) float64 {
	if core.SameHemisphere(wo, wi) {
		return 0
	}
	return math.Abs(wi.Z) / math.Pi
}

func (l *LambertTransmit) IsDelta() bool {
	return false
}
