package material

import (
	"github.com/PepcyCh/simple-path-tracer/pkg/bxdf"
	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Glass is a dielectric with separate reflection and transmission tints
type Glass struct {
	ior           float64
	reflectance   core.Texture
	transmittance core.Texture
	roughness     core.Texture
}

// NewGlass creates a dielectric material
func NewGlass(ior float64, reflectance, transmittance, roughness core.Texture) *Glass {
	return &Glass{
		ior:           ior,
		reflectance:   reflectance,
		transmittance: transmittance,
		roughness:     roughness,
	}
}

func (m *Glass) ScatterAt(inter *core.SurfaceInteraction) core.Scatter {
	reflectance := m.reflectance.ColorAt(inter.UV, inter.Point)
	transmittance := m.transmittance.ColorAt(inter.UV, inter.Point)
	roughness := m.roughness.ColorAt(inter.UV, inter.Point).X
	roughness *= roughness

	fresnel := bxdf.NewDielectricFresnel(m.ior)
	var inner core.Scatter
	if roughness < smoothRoughnessThreshold {
		inner = bxdf.NewSpecularDielectric(fresnel)
	} else {
		inner = bxdf.NewMicrofacetDielectric(bxdf.NewGGX(roughness, roughness), fresnel)
	}
	return &tintedScatter{
		inner:         inner,
		reflectance:   reflectance,
		transmittance: transmittance,
	}
}

// tintedScatter scales the reflection and transmission lobes of a
// dielectric by separate tints, chosen by which hemisphere wi ends in
type tintedScatter struct {
	inner         core.Scatter
	reflectance   core.Vec3
	transmittance core.Vec3
}

func (t *tintedScatter) tint(wo, wi core.Vec3) core.Vec3 {
	if core.SameHemisphere(wo, wi) {
		return t.reflectance
	}
	return t.transmittance
}

func (t *tintedScatter) Sample(wo core.Vec3, sampler core.Sampler) core.ScatterSample {
	sample := t.inner.Sample(wo, sampler)
	sample.Value = sample.Value.MultiplyVec(t.tint(wo, sample.Wi))
	return sample
}

func (t *tintedScatter) Evaluate(wo, wi core.Vec3) core.Vec3 {
	return t.inner.Evaluate(wo, wi).MultiplyVec(t.tint(wo, wi))
}

func (t *tintedScatter) PDF(wo, wi core.Vec3) float64 {
	return t.inner.PDF(wo, wi)
}

func (t *tintedScatter) IsDelta() bool {
	return t.inner.IsDelta()
}
