package material

import (
	"github.com/PepcyCh/simple-path-tracer/pkg/bxdf"
	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Subsurface is a translucent material driven by a normalized-diffusion
// profile: albedo and mean free path ld set the per-channel diffusion
// shape, ior the boundary Fresnel.
type Subsurface struct {
	ior    float64
	albedo core.Texture
	ld     core.Texture
}

// NewSubsurface creates a subsurface scattering material
func NewSubsurface(ior float64, albedo, ld core.Texture) *Subsurface {
	return &Subsurface{ior: ior, albedo: albedo, ld: ld}
}

func (m *Subsurface) ScatterAt(inter *core.SurfaceInteraction) core.Scatter {
	albedo := m.albedo.ColorAt(inter.UV, inter.Point)
	ld := m.ld.ColorAt(inter.UV, inter.Point).X
	return bxdf.NewSubsurface(albedo, ld, m.ior)
}
