package material

import (
	"github.com/PepcyCh/simple-path-tracer/pkg/bxdf"
	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// smoothRoughnessThreshold is where a microfacet lobe degrades to a
// perfect specular one
const smoothRoughnessThreshold = 0.001

// Metal is a conductor with a complex index of refraction. Roughness is
// perceptual: it is squared before it parameterizes the distribution.
type Metal struct {
	eta       core.Texture
	k         core.Texture
	roughness core.Texture
}

// NewMetal creates a conductor material
func NewMetal(eta, k, roughness core.Texture) *Metal {
	return &Metal{eta: eta, k: k, roughness: roughness}
}

func (m *Metal) ScatterAt(inter *core.SurfaceInteraction) core.Scatter {
	eta := m.eta.ColorAt(inter.UV, inter.Point)
	k := m.k.ColorAt(inter.UV, inter.Point)
	roughness := m.roughness.ColorAt(inter.UV, inter.Point).X
	roughness *= roughness

	fresnel := bxdf.NewConductorFresnel(eta, k)
	if roughness < smoothRoughnessThreshold {
		return bxdf.NewSpecularReflect(fresnel)
	}
	return bxdf.NewMicrofacetReflect(bxdf.NewGGX(roughness, roughness), fresnel)
}
