package material

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/bxdf"
	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// PBRMetallic is the metallic-roughness workflow: base color, perceptual
// roughness (optionally anisotropic) and a metallic factor that blends a
// dielectric coat against a tinted conductor response
type PBRMetallic struct {
	baseColor  core.Texture
	roughnessX core.Texture
	roughnessY core.Texture
	metallic   core.Texture
}

// NewPBRMetallic creates a metallic-roughness material with isotropic
// roughness
func NewPBRMetallic(baseColor, roughness, metallic core.Texture) *PBRMetallic {
	return &PBRMetallic{
		baseColor:  baseColor,
		roughnessX: roughness,
		roughnessY: roughness,
		metallic:   metallic,
	}
}

// NewPBRMetallicAniso creates a metallic-roughness material with separate
// tangent and bitangent roughness
func NewPBRMetallicAniso(baseColor, roughnessX, roughnessY, metallic core.Texture) *PBRMetallic {
	return &PBRMetallic{
		baseColor:  baseColor,
		roughnessX: roughnessX,
		roughnessY: roughnessY,
		metallic:   metallic,
	}
}

func (m *PBRMetallic) ScatterAt(inter *core.SurfaceInteraction) core.Scatter {
	baseColor := m.baseColor.ColorAt(inter.UV, inter.Point)
	roughnessX := m.roughnessX.ColorAt(inter.UV, inter.Point).X
	roughnessY := m.roughnessY.ColorAt(inter.UV, inter.Point).X
	metallic := m.metallic.ColorAt(inter.UV, inter.Point).X
	roughnessX = math.Max(roughnessX*roughnessX, smoothRoughnessThreshold)
	roughnessY = math.Max(roughnessY*roughnessY, smoothRoughnessThreshold)

	// Dielectrics get the fixed 4% normal-incidence reflectance; metals
	// tint the specular lobe by the base color and lose the diffuse one
	specular := baseColor.Multiply(metallic).
		Add(core.NewVec3(0.04, 0.04, 0.04).Multiply(1.0 - metallic))
	diffuse := baseColor.Multiply(1.0 - metallic)

	return bxdf.NewPlastic(
		bxdf.NewGGX(roughnessX, roughnessY),
		bxdf.NewSchlickApproxFresnel(specular),
		bxdf.NewLambertReflect(diffuse),
	)
}
