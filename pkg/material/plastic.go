package material

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/bxdf"
	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Plastic is a dielectric-coated diffuse material
type Plastic struct {
	ior       float64
	diffuse   core.Texture
	roughness core.Texture
}

// NewPlastic creates a coated diffuse material
func NewPlastic(ior float64, diffuse, roughness core.Texture) *Plastic {
	return &Plastic{ior: ior, diffuse: diffuse, roughness: roughness}
}

func (m *Plastic) ScatterAt(inter *core.SurfaceInteraction) core.Scatter {
	diffuse := m.diffuse.ColorAt(inter.UV, inter.Point)
	roughness := m.roughness.ColorAt(inter.UV, inter.Point).X
	roughness = math.Max(roughness*roughness, smoothRoughnessThreshold)

	return bxdf.NewPlastic(
		bxdf.NewGGX(roughness, roughness),
		bxdf.NewDielectricFresnel(m.ior),
		bxdf.NewLambertReflect(diffuse),
	)
}
