package material

import (
	"github.com/PepcyCh/simple-path-tracer/pkg/core"

	"github.com/PepcyCh/simple-path-tracer/pkg/bxdf"
)

// Mix blends two materials by a spatially-varying weight. The weight is
// the share of the first material; it is clamped to [0, 1].
type Mix struct {
	first  core.Material
	second core.Material
	weight core.Texture
}

// NewMix creates a blended material
func NewMix(first, second core.Material, weight core.Texture) *Mix {
	return &Mix{first: first, second: second, weight: weight}
}

func (m *Mix) ScatterAt(inter *core.SurfaceInteraction) core.Scatter {
	weight := m.weight.ColorAt(inter.UV, inter.Point).X
	return bxdf.NewMix(m.first.ScatterAt(inter), m.second.ScatterAt(inter), weight)
}
