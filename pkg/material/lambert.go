package material

import (
	"github.com/PepcyCh/simple-path-tracer/pkg/bxdf"
	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Lambert is an ideal diffuse material
type Lambert struct {
	albedo core.Texture
}

// NewLambert creates a diffuse material
func NewLambert(albedo core.Texture) *Lambert {
	return &Lambert{albedo: albedo}
}

func (m *Lambert) ScatterAt(inter *core.SurfaceInteraction) core.Scatter {
	return bxdf.NewLambertReflect(m.albedo.ColorAt(inter.UV, inter.Point))
}
