package lights

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// EnvironmentMap is a lat-long radiance image addressed by texel.
// Row 0 is the top of the sphere (theta = 0, the +y pole).
type EnvironmentMap interface {
	Texel(x, y int) core.Vec3
	Width() int
	Height() int
}

// uniformMap is a single-texel constant environment
type uniformMap struct {
	color core.Vec3
}

func (m uniformMap) Texel(x, y int) core.Vec3 { return m.color }
func (m uniformMap) Width() int               { return 1 }
func (m uniformMap) Height() int              { return 1 }

// Environment is an image-based light at infinity. Directions are drawn
// from an alias table over texel luminance weighted by sin(theta), so
// bright regions of the map are found without wasting samples near the
// poles.
type Environment struct {
	envMap   EnvironmentMap
	scale    core.Vec3
	width    int
	height   int
	table    *core.AliasTable
	avgPower float64
}

// NewEnvironment creates an image-based environment light. scale is a
// per-channel multiplier on the map's radiance.
func NewEnvironment(envMap EnvironmentMap, scale core.Vec3) *Environment {
	width := envMap.Width()
	height := envMap.Height()
	weights := make([]float64, width*height)

	sum := 0.0
	for y := 0; y < height; y++ {
		sinTheta := math.Sin((float64(y) + 0.5) / float64(height) * math.Pi)
		for x := 0; x < width; x++ {
			w := envMap.Texel(x, y).Luminance() * sinTheta
			weights[y*width+x] = w
			sum += w
		}
	}

	return &Environment{
		envMap:   envMap,
		scale:    scale,
		width:    width,
		height:   height,
		table:    core.NewAliasTable(weights),
		avgPower: sum / float64(len(weights)) * scale.Luminance(),
	}
}

// NewUniformEnvironment creates a constant-color environment light
func NewUniformEnvironment(color core.Vec3) *Environment {
	return NewEnvironment(uniformMap{color: color}, core.NewVec3(1, 1, 1))
}

// direction maps spherical coordinates to a world direction. It is the
// exact inverse of the atan2(x, z) + pi parameterization used for
// lookups, so a sampled direction maps back to the same texel.
func direction(theta, phi float64) core.Vec3 {
	sinTheta := math.Sin(theta)
	return core.NewVec3(-sinTheta*math.Sin(phi), math.Cos(theta), -sinTheta*math.Cos(phi))
}

// radiance interpolates the map bilinearly at spherical coordinates
func (l *Environment) radiance(theta, phi float64) core.Vec3 {
	fx := phi/(2.0*math.Pi)*float64(l.width) - 0.5
	fy := theta/math.Pi*float64(l.height) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	// phi wraps around the seam, theta clamps at the poles
	x1 := wrapIndex(x0+1, l.width)
	x0 = wrapIndex(x0, l.width)
	y0 = clampIndex(y0, l.height)
	y1 := clampIndex(y0+1, l.height)

	c00 := l.envMap.Texel(x0, y0)
	c10 := l.envMap.Texel(x1, y0)
	c01 := l.envMap.Texel(x0, y1)
	c11 := l.envMap.Texel(x1, y1)
	top := c00.Lerp(c10, tx)
	bottom := c01.Lerp(c11, tx)
	return top.Lerp(bottom, ty).MultiplyVec(l.scale)
}

// pdfAt converts the alias-table probability of the texel containing
// (theta, phi) into a solid-angle density. The table samples uniformly
// inside a texel, so the density is piecewise constant per texel.
func (l *Environment) pdfAt(theta, phi float64) float64 {
	sinTheta := math.Sin(theta)
	if sinTheta <= 0 {
		return 0
	}
	x := clampIndex(int(phi/(2.0*math.Pi)*float64(l.width)), l.width)
	y := clampIndex(int(theta/math.Pi*float64(l.height)), l.height)
	prob := l.table.Probability(y*l.width + x)
	return prob * float64(l.width*l.height) / (2.0 * math.Pi * math.Pi * sinTheta)
}

func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (l *Environment) Sample(p core.Vec3, sampler core.Sampler) core.LightSample {
	index, _ := l.table.Sample(sampler.Get1D())
	x := index % l.width
	y := index / l.width

	jitter := sampler.Get2D()
	theta := (float64(y) + jitter.Y) / float64(l.height) * math.Pi
	phi := (float64(x) + jitter.X) / float64(l.width) * 2.0 * math.Pi

	return core.LightSample{
		Direction: direction(theta, phi),
		PDF:       l.pdfAt(theta, phi),
		Radiance:  l.radiance(theta, phi),
		Distance:  math.Inf(1),
	}
}

func (l *Environment) RadiancePDF(p core.Vec3, dir core.Vec3) (core.Vec3, float64, float64) {
	theta := math.Acos(math.Max(-1, math.Min(1, dir.Y)))
	phi := math.Atan2(dir.X, dir.Z) + math.Pi
	return l.radiance(theta, phi), math.Inf(1), l.pdfAt(theta, phi)
}

func (l *Environment) IsDelta() bool {
	return false
}

func (l *Environment) Power() float64 {
	return l.avgPower * 4.0 * math.Pi
}
