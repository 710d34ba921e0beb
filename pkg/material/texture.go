// Package material implements the surface scattering models and the
// textures they read their parameters from.
package material

import (
	"image"
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// SolidColor is a constant texture
type SolidColor struct {
	color core.Vec3
}

// NewSolidColor creates a constant texture
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{color: color}
}

// NewSolidGray creates a constant gray texture, handy for scalar
// parameters like roughness
func NewSolidGray(value float64) *SolidColor {
	return &SolidColor{color: core.NewVec3(value, value, value)}
}

func (s *SolidColor) ColorAt(uv core.Vec2, p core.Vec3) core.Vec3 {
	return s.color
}

func (s *SolidColor) Average() core.Vec3 {
	return s.color
}

// ImageTexture samples a decoded image bilinearly with repeat wrapping.
// Texel values are converted out of sRGB gamma at load so shading happens
// in linear radiometric space.
type ImageTexture struct {
	pixels  []core.Vec3
	width   int
	height  int
	average core.Vec3
}

// NewImageTexture converts an image into a linear-space texture. gamma is
// the encoding of the source data, typically 2.2 for color maps and 1.0
// for normal maps.
func NewImageTexture(img image.Image, gamma float64) *ImageTexture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, 0, width*height)

	sum := core.Vec3{}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pixel := core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
			if gamma != 1.0 {
				pixel = pixel.GammaCorrect(1.0 / gamma)
			}
			pixels = append(pixels, pixel)
			sum = sum.Add(pixel)
		}
	}

	return &ImageTexture{
		pixels:  pixels,
		width:   width,
		height:  height,
		average: sum.Divide(float64(len(pixels))),
	}
}

// Width returns the texture width in texels
func (t *ImageTexture) Width() int {
	return t.width
}

// Height returns the texture height in texels
func (t *ImageTexture) Height() int {
	return t.height
}

// Texel returns the linear-space texel at integer coordinates with repeat
// wrapping. Environment lights use it to build their sampling tables.
func (t *ImageTexture) Texel(x, y int) core.Vec3 {
	return t.texel(x, y)
}

func (t *ImageTexture) texel(x, y int) core.Vec3 {
	x = ((x % t.width) + t.width) % t.width
	y = ((y % t.height) + t.height) % t.height
	return t.pixels[y*t.width+x]
}

func (t *ImageTexture) ColorAt(uv core.Vec2, p core.Vec3) core.Vec3 {
	fx := uv.X*float64(t.width) - 0.5
	fy := (1.0-uv.Y)*float64(t.height) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := t.texel(x0, y0)
	c10 := t.texel(x0+1, y0)
	c01 := t.texel(x0, y0+1)
	c11 := t.texel(x0+1, y0+1)

	top := c00.Lerp(c10, tx)
	bottom := c01.Lerp(c11, tx)
	return top.Lerp(bottom, ty)
}

func (t *ImageTexture) Average() core.Vec3 {
	return t.average
}
