package renderer

import (
	"image"
	"image/color"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Film accumulates radiance samples per pixel. It has no internal
// locking: the renderer partitions work into disjoint tiles so no two
// workers ever touch the same pixel.
type Film struct {
	width  int
	height int
	pixels []filmPixel
}

type filmPixel struct {
	color core.Vec3
	count int
}

// NewFilm creates an empty film
func NewFilm(width, height int) *Film {
	return &Film{
		width:  width,
		height: height,
		pixels: make([]filmPixel, width*height),
	}
}

// Width returns the film width in pixels
func (f *Film) Width() int { return f.width }

// Height returns the film height in pixels
func (f *Film) Height() int { return f.height }

// AddSample accumulates one radiance sample into a pixel
func (f *Film) AddSample(x, y int, radiance core.Vec3) {
	p := &f.pixels[y*f.width+x]
	p.color = p.color.Add(radiance)
	p.count++
}

// At returns the average radiance of a pixel
func (f *Film) At(x, y int) core.Vec3 {
	p := f.pixels[y*f.width+x]
	if p.count == 0 {
		return core.Vec3{}
	}
	return p.color.Divide(float64(p.count))
}

// SampleCount returns the number of samples accumulated in a pixel
func (f *Film) SampleCount(x, y int) int {
	return f.pixels[y*f.width+x].count
}

// Image converts the film to an 8-bit image with gamma 2.2 encoding
func (f *Film) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			c := f.At(x, y).Clamp(0, 1).GammaCorrect(2.2)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c.X*255.0 + 0.5),
				G: uint8(c.Y*255.0 + 0.5),
				B: uint8(c.Z*255.0 + 0.5),
				A: 255,
			})
		}
	}
	return img
}
