package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/tiff"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
	"github.com/PepcyCh/simple-path-tracer/pkg/lights"
	"github.com/PepcyCh/simple-path-tracer/pkg/material"
)

// LoadTexture decodes a PNG, JPEG or TIFF file into a linear-space
// texture. gamma is the encoding of the source data, typically 2.2 for
// color maps and 1.0 for data maps.
func LoadTexture(path string, gamma float64) (*material.ImageTexture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", path, err)
	}
	return material.NewImageTexture(img, gamma), nil
}

// LoadEnvironment decodes a lat-long image into an environment light.
// The image is treated as linear radiance scaled per channel.
func LoadEnvironment(path string, scale core.Vec3) (*lights.Environment, error) {
	tex, err := LoadTexture(path, 1.0)
	if err != nil {
		return nil, err
	}
	return lights.NewEnvironment(tex, scale), nil
}
