// Package renderer drives the sampling loop: camera rays in, film
// samples out, tiles fanned across a worker pool.
package renderer

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// CameraConfig describes a perspective camera. A zero LensRadius gives a
// pinhole; FocusDist zero focuses at the LookAt point.
type CameraConfig struct {
	Eye        core.Vec3
	LookAt     core.Vec3
	Up         core.Vec3
	FovDeg     float64
	LensRadius float64
	FocusDist  float64
}

// Camera generates primary rays for film-plane coordinates
type Camera struct {
	eye            core.Vec3
	forward        core.Vec3
	right          core.Vec3
	up             core.Vec3
	halfCotHalfFov float64
	lensRadius     float64
	focusDist      float64
}

// NewCamera creates a perspective camera from a look-at configuration
func NewCamera(cfg CameraConfig) *Camera {
	forward := cfg.LookAt.Subtract(cfg.Eye).Normalize()
	right := forward.Cross(cfg.Up).Normalize()
	up := right.Cross(forward)

	focusDist := cfg.FocusDist
	if focusDist <= 0 {
		focusDist = cfg.LookAt.Subtract(cfg.Eye).Length()
	}

	fov := cfg.FovDeg * math.Pi / 180.0
	return &Camera{
		eye:            cfg.Eye,
		forward:        forward,
		right:          right,
		up:             up,
		halfCotHalfFov: 0.5 / math.Tan(fov*0.5),
		lensRadius:     cfg.LensRadius,
		focusDist:      focusDist,
	}
}

// GenerateRay maps film-plane coordinates to a primary ray. x spans
// [-aspect/2, aspect/2] and y spans [-0.5, 0.5] with y up.
func (c *Camera) GenerateRay(x, y float64, sampler core.Sampler) core.Ray {
	direction := c.forward.Multiply(c.halfCotHalfFov).
		Add(c.right.Multiply(x)).
		Add(c.up.Multiply(y)).
		Normalize()

	origin := c.eye
	if c.lensRadius > 0 {
		// Defocus: jitter the origin on the lens disk and re-aim at the
		// in-focus point along the original direction
		focusPoint := c.eye.Add(direction.Multiply(c.focusDist / direction.Dot(c.forward)))
		lens := core.SamplePointInUnitDisk(sampler.Get2D())
		origin = c.eye.
			Add(c.right.Multiply(lens.X * c.lensRadius)).
			Add(c.up.Multiply(lens.Y * c.lensRadius))
		direction = focusPoint.Subtract(origin).Normalize()
	}

	return core.Ray{Origin: origin, Direction: direction}
}
