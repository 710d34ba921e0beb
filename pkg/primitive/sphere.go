// Package primitive implements the intersectable shapes and aggregates.
// Shapes intersect in their own object space; instances place them in the
// world with a transform and a surface.
package primitive

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Sphere is a sphere shape
type Sphere struct {
	center core.Vec3
	radius float64
	bbox   core.AABB
}

// NewSphere creates a sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	delta := core.NewVec3(radius, radius, radius)
	return &Sphere{
		center: center,
		radius: radius,
		bbox:   core.NewAABB(center.Subtract(delta), center.Add(delta)),
	}
}

// intersectRay solves the quadratic, returning both roots
func (s *Sphere) intersectRay(ray core.Ray) (float64, float64, bool) {
	oc := ray.Origin.Subtract(s.center)
	a := ray.Direction.LengthSquared()
	b := ray.Direction.Dot(oc)
	c := oc.LengthSquared() - s.radius*s.radius
	delta := b*b - a*c
	if delta < 0 {
		return 0, 0, false
	}
	sqrtDelta := math.Sqrt(delta)
	return (-b - sqrtDelta) / a, (-b + sqrtDelta) / a, true
}

func (s *Sphere) Intersect(ray core.Ray, inter *core.SurfaceInteraction) bool {
	tNear, tFar, ok := s.intersectRay(ray)
	if !ok {
		return false
	}
	t := tNear
	if t < core.TMinEps {
		t = tFar
	}
	if t < core.TMinEps || t >= inter.T {
		return false
	}

	inter.T = t
	point := ray.At(t)
	normal := point.Subtract(s.center).Divide(s.radius)
	inter.Point = point
	inter.Normal = normal
	inter.UV = sphereUV(normal)
	inter.Tangent, inter.Bitangent = sphereTangents(normal)
	inter.Primitive = s
	return true
}

func (s *Sphere) IntersectP(ray core.Ray, tMax float64) bool {
	tNear, tFar, ok := s.intersectRay(ray)
	if !ok {
		return false
	}
	return tNear < tMax && tFar > core.TMinEps
}

func (s *Sphere) BoundingBox() core.AABB {
	return s.bbox
}

// Sample picks a uniform point on the sphere surface
func (s *Sphere) Sample(sampler core.Sampler) (core.SurfaceInteraction, float64) {
	normal := core.SampleUniformSphere(sampler.Get2D())
	inter := core.NewSurfaceInteraction()
	inter.Point = s.center.Add(normal.Multiply(s.radius))
	inter.Normal = normal
	inter.UV = sphereUV(normal)
	inter.Tangent, inter.Bitangent = sphereTangents(normal)
	inter.Primitive = s
	return inter, 1.0 / (4.0 * math.Pi * s.radius * s.radius)
}

func (s *Sphere) PDF(inter *core.SurfaceInteraction) float64 {
	return 1.0 / (4.0 * math.Pi * s.radius * s.radius)
}

// sphereUV maps a unit normal to spherical texture coordinates
func sphereUV(n core.Vec3) core.Vec2 {
	theta := math.Acos(math.Max(-1, math.Min(1, n.Y)))
	phi := math.Atan2(n.X, n.Z) + math.Pi
	return core.NewVec2(phi/(2.0*math.Pi), theta/math.Pi)
}

// sphereTangents derives the parametric tangent basis from a unit normal.
// At the poles the longitude direction vanishes and an arbitrary frame is
// used instead.
func sphereTangents(n core.Vec3) (core.Vec3, core.Vec3) {
	tangent := core.NewVec3(n.Z, 0, -n.X)
	if tangent.LengthSquared() < 1e-12 {
		frame := core.NewFrame(n)
		return frame.Tangent, frame.Bitangent
	}
	tangent = tangent.Normalize()
	return tangent, n.Cross(tangent)
}
