package primitive

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

const (
	newtonIterationMax = 16
	newtonIterationEps = 1e-9
)

// CubicBezier is a bicubic Bezier patch intersected directly by Newton
// iteration on (u, v, t)
type CubicBezier struct {
	controlPoints [4][4]core.Vec3
	bbox          core.AABB
}

// NewCubicBezier creates a patch from a 4x4 control grid
func NewCubicBezier(controlPoints [4][4]core.Vec3) *CubicBezier {
	bbox := core.EmptyAABB()
	for _, row := range controlPoints {
		for _, p := range row {
			bbox = bbox.UnionPoint(p)
		}
	}
	return &CubicBezier{controlPoints: controlPoints, bbox: bbox}
}

// cubicBezierBasis returns the four Bernstein weights at u
func cubicBezierBasis(u float64) [4]float64 {
	iu := 1.0 - u
	return [4]float64{
		iu * iu * iu,
		3.0 * iu * iu * u,
		3.0 * iu * u * u,
		u * u * u,
	}
}

// cubicBezierBasisDu returns the derivative of the Bernstein weights at u
func cubicBezierBasisDu(u float64) [4]float64 {
	iu := 1.0 - u
	return [4]float64{
		-3.0 * iu * iu,
		3.0*iu*iu - 6.0*iu*u,
		6.0*iu*u - 3.0*u*u,
		3.0 * u * u,
	}
}

func (cb *CubicBezier) sum(basisU, basisV [4]float64) core.Vec3 {
	var p core.Vec3
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			p = p.Add(cb.controlPoints[i][j].Multiply(basisU[j] * basisV[i]))
		}
	}
	return p
}

// PointAt evaluates the patch position
func (cb *CubicBezier) PointAt(u, v float64) core.Vec3 {
	return cb.sum(cubicBezierBasis(u), cubicBezierBasis(v))
}

// TangentAt evaluates dp/du
func (cb *CubicBezier) TangentAt(u, v float64) core.Vec3 {
	return cb.sum(cubicBezierBasisDu(u), cubicBezierBasis(v))
}

// BitangentAt evaluates dp/dv
func (cb *CubicBezier) BitangentAt(u, v float64) core.Vec3 {
	return cb.sum(cubicBezierBasis(u), cubicBezierBasisDu(v))
}

// intersectRay runs Newton iteration on the residual ray(t) - p(u, v),
// seeded at the patch parameter center and the bound entry midpoint
func (cb *CubicBezier) intersectRay(ray core.Ray) (float64, float64, float64, bool) {
	t0, t1, ok := slabRange(cb.bbox, ray)
	if !ok {
		return 0, 0, 0, false
	}
	t := 0.5 * (t0 + t1)
	u, v := 0.5, 0.5

	for iter := 0; iter < newtonIterationMax; iter++ {
		if math.IsNaN(t) || math.IsNaN(u) || math.IsNaN(v) ||
			math.IsInf(t, 0) || math.IsInf(u, 0) || math.IsInf(v, 0) {
			break
		}

		point := cb.PointAt(u, v)
		diff := ray.At(t).Subtract(point)
		if diff.LengthSquared() < newtonIterationEps {
			if u >= 0 && u <= 1 && v >= 0 && v <= 1 && t > core.TMinEps {
				return u, v, t, true
			}
			break
		}

		dpdu := cb.TangentAt(u, v)
		dpdv := cb.BitangentAt(u, v)
		n := dpdu.Cross(dpdv)
		det := ray.Direction.Dot(n)
		if det == 0 {
			break
		}
		invDet := 1.0 / det
		q := ray.Direction.Cross(diff)
		t -= diff.Dot(n) * invDet
		u -= -dpdv.Dot(q) * invDet
		v -= dpdu.Dot(q) * invDet
	}
	return 0, 0, 0, false
}

func (cb *CubicBezier) Intersect(ray core.Ray, inter *core.SurfaceInteraction) bool {
	u, v, t, ok := cb.intersectRay(ray)
	if !ok || t >= inter.T {
		return false
	}

	dpdu := cb.TangentAt(u, v)
	dpdv := cb.BitangentAt(u, v)
	inter.T = t
	inter.Point = ray.At(t)
	inter.Normal = dpdu.Cross(dpdv).Normalize()
	inter.UV = core.NewVec2(u, v)
	inter.Tangent = dpdu
	inter.Bitangent = dpdv
	inter.Primitive = cb
	return true
}

func (cb *CubicBezier) IntersectP(ray core.Ray, tMax float64) bool {
	_, _, t, ok := cb.intersectRay(ray)
	return ok && t < tMax
}

func (cb *CubicBezier) BoundingBox() core.AABB {
	return cb.bbox
}

// Sample draws uniform patch parameters; the area density follows from
// the parametric area element
func (cb *CubicBezier) Sample(sampler core.Sampler) (core.SurfaceInteraction, float64) {
	uv := sampler.Get2D()
	dpdu := cb.TangentAt(uv.X, uv.Y)
	dpdv := cb.BitangentAt(uv.X, uv.Y)

	inter := core.NewSurfaceInteraction()
	inter.Point = cb.PointAt(uv.X, uv.Y)
	inter.Normal = dpdu.Cross(dpdv).Normalize()
	inter.UV = uv
	inter.Tangent = dpdu
	inter.Bitangent = dpdv
	inter.Primitive = cb

	areaElement := dpdu.Cross(dpdv).Length()
	if areaElement <= 0 {
		return inter, 0
	}
	return inter, 1.0 / areaElement
}

func (cb *CubicBezier) PDF(inter *core.SurfaceInteraction) float64 {
	dpdu := cb.TangentAt(inter.UV.X, inter.UV.Y)
	dpdv := cb.BitangentAt(inter.UV.X, inter.UV.Y)
	areaElement := dpdu.Cross(dpdv).Length()
	if areaElement <= 0 {
		return 0
	}
	return 1.0 / areaElement
}

// slabRange returns the parametric interval where the ray overlaps the
// box
func slabRange(bbox core.AABB, ray core.Ray) (float64, float64, bool) {
	tMin, tMax := core.TMinEps, math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		direction := ray.Direction.Axis(axis)
		origin := ray.Origin.Axis(axis)
		if math.Abs(direction) < 1e-12 {
			if origin < bbox.Min.Axis(axis) || origin > bbox.Max.Axis(axis) {
				return 0, 0, false
			}
			continue
		}
		inv := 1.0 / direction
		t1 := (bbox.Min.Axis(axis) - origin) * inv
		t2 := (bbox.Max.Axis(axis) - origin) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}
