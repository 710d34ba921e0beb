package primitive

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Transform is an invertible affine transform with its inverse cached.
// Normals go through the inverse transpose so they stay perpendicular
// under non-uniform scale.
type Transform struct {
	matrix    core.Matrix4
	inverse   core.Matrix4
	normalMat core.Matrix4 // inverse transpose of the linear block
}

// NewTransform wraps a matrix, caching its inverse. Returns false when
// the matrix is singular.
func NewTransform(matrix core.Matrix4) (Transform, bool) {
	inverse, ok := matrix.Invert()
	if !ok {
		return Transform{}, false
	}
	return Transform{
		matrix:    matrix,
		inverse:   inverse,
		normalMat: inverse.Transpose(),
	}, true
}

// IdentityTransform returns the identity transform
func IdentityTransform() Transform {
	identity := core.IdentityMatrix()
	return Transform{matrix: identity, inverse: identity, normalMat: identity}
}

// Compose returns t applied after other (t * other)
func (t Transform) Compose(other Transform) Transform {
	return Transform{
		matrix:    t.matrix.MultiplyMatrix(other.matrix),
		inverse:   other.inverse.MultiplyMatrix(t.inverse),
		normalMat: t.normalMat.MultiplyMatrix(other.normalMat),
	}
}

// Inverse returns the inverse transform
func (t Transform) Inverse() Transform {
	return Transform{
		matrix:    t.inverse,
		inverse:   t.matrix,
		normalMat: t.matrix.Transpose(),
	}
}

// Point transforms a point to the target space
func (t Transform) Point(p core.Vec3) core.Vec3 {
	return t.matrix.TransformPoint(p)
}

// Vector transforms a direction without translation
func (t Transform) Vector(v core.Vec3) core.Vec3 {
	return t.matrix.TransformVector(v)
}

// Normal transforms a normal through the inverse transpose and
// renormalizes
func (t Transform) Normal(n core.Vec3) core.Vec3 {
	return t.normalMat.TransformVector(n).Normalize()
}

// InversePoint transforms a point back to the source space
func (t Transform) InversePoint(p core.Vec3) core.Vec3 {
	return t.inverse.TransformPoint(p)
}

// InverseVector transforms a direction back to the source space
func (t Transform) InverseVector(v core.Vec3) core.Vec3 {
	return t.inverse.TransformVector(v)
}

// Ray transforms a ray into the source space of the transform. The
// direction is deliberately not renormalized so that t values agree in
// both spaces.
func (t Transform) InverseRay(ray core.Ray) core.Ray {
	return core.NewRay(t.InversePoint(ray.Origin), t.InverseVector(ray.Direction))
}

// AABB transforms a bounding box, bounding all eight transformed corners
func (t Transform) AABB(bbox core.AABB) core.AABB {
	if !bbox.IsValid() {
		return bbox
	}
	out := core.EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := core.NewVec3(
			pick(i&1 == 0, bbox.Min.X, bbox.Max.X),
			pick(i&2 == 0, bbox.Min.Y, bbox.Max.Y),
			pick(i&4 == 0, bbox.Min.Z, bbox.Max.Z),
		)
		out = out.UnionPoint(t.Point(corner))
	}
	return out
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// TRS builds a transform from translate, rotate (degrees, applied y then
// x then z) and scale components
func TRS(translate, rotateDeg, scale core.Vec3) (Transform, bool) {
	toRad := math.Pi / 180.0
	m := core.TranslateMatrix(translate).
		MultiplyMatrix(core.RotateZMatrix(rotateDeg.Z * toRad)).
		MultiplyMatrix(core.RotateXMatrix(rotateDeg.X * toRad)).
		MultiplyMatrix(core.RotateYMatrix(rotateDeg.Y * toRad)).
		MultiplyMatrix(core.ScaleMatrix(scale))
	return NewTransform(m)
}
