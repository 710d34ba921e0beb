package core

import "math"

// Frame is an orthonormal shading basis. Local directions use z = normal.
type Frame struct {
	Tangent   Vec3
	Bitangent Vec3
	Normal    Vec3
}

// NewFrame builds a frame around a normal, choosing an arbitrary tangent
func NewFrame(normal Vec3) Frame {
	n := normal.Normalize()
	var bitangent Vec3
	if math.Abs(n.Y) < 0.99 {
		bitangent = NewVec3(0, 1, 0)
	} else {
		bitangent = NewVec3(1, 0, 0)
	}
	tangent := bitangent.Cross(n).Normalize()
	bitangent = n.Cross(tangent)
	return Frame{Tangent: tangent, Bitangent: bitangent, Normal: n}
}

// NewFrameFromTangent builds a frame from a normal and a (possibly
// non-orthogonal) tangent hint, re-orthogonalized by Gram-Schmidt.
// Falls back to an arbitrary tangent when the hint is degenerate.
func NewFrameFromTangent(tangent, normal Vec3) Frame {
	n := normal.Normalize()
	t := tangent.Subtract(n.Multiply(tangent.Dot(n)))
	if t.LengthSquared() < 1e-12 {
		return NewFrame(n)
	}
	t = t.Normalize()
	b := n.Cross(t)
	return Frame{Tangent: t, Bitangent: b, Normal: n}
}

// ToLocal transforms a world-space direction into the frame
func (f Frame) ToLocal(v Vec3) Vec3 {
	return NewVec3(v.Dot(f.Tangent), v.Dot(f.Bitangent), v.Dot(f.Normal))
}

// ToWorld transforms a frame-local direction into world space
func (f Frame) ToWorld(v Vec3) Vec3 {
	return f.Tangent.Multiply(v.X).
		Add(f.Bitangent.Multiply(v.Y)).
		Add(f.Normal.Multiply(v.Z))
}

// CosTheta returns the cosine of the angle between a local direction and
// the frame normal
func CosTheta(w Vec3) float64 {
	return w.Z
}

// AbsCosTheta returns |cos| of the angle between a local direction and
// the frame normal
func AbsCosTheta(w Vec3) float64 {
	return math.Abs(w.Z)
}

// SameHemisphere reports whether two local directions lie on the same side
// of the surface
func SameHemisphere(wo, wi Vec3) bool {
	return wo.Z*wi.Z >= 0
}
