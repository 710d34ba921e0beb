// Package bxdf implements the scattering models used by materials.
// All directions are in the local shading frame with z as the shading
// normal; wo points away from the surface toward the previous path vertex.
package bxdf

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Reflect mirrors a local direction about the shading normal
func Reflect(i core.Vec3) core.Vec3 {
	return core.NewVec3(-i.X, -i.Y, i.Z)
}

// ReflectAbout mirrors a direction about an arbitrary unit vector
func ReflectAbout(i, n core.Vec3) core.Vec3 {
	return n.Multiply(2 * i.Dot(n)).Subtract(i)
}

// Refract refracts a local direction through the shading normal.
// ior is the interior index over the exterior index; the side of i selects
// which ratio applies. Returns false on total internal reflection.
func Refract(i core.Vec3, ior float64) (core.Vec3, bool) {
	iorRatio := ior
	if i.Z >= 0 {
		iorRatio = 1.0 / ior
	}
	ozSqr := 1.0 - (1.0-i.Z*i.Z)*iorRatio*iorRatio
	if ozSqr < 0 {
		return core.Vec3{}, false
	}
	oz := math.Sqrt(ozSqr)
	if i.Z >= 0 {
		oz = -oz
	}
	return core.NewVec3(-i.X*iorRatio, -i.Y*iorRatio, oz), true
}

// RefractAbout refracts a direction through an arbitrary unit normal
func RefractAbout(i, n core.Vec3, ior float64) (core.Vec3, bool) {
	cosI := i.Dot(n)
	iorRatio := ior
	if cosI >= 0 {
		iorRatio = 1.0 / ior
	}
	ozSqr := 1.0 - (1.0-cosI*cosI)*iorRatio*iorRatio
	if ozSqr < 0 {
		return core.Vec3{}, false
	}
	if cosI >= 0 {
		return n.Multiply(iorRatio*cosI - math.Sqrt(ozSqr)).Subtract(i.Multiply(iorRatio)), true
	}
	return n.Multiply(math.Sqrt(ozSqr) + iorRatio*cosI).Subtract(i.Multiply(iorRatio)), true
}

// FresnelR0 returns normal-incidence reflectance for a dielectric
func FresnelR0(ior float64) float64 {
	r := (1.0 - ior) / (1.0 + ior)
	return r * r
}

// FresnelDielectric evaluates the exact dielectric Fresnel reflectance for
// a local direction against the shading normal
func FresnelDielectric(ior float64, i core.Vec3) float64 {
	return FresnelDielectricAbout(ior, i, core.NewVec3(0, 0, 1))
}

// FresnelDielectricAbout evaluates the exact dielectric Fresnel
// reflectance against an arbitrary unit normal. Total internal reflection
// yields 1.
func FresnelDielectricAbout(ior float64, i, n core.Vec3) float64 {
	iIor, oIor := 1.0, ior
	if i.Dot(n) < 0 {
		iIor, oIor = ior, 1.0
	}

	refracted, ok := RefractAbout(i, n, ior)
	if !ok {
		return 1.0
	}

	iDotN := math.Abs(i.Dot(n))
	rDotN := math.Abs(refracted.Dot(n))

	rs := (iIor*iDotN - oIor*rDotN) / (iIor*iDotN + oIor*rDotN)
	rp := (iIor*rDotN - oIor*iDotN) / (iIor*rDotN + oIor*iDotN)
	return 0.5 * (rs*rs + rp*rp)
}

// FresnelConductor evaluates per-channel conductor Fresnel reflectance
// for a complex index of refraction eta + i*k, against the shading normal
func FresnelConductor(eta, k, i core.Vec3) core.Vec3 {
	return FresnelConductorAbout(eta, k, i, core.NewVec3(0, 0, 1))
}

// FresnelConductorAbout evaluates conductor Fresnel reflectance against an
// arbitrary unit normal
func FresnelConductorAbout(eta, k, i, n core.Vec3) core.Vec3 {
	cos := i.Dot(n)
	iorRatio, kRatio := eta, k
	if cos < 0 {
		one := core.NewVec3(1, 1, 1)
		iorRatio = one.DivideVec(eta)
		kRatio = one.DivideVec(k)
	}

	cos2 := cos * cos
	sin2 := 1.0 - cos2
	ior2 := iorRatio.Square()
	k2 := kRatio.Square()

	t0 := ior2.Subtract(k2).Subtract(core.NewVec3(sin2, sin2, sin2))
	a2b2 := t0.Square().Add(ior2.MultiplyVec(k2).Multiply(4)).Sqrt()
	t1 := a2b2.Add(core.NewVec3(cos2, cos2, cos2))
	a := a2b2.Add(t0).Multiply(0.5).Sqrt()
	t2 := a.Multiply(2 * cos)
	rs := t1.Subtract(t2).DivideVec(t1.Add(t2))

	t3 := a2b2.Multiply(cos2).Add(core.NewVec3(sin2*sin2, sin2*sin2, sin2*sin2))
	t4 := t2.Multiply(sin2)
	rp := rs.MultiplyVec(t3.Subtract(t4)).DivideVec(t3.Add(t4))

	return rs.Add(rp).Multiply(0.5)
}

// SchlickFresnel approximates Fresnel reflectance from the
// normal-incidence reflectance r0
func SchlickFresnel(r0 core.Vec3, cos float64) core.Vec3 {
	c := 1.0 - cos
	c5 := c * c * c * c * c
	one := core.NewVec3(1, 1, 1)
	return r0.Add(one.Subtract(r0).Multiply(c5))
}

// FresnelMoment1 returns the first moment of the Fresnel reflectance,
// used by the subsurface boundary term
func FresnelMoment1(eta float64) float64 {
	eta2 := eta * eta
	eta3 := eta2 * eta
	eta4 := eta3 * eta
	eta5 := eta4 * eta
	if eta < 1 {
		return 0.45966 - 1.73965*eta + 3.37668*eta2 - 3.904945*eta3 + 2.49277*eta4 - 0.68441*eta5
	}
	return -4.61686 + 11.1136*eta - 10.4646*eta2 + 5.11455*eta3 - 1.27198*eta4 + 0.12746*eta5
}

// HalfFromReflect recovers the half vector for a reflection pair,
// oriented into the upper hemisphere
func HalfFromReflect(i, o core.Vec3) core.Vec3 {
	h := i.Add(o).Normalize()
	if i.Z < 0 {
		h = h.Negate()
	}
	return h
}

// HalfFromRefract recovers the half vector for a refraction pair
func HalfFromRefract(i, o core.Vec3, ior float64) core.Vec3 {
	var h core.Vec3
	if i.Z >= 0 {
		h = i.Add(o.Multiply(ior)).Normalize()
	} else {
		h = i.Multiply(ior).Add(o).Normalize()
	}
	if h.Z < 0 {
		h = h.Negate()
	}
	return h
}

// GGXNDF evaluates the anisotropic GGX normal distribution for a half
// vector, with roughness ax and ay along the tangent axes
func GGXNDF(h core.Vec3, ax, ay float64) float64 {
	hx := h.X / ax
	hy := h.Y / ay
	d := hx*hx + hy*hy + h.Z*h.Z
	return 1.0 / (math.Pi * math.Max(ax*ay*d*d, 1e-4))
}

// SmithG1 is the Smith masking term for one direction under anisotropic GGX
func SmithG1(v core.Vec3, ax, ay float64) float64 {
	ax2 := ax * v.X * ax * v.X
	ay2 := ay * v.Y * ay * v.Y
	z2 := math.Max(v.Z*v.Z, 1e-4)
	return 2.0 / (1.0 + math.Sqrt(1.0+(ax2+ay2)/z2))
}

// SmithVisible is the separable Smith masking-shadowing term divided by
// 4|cosθo||cosθi|, ready to multiply against the NDF
func SmithVisible(v, l core.Vec3, ax, ay float64) float64 {
	lv := math.Abs(v.Z) + math.Sqrt(ax*v.X*ax*v.X+ay*v.Y*ay*v.Y+v.Z*v.Z)
	ll := math.Abs(l.Z) + math.Sqrt(ax*l.X*ax*l.X+ay*l.Y*ay*l.Y+l.Z*l.Z)
	return 1.0 / (lv * ll)
}

// GGXVNDFPDF returns the density of sampling half vector h from the
// visible normal distribution seen from v
func GGXVNDFPDF(h, v core.Vec3, ax, ay float64) float64 {
	if v.Z < 0 {
		v = v.Negate()
	}
	return SmithG1(v, ax, ay) * GGXNDF(h, ax, ay) * math.Max(v.Dot(h), 0) / math.Max(v.Z, 1e-4)
}

// GGXVNDFSample samples a half vector from the GGX distribution of visible
// normals seen from ve, returning the half vector and its pdf
func GGXVNDFSample(ve core.Vec3, ax, ay float64, sample core.Vec2) (core.Vec3, float64) {
	if ve.Z < 0 {
		ve = ve.Negate()
	}

	vh := core.NewVec3(ax*ve.X, ay*ve.Y, ve.Z).Normalize()
	lenSqr := vh.X*vh.X + vh.Y*vh.Y
	tVec1 := core.NewVec3(1, 0, 0)
	if lenSqr > 0 {
		tVec1 = core.NewVec3(-vh.Y, vh.X, 0).Divide(math.Sqrt(lenSqr))
	}
	tVec2 := vh.Cross(tVec1)

	r := math.Sqrt(sample.X)
	phi := 2.0 * math.Pi * sample.Y
	t1 := r * math.Cos(phi)
	t2 := r * math.Sin(phi)
	s := 0.5 * (1.0 + vh.Z)
	t2 = (1.0-s)*math.Sqrt(1.0-t1*t1) + s*t2

	nh := tVec1.Multiply(t1).
		Add(tVec2.Multiply(t2)).
		Add(vh.Multiply(math.Sqrt(math.Max(0, 1.0-t1*t1-t2*t2))))
	ne := core.NewVec3(ax*nh.X, ay*nh.Y, math.Max(nh.Z, 0)).Normalize()

	return ne, GGXVNDFPDF(ne, ve, ax, ay)
}
