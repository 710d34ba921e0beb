package bxdf

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Fresnel abstracts the reflectance model shared by specular and
// microfacet scatters
type Fresnel interface {
	// Fresnel evaluates per-channel reflectance for direction i against
	// normal n, both unit vectors in the shading frame
	Fresnel(i, n core.Vec3) core.Vec3

	// IOR returns the relative index of refraction used for transmission
	IOR() float64
}

// DielectricFresnel is the exact Fresnel reflectance of a dielectric
type DielectricFresnel struct {
	ior float64
}

// NewDielectricFresnel creates a dielectric Fresnel with the given
// relative index of refraction
func NewDielectricFresnel(ior float64) *DielectricFresnel {
	return &DielectricFresnel{ior: ior}
}

func (f *DielectricFresnel) Fresnel(i, n core.Vec3) core.Vec3 {
	v := FresnelDielectricAbout(f.ior, i, n)
	return core.NewVec3(v, v, v)
}

func (f *DielectricFresnel) IOR() float64 {
	return f.ior
}

// ConductorFresnel is the exact Fresnel reflectance of a conductor with
// complex index of refraction eta + i*k
type ConductorFresnel struct {
	eta core.Vec3
	k   core.Vec3
}

// NewConductorFresnel creates a conductor Fresnel
func NewConductorFresnel(eta, k core.Vec3) *ConductorFresnel {
	return &ConductorFresnel{eta: eta, k: k}
}

func (f *ConductorFresnel) Fresnel(i, n core.Vec3) core.Vec3 {
	return FresnelConductorAbout(f.eta, f.k, i, n)
}

// IOR is never meaningful for a conductor; conductors do not transmit
func (f *ConductorFresnel) IOR() float64 {
	return 1.0
}

// SchlickApproxFresnel approximates Fresnel reflectance from the
// normal-incidence reflectance r0
type SchlickApproxFresnel struct {
	r0 core.Vec3
}

// NewSchlickApproxFresnel creates a Schlick Fresnel from r0
func NewSchlickApproxFresnel(r0 core.Vec3) *SchlickApproxFresnel {
	return &SchlickApproxFresnel{r0: r0}
}

func (f *SchlickApproxFresnel) Fresnel(i, n core.Vec3) core.Vec3 {
	return SchlickFresnel(f.r0, i.Dot(n))
}

func (f *SchlickApproxFresnel) IOR() float64 {
	sqrtR0 := math.Sqrt(f.r0.Luminance())
	return (1.0 - sqrtR0) / (1.0 + sqrtR0)
}
