// Package medium implements participating media for volumetric transport.
package medium

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// Homogeneous is a medium with constant absorption and scattering
// coefficients and a Henyey-Greenstein phase function
type Homogeneous struct {
	sigmaT    core.Vec3
	sigmaS    core.Vec3
	asymmetry float64
}

// NewHomogeneous creates a homogeneous medium from absorption and
// scattering coefficients and the phase asymmetry parameter g in (-1, 1)
func NewHomogeneous(sigmaA, sigmaS core.Vec3, asymmetry float64) *Homogeneous {
	return &Homogeneous{
		sigmaT:    sigmaA.Add(sigmaS),
		sigmaS:    sigmaS,
		asymmetry: asymmetry,
	}
}

// SampleTransport advances from p along -wo by an exponentially sampled
// free-flight distance. The extinction channel driving the exponential is
// chosen uniformly; the returned weight is transmittance times sigma_s
// over the channel-averaged density, which keeps chromatic media unbiased.
func (h *Homogeneous) SampleTransport(p, wo core.Vec3, tMax float64, sampler core.Sampler) (core.Vec3, bool, core.Vec3) {
	var sampleSigmaT float64
	channel := sampler.Get1D()
	if channel <= 1.0/3.0 {
		sampleSigmaT = h.sigmaT.X
	} else if channel <= 2.0/3.0 {
		sampleSigmaT = h.sigmaT.Y
	} else {
		sampleSigmaT = h.sigmaT.Z
	}

	sampleT := -math.Log(1.0-sampler.Get1D()) / sampleSigmaT
	attenuation := h.Transmittance(math.Min(sampleT, tMax))
	position := p.Subtract(wo.Multiply(math.Min(sampleT, tMax-2.0*core.TMinEps)))

	if sampleT < tMax {
		density := h.sigmaT.MultiplyVec(attenuation)
		return position, true, attenuation.MultiplyVec(h.sigmaS).Divide(density.Average())
	}
	return position, false, attenuation.Divide(attenuation.Average())
}

// SamplePhase draws an in-scatter direction from the Henyey-Greenstein
// distribution around the propagation direction -wo
func (h *Homogeneous) SamplePhase(wo core.Vec3, sampler core.Sampler) (core.Vec3, float64) {
	cosTheta := henyeyGreensteinInvert(h.asymmetry, sampler.Get1D())
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sampler.Get1D()

	frame := core.NewFrame(wo.Negate())
	wi := frame.ToWorld(core.NewVec3(
		sinTheta*math.Cos(phi),
		sinTheta*math.Sin(phi),
		cosTheta,
	))
	return wi, henyeyGreenstein(h.asymmetry, cosTheta)
}

// Transmittance returns per-channel transmittance over a distance
func (h *Homogeneous) Transmittance(dist float64) core.Vec3 {
	return h.sigmaT.Multiply(-dist).Exp()
}

// Phase evaluates the Henyey-Greenstein phase function for a direction
// pair. The angle is measured from the propagation direction -wo.
func (h *Homogeneous) Phase(wo, wi core.Vec3) float64 {
	return henyeyGreenstein(h.asymmetry, wo.Negate().Dot(wi))
}

// henyeyGreenstein evaluates the phase function for the cosine of the
// angle from the propagation direction. Integrates to 1 over the sphere.
func henyeyGreenstein(g, cosTheta float64) float64 {
	g2 := g * g
	denom := 1.0 + g2 - 2.0*g*cosTheta
	return (1.0 - g2) / (4.0 * math.Pi * denom * math.Sqrt(denom))
}

// henyeyGreensteinInvert samples the cosine of the scattering angle from
// the phase function's inverse CDF. Near-zero g degrades to a uniform
// sphere.
func henyeyGreensteinInvert(g, rand float64) float64 {
	if math.Abs(g) < 0.01 {
		return 1.0 - 2.0*rand
	}
	g2 := g * g
	temp := (1.0 - g2) / (1.0 - g + 2.0*g*rand)
	return 0.5 * (1.0 + g2 - temp*temp) / g
}
