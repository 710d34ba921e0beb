package bxdf

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

const subsurfaceCDFSize = 512

// maxProbeHits bounds the number of candidate exit points collected along
// one probe ray
const maxProbeHits = 16

// Subsurface is a normalized-diffusion BSSRDF. The Scatter methods model
// the diffuse transmission at an exit point; SampleExit importance-samples
// the exit position on the surface by probing the scene along a projection
// axis.
type Subsurface struct {
	albedo core.Vec3
	ior    float64
	d      core.Vec3 // per-channel shaping distance of the diffusion profile
	norm   float64   // boundary normalization 1/(1 - 2*moment1(1/ior))

	// tabulated inverse CDF of the radial profile, (radius/d, cdf) pairs
	cdfTable [subsurfaceCDFSize][2]float64
}

// NewSubsurface creates a subsurface scatter. ld is the mean free path
// that shapes the diffusion profile per channel through the albedo.
func NewSubsurface(albedo core.Vec3, ld, ior float64) *Subsurface {
	shape := func(a float64) float64 {
		t := a - 0.33
		return ld / (3.5 + 100.0*t*t*t*t)
	}
	s := &Subsurface{
		albedo: albedo,
		ior:    ior,
		d:      core.NewVec3(shape(albedo.X), shape(albedo.Y), shape(albedo.Z)),
		norm:   1.0 / (1.0 - 2.0*FresnelMoment1(1.0/ior)),
	}
	for i := 0; i < subsurfaceCDFSize; i++ {
		u := float64(i) / subsurfaceCDFSize
		x := -2.0 * math.Log(1.0-u)
		y := 1.0 - 0.25*math.Exp(-x) - 0.75*math.Exp(-x/3.0)
		s.cdfTable[i] = [2]float64{x, y}
	}
	return s
}

// profile evaluates the radial diffusion profile per channel at distance r
func (s *Subsurface) profile(r float64) core.Vec3 {
	if r < 1e-6 {
		r = 1e-6
	}
	e1 := core.NewVec3(
		math.Exp(-r/s.d.X),
		math.Exp(-r/s.d.Y),
		math.Exp(-r/s.d.Z),
	)
	e2 := core.NewVec3(
		math.Exp(-r/(3.0*s.d.X)),
		math.Exp(-r/(3.0*s.d.Y)),
		math.Exp(-r/(3.0*s.d.Z)),
	)
	return e1.Add(e2).DivideVec(s.d.Multiply(8.0 * math.Pi * r))
}

// sampleRadius inverts the tabulated radial CDF, returning radius over d.
// Returns -1 when rand falls beyond the table.
func (s *Subsurface) sampleRadius(rand float64) float64 {
	for i := 1; i < subsurfaceCDFSize; i++ {
		if s.cdfTable[i][1] >= rand {
			t := (rand - s.cdfTable[i-1][1]) / (s.cdfTable[i][1] - s.cdfTable[i-1][1])
			return s.cdfTable[i][0]*t + s.cdfTable[i-1][0]*(1.0-t)
		}
	}
	return -1.0
}

// Sample draws a cosine-weighted outgoing direction at an exit point
func (s *Subsurface) Sample(wo core.Vec3, sampler core.Sampler) core.ScatterSample {
	wi := core.SampleCosineHemisphere(sampler.Get2D())
	return core.ScatterSample{
		Wi:    wi,
		Value: s.Evaluate(wo, wi),
		PDF:   math.Max(wi.Z, 0) / math.Pi,
	}
}

// Evaluate is the diffuse transmission term at an exit point: both
// boundary Fresnel factors with the diffusion normalization. The exit
// lobe is reflective, so directions below the surface carry nothing.
func (s *Subsurface) Evaluate(wo, wi core.Vec3) core.Vec3 {
	if wi.Z <= 0 {
		return core.Vec3{}
	}
	fresnelWo := FresnelDielectric(s.ior, wo)
	fresnelWi := FresnelDielectric(s.ior, wi)
	v := (1.0 - fresnelWo) * (1.0 - fresnelWi) / math.Pi * s.norm
	return core.NewVec3(v, v, v)
}

func (s *Subsurface) PDF(wo, wi core.Vec3) float64 {
	return math.Max(wi.Z, 0) / math.Pi
}

func (s *Subsurface) IsDelta() bool {
	return false
}

// SampleExit samples an exit point near po by choosing a projection axis
// and a profile channel, then probing the scene perpendicular to that
// axis. The returned weight is profile over pdf with the axis and channel
// densities combined.
func (s *Subsurface) SampleExit(po core.Vec3, frame core.Frame, scene core.Primitive, sampler core.Sampler) core.ExitSample {
	randU := sampler.Get1D()
	randR := sampler.Get1D()
	randPhi := sampler.Get1D()

	// Projection axis: the shading normal half the time, each tangent a
	// quarter
	var st, sb, sn core.Vec3
	if randU < 0.5 {
		randU = randU * 2.0
		st, sb, sn = frame.Tangent, frame.Bitangent, frame.Normal
	} else if randU < 0.75 {
		randU = randU*4.0 - 2.0
		st, sb, sn = frame.Bitangent, frame.Normal, frame.Tangent
	} else {
		randU = randU*4.0 - 3.0
		st, sb, sn = frame.Normal, frame.Tangent, frame.Bitangent
	}

	// Profile channel, uniform thirds
	var spD float64
	if randU < 1.0/3.0 {
		spD = s.d.X
	} else if randU < 2.0/3.0 {
		spD = s.d.Y
	} else {
		spD = s.d.Z
	}

	radius := s.sampleRadius(randR) * spD
	if radius < 0 {
		return core.ExitSample{}
	}
	rMax := s.cdfTable[subsurfaceCDFSize-1][0] * spD
	phi := 2.0 * math.Pi * randPhi
	probeHalf := math.Sqrt(rMax*rMax + radius*radius)

	start := po.
		Add(st.Multiply(radius * math.Cos(phi))).
		Add(sb.Multiply(radius * math.Sin(phi))).
		Add(sn.Multiply(probeHalf))
	probe := core.NewRay(start, sn.Negate())

	// Collect every surface crossing within the probe span
	type probeHit struct {
		point  core.Vec3
		normal core.Vec3
	}
	var hits []probeHit
	remaining := 2.0 * probeHalf
	for len(hits) < maxProbeHits {
		inter := core.NewSurfaceInteraction()
		inter.T = remaining
		if !scene.Intersect(probe, &inter) {
			break
		}
		hits = append(hits, probeHit{point: inter.Point, normal: inter.Normal})
		remaining -= inter.T + core.TMinEps
		if remaining <= core.TMinEps {
			break
		}
		probe.Origin = inter.Point.Add(probe.Direction.Multiply(core.TMinEps))
	}

	if len(hits) == 0 {
		return core.ExitSample{}
	}
	pick := int(sampler.Get1D() * float64(len(hits)))
	if pick >= len(hits) {
		pick = len(hits) - 1
	}
	exit := hits[pick]

	sp := s.albedo.MultiplyVec(s.profile(exit.point.Subtract(po).Length()))

	// Combine the three axis strategies and channel average into one pdf
	offset := frame.ToLocal(exit.point.Subtract(po))
	normalLocal := frame.ToLocal(exit.normal)
	rXY := math.Hypot(offset.X, offset.Y)
	rYZ := math.Hypot(offset.Y, offset.Z)
	rZX := math.Hypot(offset.Z, offset.X)
	pdfXY := 0.5 * math.Abs(normalLocal.Z) * s.profile(rXY).Average()
	pdfYZ := 0.25 * math.Abs(normalLocal.X) * s.profile(rYZ).Average()
	pdfZX := 0.25 * math.Abs(normalLocal.Y) * s.profile(rZX).Average()
	// One of len(hits) candidates was chosen uniformly, so the density of
	// the chosen exit is the strategy sum over the candidate count
	pdf := (pdfXY + pdfYZ + pdfZX) / float64(len(hits))
	if pdf <= 0 {
		return core.ExitSample{}
	}

	return core.ExitSample{
		Point:  exit.point,
		Frame:  core.NewFrame(exit.normal),
		Weight: sp.Divide(pdf),
		Valid:  true,
	}
}
