// Package integrator implements the unidirectional path tracer: MIS
// direct lighting, medium transport, subsurface exit sampling and
// Russian roulette termination.
package integrator

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
	"github.com/PepcyCh/simple-path-tracer/pkg/scene"
)

const (
	// cutoffLuminance terminates paths whose throughput can no longer
	// contribute, and floors the Russian roulette survival probability
	cutoffLuminance = 0.001

	// shadowEps shortens shadow rays so they stop just before the light
	shadowEps = 0.001

	// minPDF guards divisions by near-zero densities
	minPDF = 0.00001
)

// PathTracer estimates radiance along camera rays by tracing paths
// through a frozen scene. Safe for concurrent use: all per-path state is
// local to Li.
type PathTracer struct {
	scene    *scene.Scene
	maxDepth int
}

// NewPathTracer creates a path tracer over a built scene
func NewPathTracer(s *scene.Scene, maxDepth int) *PathTracer {
	return &PathTracer{scene: s, maxDepth: maxDepth}
}

// Li returns the radiance arriving along the ray
func (pt *PathTracer) Li(ray core.Ray, sampler core.Sampler) core.Vec3 {
	color := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)
	var medium core.Medium
	// Emission is collected on camera hits and after delta bounces;
	// everything else arrives through the two MIS strategies
	collectEmission := true

	for depth := 0; depth < pt.maxDepth; depth++ {
		inter := core.NewSurfaceInteraction()
		hit := pt.scene.Intersect(ray, &inter)

		if medium != nil {
			wo := ray.Direction.Negate()
			position, scattered, weight := medium.SampleTransport(ray.Origin, wo, inter.T, sampler)
			throughput = throughput.MultiplyVec(weight)
			if !throughput.IsFinite() || throughput.Luminance() < cutoffLuminance {
				break
			}

			if !scattered {
				// Crossed the whole segment: leave the medium and
				// re-process the boundary surface
				medium = nil
				continue
			}

			var boundary core.Primitive
			if hit {
				boundary = inter.Instance
			}
			color = color.Add(throughput.MultiplyVec(
				pt.mediumDirect(medium, position, wo, boundary, sampler)))

			wi, _ := medium.SamplePhase(wo, sampler)
			ray = core.Ray{Origin: position, Direction: wi}
			collectEmission = false
		} else {
			if !hit {
				if env := pt.scene.Environment(); env != nil && collectEmission {
					radiance, _, _ := env.RadiancePDF(ray.Origin, ray.Direction)
					color = color.Add(throughput.MultiplyVec(radiance))
				}
				break
			}

			surface := inter.Surface

			if collectEmission && surface.IsEmissive() {
				emission := surface.Emission(&inter)
				if !surface.DoubleSided && ray.Direction.Dot(inter.Normal) > 0 {
					emission = core.Vec3{}
				}
				color = color.Add(throughput.MultiplyVec(emission))
			}

			// Pure emitters carry no material; the path ends on them
			if surface.Material == nil {
				break
			}

			scatter := surface.Material.ScatterAt(&inter)
			frame := surface.ShadingFrame(ray, &inter)
			wo := frame.ToLocal(ray.Direction.Negate())

			// Subsurface scatters move the shading point to a sampled
			// exit location before any direction is drawn
			shadePoint := inter.Point
			shadeFrame := frame
			geoNormal := inter.Normal
			if sub, ok := scatter.(core.SubsurfaceScatter); ok {
				exit := sub.SampleExit(inter.Point, frame, pt.scene.Aggregate(), sampler)
				if !exit.Valid {
					break
				}
				throughput = throughput.MultiplyVec(exit.Weight)
				if !throughput.IsFinite() || throughput.Luminance() < cutoffLuminance {
					break
				}
				shadePoint = exit.Point
				shadeFrame = exit.Frame
				geoNormal = exit.Frame.Normal
			}

			color = color.Add(throughput.MultiplyVec(
				pt.surfaceDirect(scatter, shadePoint, shadeFrame, wo, sampler)))

			sample := scatter.Sample(wo, sampler)
			if sample.PDF <= 0 || sample.Value.IsZero() {
				break
			}
			wiWorld := shadeFrame.ToWorld(sample.Wi)
			throughput = throughput.MultiplyVec(sample.Value).
				Multiply(math.Abs(sample.Wi.Z) / math.Max(sample.PDF, minPDF))
			if !throughput.IsFinite() || throughput.Luminance() < cutoffLuminance {
				break
			}
			if !sameGeometricSide(wiWorld, sample.Wi.Z, shadeFrame, geoNormal) {
				break
			}

			ray = offsetRay(shadePoint, wiWorld, math.Abs(sample.Wi.Z))
			collectEmission = sample.Delta

			// Transmission through a medium boundary enters its interior
			if wiWorld.Dot(inter.Normal) < 0 {
				medium = surface.InsideMedium()
			}
		}

		rr := math.Min(math.Max(throughput.Luminance(), cutoffLuminance), 1.0)
		if sampler.Get1D() > rr {
			break
		}
		throughput = throughput.Divide(rr)
	}

	return color
}

// surfaceDirect estimates direct lighting at a surface point with one
// sampled light and both MIS strategies
func (pt *PathTracer) surfaceDirect(scatter core.Scatter, p core.Vec3, frame core.Frame, wo core.Vec3, sampler core.Sampler) core.Vec3 {
	light, selectProb := pt.scene.LightSampler().SampleLight(sampler)
	if light == nil || selectProb <= 0 {
		return core.Vec3{}
	}
	var direct core.Vec3

	// Light strategy: sample the light, evaluate the scatter
	ls := light.Sample(p, sampler)
	pdf := ls.PDF * selectProb
	if pdf > 0 && !math.IsInf(pdf, 0) && ls.Radiance.Luminance() > 0 {
		wi := frame.ToLocal(ls.Direction)
		value := scatter.Evaluate(wo, wi)
		if !value.IsZero() {
			shadow := offsetRay(p, ls.Direction, math.Abs(wi.Z))
			if !pt.scene.IntersectP(shadow, ls.Distance-shadowEps) {
				contribution := ls.Radiance.MultiplyVec(value).
					Multiply(math.Abs(wi.Z) / math.Max(pdf, minPDF))
				if light.IsDelta() {
					direct = direct.Add(contribution)
				} else {
					weight := core.PowerHeuristic(1, pdf, 1, scatter.PDF(wo, wi))
					direct = direct.Add(contribution.Multiply(weight))
				}
			}
		}
	}

	// Scatter strategy: sample the scatter, evaluate the light. Delta
	// lights can never be hit this way.
	if !light.IsDelta() {
		sample := scatter.Sample(wo, sampler)
		if sample.PDF > 0 && !sample.Value.IsZero() {
			dir := frame.ToWorld(sample.Wi)
			radiance, dist, lightPdf := light.RadiancePDF(p, dir)
			if radiance.Luminance() > 0 {
				shadow := offsetRay(p, dir, math.Abs(sample.Wi.Z))
				if !pt.scene.IntersectP(shadow, dist-shadowEps) {
					contribution := radiance.MultiplyVec(sample.Value).
						Multiply(math.Abs(sample.Wi.Z) / math.Max(sample.PDF*selectProb, minPDF))
					if sample.Delta {
						direct = direct.Add(contribution)
					} else {
						weight := core.PowerHeuristic(1, sample.PDF, 1, lightPdf*selectProb)
						direct = direct.Add(contribution.Multiply(weight))
					}
				}
			}
		}
	}

	return direct
}

// mediumDirect estimates direct lighting at an in-medium scattering
// point. Shadow rays first cross the medium boundary, paying the
// transmittance up to it.
func (pt *PathTracer) mediumDirect(medium core.Medium, p, wo core.Vec3, boundary core.Primitive, sampler core.Sampler) core.Vec3 {
	light, selectProb := pt.scene.LightSampler().SampleLight(sampler)
	if light == nil || selectProb <= 0 {
		return core.Vec3{}
	}
	var direct core.Vec3

	// Light strategy against the phase function
	ls := light.Sample(p, sampler)
	pdf := ls.PDF * selectProb
	if pdf > 0 && !math.IsInf(pdf, 0) && ls.Radiance.Luminance() > 0 {
		phase := medium.Phase(wo, ls.Direction)
		shadow, transported := pt.mediumShadowRay(p, ls.Direction, ls.Distance, boundary)
		if !pt.occludedBeyond(shadow, ls.Distance, transported) {
			atten := medium.Transmittance(transported)
			contribution := ls.Radiance.MultiplyVec(atten).
				Multiply(phase / math.Max(pdf, minPDF))
			if light.IsDelta() {
				direct = direct.Add(contribution)
			} else {
				weight := core.PowerHeuristic(1, pdf, 1, phase)
				direct = direct.Add(contribution.Multiply(weight))
			}
		}
	}

	// Phase strategy: the phase value doubles as its sampling density,
	// so the estimator reduces to transmittance times radiance
	if !light.IsDelta() {
		wi, phasePdf := medium.SamplePhase(wo, sampler)
		if phasePdf > 0 {
			radiance, dist, lightPdf := light.RadiancePDF(p, wi)
			if radiance.Luminance() > 0 {
				shadow, transported := pt.mediumShadowRay(p, wi, dist, boundary)
				if !pt.occludedBeyond(shadow, dist, transported) {
					atten := medium.Transmittance(transported)
					weight := core.PowerHeuristic(1, phasePdf, 1, lightPdf*selectProb)
					direct = direct.Add(radiance.MultiplyVec(atten).
						Multiply(weight / selectProb))
				}
			}
		}
	}

	return direct
}

// mediumShadowRay advances a shadow ray from an in-medium point past the
// medium boundary, returning the distance traveled inside the medium
func (pt *PathTracer) mediumShadowRay(p, dir core.Vec3, dist float64, boundary core.Primitive) (core.Ray, float64) {
	ray := core.Ray{Origin: p, Direction: dir}
	if boundary != nil {
		inter := core.NewSurfaceInteraction()
		if !math.IsInf(dist, 1) {
			inter.T = dist - shadowEps
		}
		if boundary.Intersect(ray, &inter) {
			return core.Ray{Origin: ray.At(inter.T), Direction: dir}, inter.T
		}
	}
	if math.IsInf(dist, 1) {
		return ray, dist
	}
	return core.Ray{Origin: ray.At(dist - shadowEps), Direction: dir}, dist
}

// occludedBeyond tests the remaining shadow segment after the medium
// boundary crossing
func (pt *PathTracer) occludedBeyond(shadow core.Ray, dist, transported float64) bool {
	if math.IsInf(transported, 1) {
		return false
	}
	remaining := dist - transported - shadowEps
	if math.IsInf(dist, 1) {
		remaining = dist
	}
	if remaining <= core.TMinEps {
		return false
	}
	return pt.scene.IntersectP(shadow, remaining)
}

// offsetRay nudges a secondary ray origin along its direction. The fixed
// traversal epsilon covers normal-incidence cases; grazing directions
// get a proportionally larger shift.
func offsetRay(origin, dir core.Vec3, cosAbs float64) core.Ray {
	shift := core.TMinEps * (1.0/math.Max(cosAbs, minPDF) - 1.0)
	return core.Ray{Origin: origin.Add(dir.Multiply(shift)), Direction: dir}
}

// sameGeometricSide reports whether a world direction leaves on the side
// of the geometric normal its shading-frame hemisphere implies. Normal
// maps and vertex normals can disagree with the geometry at grazing
// angles; such directions would tunnel through the surface.
func sameGeometricSide(wiWorld core.Vec3, wiZ float64, frame core.Frame, geoNormal core.Vec3) bool {
	shadeUp := frame.Normal.Dot(geoNormal) >= 0
	worldUp := wiWorld.Dot(geoNormal) >= 0
	localUp := wiZ >= 0
	if shadeUp {
		return worldUp == localUp
	}
	return worldUp != localUp
}
