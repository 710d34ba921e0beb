package core

import "math"

// SurfaceInteraction describes a ray-surface hit. It is stack-scoped:
// created per intersection query and never outlives a path-tracing step.
// T doubles as the active t_max during traversal; shapes only record hits
// closer than the current T.
type SurfaceInteraction struct {
	T         float64
	Point     Vec3
	Normal    Vec3 // geometric normal
	Tangent   Vec3 // dp/du, used for shading frames and normal mapping
	Bitangent Vec3 // dp/dv
	UV        Vec2
	Surface   *Surface
	Primitive Primitive // innermost shape hit, set by shapes
	Instance  Primitive // enclosing instance, set when the hit came through one
}

// NewSurfaceInteraction creates an interaction with an open t interval
func NewSurfaceInteraction() SurfaceInteraction {
	return SurfaceInteraction{
		T:      math.Inf(1),
		Normal: NewVec3(0, 1, 0),
	}
}

// Surface binds a material with its optional emission, normal map and
// interior medium. A surface with non-zero emission is registered as a
// ShapeLight exactly once at scene build.
type Surface struct {
	Material    Material
	NormalMap   Texture
	Emissive    Vec3
	EmissiveMap Texture
	DoubleSided bool
	Inside      Medium // medium on the interior side, nil for none
}

// NewSurface creates a plain surface around a material
func NewSurface(material Material) *Surface {
	return &Surface{Material: material}
}

// IsEmissive returns true if the surface emits light
func (s *Surface) IsEmissive() bool {
	return s.Emissive.Luminance() > 0
}

// Emission returns the emitted radiance at an interaction point
func (s *Surface) Emission(inter *SurfaceInteraction) Vec3 {
	if s.EmissiveMap == nil {
		return s.Emissive
	}
	return s.Emissive.MultiplyVec(s.EmissiveMap.ColorAt(inter.UV, inter.Point))
}

// AverageEmission returns the surface's emission averaged over its
// emissive texture, used for light power estimates
func (s *Surface) AverageEmission() Vec3 {
	if s.EmissiveMap == nil {
		return s.Emissive
	}
	return s.Emissive.MultiplyVec(s.EmissiveMap.Average())
}

// InsideMedium returns the interior medium crossed when a ray enters
// through this surface. Double-sided surfaces never bound a medium.
func (s *Surface) InsideMedium() Medium {
	if s.DoubleSided {
		return nil
	}
	return s.Inside
}

// ShadingFrame derives the local shading basis at an interaction,
// perturbing the geometric normal by the normal map if one is present.
// Back-face hits on double-sided surfaces flip the shading normal so the
// scatter model always sees the ray on the +z side.
func (s *Surface) ShadingFrame(ray Ray, inter *SurfaceInteraction) Frame {
	shadeNormal := inter.Normal
	if s.NormalMap != nil {
		value := s.NormalMap.ColorAt(inter.UV, inter.Point)
		local := NewVec3(2*value.X-1, 2*value.Y-1, 2*value.Z-1).Normalize()
		shadeNormal = inter.Tangent.Normalize().Multiply(local.X).
			Add(inter.Bitangent.Normalize().Multiply(local.Y)).
			Add(inter.Normal.Multiply(local.Z)).Normalize()
		if shadeNormal.IsZero() {
			shadeNormal = inter.Normal
		}
	}

	hitBack := ray.Direction.Dot(inter.Normal) > 0
	if s.DoubleSided && hitBack {
		shadeNormal = shadeNormal.Negate()
	}
	return NewFrameFromTangent(inter.Tangent, shadeNormal)
}
