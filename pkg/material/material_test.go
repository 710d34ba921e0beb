package material

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

func TestSolidColorTexture(t *testing.T) {
	tex := NewSolidColor(core.NewVec3(0.2, 0.4, 0.6))
	got := tex.ColorAt(core.NewVec2(0.9, 0.1), core.NewVec3(1, 2, 3))
	want := core.NewVec3(0.2, 0.4, 0.6)
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
	if tex.Average() != want {
		t.Errorf("expected average %v, got %v", want, tex.Average())
	}
}

func TestImageTextureBilinear(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{0, 0, 0, 255})
	img.Set(1, 0, color.RGBA{255, 255, 255, 255})
	img.Set(0, 1, color.RGBA{255, 255, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 255})
	tex := NewImageTexture(img, 1.0)

	if tex.Width() != 2 || tex.Height() != 2 {
		t.Fatalf("expected 2x2 texture, got %dx%d", tex.Width(), tex.Height())
	}

	// Sampling dead center averages all four texels
	got := tex.ColorAt(core.NewVec2(0.5, 0.5), core.Vec3{})
	if math.Abs(got.X-0.5) > 1e-9 {
		t.Errorf("expected center sample 0.5, got %v", got.X)
	}

	avg := tex.Average()
	if math.Abs(avg.X-0.5) > 1e-9 {
		t.Errorf("expected average 0.5, got %v", avg.X)
	}
}

func TestImageTextureGamma(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{128, 128, 128, 255})
	tex := NewImageTexture(img, 2.2)

	got := tex.ColorAt(core.NewVec2(0.5, 0.5), core.Vec3{})
	want := math.Pow(128.0/255.0, 2.2)
	if math.Abs(got.X-want) > 1e-3 {
		t.Errorf("expected linearized texel near %v, got %v", want, got.X)
	}
}

func TestLambertScatter(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.5, 0.3)
	mat := NewLambert(NewSolidColor(albedo))
	inter := &core.SurfaceInteraction{}
	scatter := mat.ScatterAt(inter)

	if scatter.IsDelta() {
		t.Error("expected diffuse scatter, got delta")
	}

	wo := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0, 0.6, 0.8)
	got := scatter.Evaluate(wo, wi)
	want := albedo.Divide(math.Pi)
	if got.Subtract(want).Length() > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMetalRoughnessSwitch(t *testing.T) {
	eta := NewSolidColor(core.NewVec3(0.2, 0.9, 1.4))
	k := NewSolidColor(core.NewVec3(3.9, 2.5, 2.1))
	inter := &core.SurfaceInteraction{}

	smooth := NewMetal(eta, k, NewSolidGray(0)).ScatterAt(inter)
	if !smooth.IsDelta() {
		t.Error("expected delta scatter at zero roughness")
	}

	rough := NewMetal(eta, k, NewSolidGray(0.5)).ScatterAt(inter)
	if rough.IsDelta() {
		t.Error("expected microfacet scatter at roughness 0.5")
	}
}

func TestGlassSmoothIsDelta(t *testing.T) {
	mat := NewGlass(1.5, NewSolidGray(1), NewSolidGray(1), NewSolidGray(0))
	scatter := mat.ScatterAt(&core.SurfaceInteraction{})
	if !scatter.IsDelta() {
		t.Error("expected delta scatter for smooth glass")
	}
}

func TestGlassTints(t *testing.T) {
	reflectance := core.NewVec3(1, 0, 0)
	transmittance := core.NewVec3(0, 1, 0)
	mat := NewGlass(1.5,
		NewSolidColor(reflectance),
		NewSolidColor(transmittance),
		NewSolidGray(0.5))
	scatter := mat.ScatterAt(&core.SurfaceInteraction{})

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(11)))
	wo := core.NewVec3(0.3, 0, 0.95).Normalize()
	sawReflect, sawRefract := false, false
	for i := 0; i < 256; i++ {
		sample := scatter.Sample(wo, sampler)
		if sample.PDF <= 0 || sample.Value.IsZero() {
			continue
		}
		if core.SameHemisphere(wo, sample.Wi) {
			sawReflect = true
			if sample.Value.Y != 0 || sample.Value.Z != 0 {
				t.Fatalf("reflection leaked transmission tint: %v", sample.Value)
			}
		} else {
			sawRefract = true
			if sample.Value.X != 0 || sample.Value.Z != 0 {
				t.Fatalf("transmission leaked reflection tint: %v", sample.Value)
			}
		}
	}
	if !sawReflect || !sawRefract {
		t.Errorf("expected both lobes sampled, reflect=%v refract=%v", sawReflect, sawRefract)
	}
}

func TestMixWeights(t *testing.T) {
	red := NewLambert(NewSolidColor(core.NewVec3(1, 0, 0)))
	blue := NewLambert(NewSolidColor(core.NewVec3(0, 0, 1)))
	inter := &core.SurfaceInteraction{}

	wo := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0, 0.6, 0.8)
	tests := []struct {
		name   string
		weight float64
		want   core.Vec3
	}{
		{"all first", 1.0, core.NewVec3(1, 0, 0).Divide(math.Pi)},
		{"all second", 0.0, core.NewVec3(0, 0, 1).Divide(math.Pi)},
		{"halfway", 0.5, core.NewVec3(0.5, 0, 0.5).Divide(math.Pi)},
	}

	for _, tt := range tests {
		scatter := NewMix(red, blue, NewSolidGray(tt.weight)).ScatterAt(inter)
		got := scatter.Evaluate(wo, wi)
		if got.Subtract(tt.want).Length() > 1e-9 {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestPBRMetallicExtremes(t *testing.T) {
	base := NewSolidColor(core.NewVec3(0.7, 0.3, 0.2))
	inter := &core.SurfaceInteraction{}
	wo := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0.3, 0, 0.95).Normalize()

	// A fully metallic surface keeps no diffuse lobe, so near-retro
	// directions far from the half-vector see much less energy than a
	// dielectric of the same base color
	dielectric := NewPBRMetallic(base, NewSolidGray(0.8), NewSolidGray(0)).ScatterAt(inter)
	metal := NewPBRMetallic(base, NewSolidGray(0.8), NewSolidGray(1)).ScatterAt(inter)

	dieVal := dielectric.Evaluate(wo, wi)
	metVal := metal.Evaluate(wo, wi)
	if dieVal.Luminance() <= 0 {
		t.Fatal("expected nonzero dielectric response")
	}
	if metVal.Luminance() >= dieVal.Luminance() {
		t.Errorf("expected metallic response below dielectric away from highlight: %v vs %v",
			metVal.Luminance(), dieVal.Luminance())
	}
}

func TestPlasticReciprocity(t *testing.T) {
	mat := NewPlastic(1.5, NewSolidColor(core.NewVec3(0.6, 0.4, 0.2)), NewSolidGray(0.4))
	scatter := mat.ScatterAt(&core.SurfaceInteraction{})

	random := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		wo := core.SampleUniformHemisphere(core.NewVec2(random.Float64(), random.Float64()))
		wi := core.SampleUniformHemisphere(core.NewVec2(random.Float64(), random.Float64()))
		fwd := scatter.Evaluate(wo, wi)
		rev := scatter.Evaluate(wi, wo)
		if fwd.Subtract(rev).Length() > 1e-9 {
			t.Fatalf("reciprocity violated: %v vs %v", fwd, rev)
		}
	}
}

func TestSubsurfaceScatterInterface(t *testing.T) {
	mat := NewSubsurface(1.3, NewSolidColor(core.NewVec3(0.8, 0.6, 0.4)), NewSolidGray(0.2))
	scatter := mat.ScatterAt(&core.SurfaceInteraction{})
	if _, ok := scatter.(core.SubsurfaceScatter); !ok {
		t.Error("expected subsurface material to produce an exit-sampling scatter")
	}
	if scatter.IsDelta() {
		t.Error("expected diffuse boundary scatter, got delta")
	}
}
