package lights

import (
	"math"
	"math/rand"
	"testing"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
	"github.com/PepcyCh/simple-path-tracer/pkg/primitive"
)

func newTestSampler(seed int64) core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(seed)))
}

func TestPointLightFalloff(t *testing.T) {
	light := NewPoint(core.NewVec3(0, 2, 0), core.NewVec3(8, 8, 8))
	sampler := newTestSampler(1)

	sample := light.Sample(core.NewVec3(0, 0, 0), sampler)
	if sample.Direction.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-9 {
		t.Errorf("expected direction +y, got %v", sample.Direction)
	}
	if math.Abs(sample.Distance-2.0) > 1e-9 {
		t.Errorf("expected distance 2, got %v", sample.Distance)
	}
	// Strength over squared distance
	if math.Abs(sample.Radiance.X-2.0) > 1e-9 {
		t.Errorf("expected radiance 2, got %v", sample.Radiance.X)
	}
	if !light.IsDelta() {
		t.Error("expected point light to be delta")
	}
}

func TestDirectionalLight(t *testing.T) {
	light := NewDirectional(core.NewVec3(0, -1, 0), core.NewVec3(3, 3, 3))
	sample := light.Sample(core.NewVec3(5, 0, 5), newTestSampler(1))
	if sample.Direction.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-9 {
		t.Errorf("expected direction opposite travel, got %v", sample.Direction)
	}
	if !math.IsInf(sample.Distance, 1) {
		t.Errorf("expected infinite distance, got %v", sample.Distance)
	}
	if sample.Radiance != core.NewVec3(3, 3, 3) {
		t.Errorf("unexpected radiance %v", sample.Radiance)
	}
}

func TestSpotConeFalloff(t *testing.T) {
	position := core.NewVec3(0, 4, 0)
	down := core.NewVec3(0, -1, 0)
	strength := core.NewVec3(10, 10, 10)
	light := NewSpot(position, down, 20*math.Pi/180, 45*math.Pi/180, strength)
	sampler := newTestSampler(1)

	tests := []struct {
		name string
		p    core.Vec3
		zero bool
		full bool
	}{
		{"on axis", core.NewVec3(0, 0, 0), false, true},
		{"inside inner", core.NewVec3(0.5, 0, 0), false, true},
		{"between cones", core.NewVec3(2.5, 0, 0), false, false},
		{"outside outer", core.NewVec3(8, 0, 0), true, false},
	}
	for _, tt := range tests {
		sample := light.Sample(tt.p, sampler)
		lum := sample.Radiance.Luminance()
		distSqr := position.Subtract(tt.p).Dot(position.Subtract(tt.p))
		fullLum := strength.Luminance() / distSqr
		switch {
		case tt.zero && lum > 1e-9:
			t.Errorf("%s: expected no light, got %v", tt.name, lum)
		case tt.full && math.Abs(lum-fullLum) > 1e-9:
			t.Errorf("%s: expected full strength %v, got %v", tt.name, fullLum, lum)
		case !tt.zero && !tt.full && (lum <= 0 || lum >= fullLum):
			t.Errorf("%s: expected partial falloff, got %v of %v", tt.name, lum, fullLum)
		}
	}
}

type gradientMap struct {
	width, height int
}

func (m gradientMap) Texel(x, y int) core.Vec3 {
	v := float64(y+1) / float64(m.height)
	return core.NewVec3(v, v, v)
}
func (m gradientMap) Width() int  { return m.width }
func (m gradientMap) Height() int { return m.height }

func TestEnvironmentSampleMatchesRadiancePDF(t *testing.T) {
	light := NewEnvironment(gradientMap{width: 8, height: 4}, core.NewVec3(1, 1, 1))
	sampler := newTestSampler(42)

	for i := 0; i < 200; i++ {
		sample := light.Sample(core.Vec3{}, sampler)
		if sample.PDF <= 0 {
			t.Fatalf("sample %d: non-positive pdf %v", i, sample.PDF)
		}
		if math.Abs(sample.Direction.Length()-1.0) > 1e-9 {
			t.Fatalf("sample %d: direction not unit: %v", i, sample.Direction)
		}
		_, dist, pdf := light.RadiancePDF(core.Vec3{}, sample.Direction)
		if !math.IsInf(dist, 1) {
			t.Fatalf("sample %d: expected infinite distance, got %v", i, dist)
		}
		if math.Abs(pdf-sample.PDF) > 1e-6*sample.PDF {
			t.Fatalf("sample %d: pdf mismatch %v vs %v", i, sample.PDF, pdf)
		}
	}
}

func TestEnvironmentPDFNormalized(t *testing.T) {
	light := NewEnvironment(gradientMap{width: 16, height: 8}, core.NewVec3(1, 1, 1))

	// Monte Carlo integral of the pdf over the sphere should be 1
	random := rand.New(rand.NewSource(7))
	const n = 200000
	sum := 0.0
	for i := 0; i < n; i++ {
		dir := core.SampleUniformSphere(core.NewVec2(random.Float64(), random.Float64()))
		_, _, pdf := light.RadiancePDF(core.Vec3{}, dir)
		sum += pdf * 4.0 * math.Pi
	}
	integral := sum / n
	if math.Abs(integral-1.0) > 0.02 {
		t.Errorf("expected pdf to integrate to 1, got %v", integral)
	}
}

func TestUniformEnvironmentPower(t *testing.T) {
	light := NewUniformEnvironment(core.NewVec3(2, 2, 2))
	want := 2.0 * 4.0 * math.Pi
	if math.Abs(light.Power()-want) > 1e-6 {
		t.Errorf("expected power %v, got %v", want, light.Power())
	}
}

// quadLightInstance builds a unit emissive quad in the z=0 plane facing +z
func quadLightInstance(emission core.Vec3, doubleSided bool) *primitive.Instance {
	vertices := []primitive.MeshVertex{
		{Position: core.NewVec3(-0.5, -0.5, 0), Normal: core.NewVec3(0, 0, 1), UV: core.NewVec2(0, 0)},
		{Position: core.NewVec3(0.5, -0.5, 0), Normal: core.NewVec3(0, 0, 1), UV: core.NewVec2(1, 0)},
		{Position: core.NewVec3(0.5, 0.5, 0), Normal: core.NewVec3(0, 0, 1), UV: core.NewVec2(1, 1)},
		{Position: core.NewVec3(-0.5, 0.5, 0), Normal: core.NewVec3(0, 0, 1), UV: core.NewVec2(0, 1)},
	}
	mesh := primitive.NewTriangleMesh(vertices, []uint32{0, 1, 2, 0, 2, 3})
	bvh := primitive.NewBVH(mesh.Triangles(), primitive.DefaultMaxLeafSize)
	surface := &core.Surface{Emissive: emission, DoubleSided: doubleSided}
	return primitive.NewInstance(bvh, primitive.IdentityTransform(), surface)
}

func TestShapeLightSampleMatchesRadiancePDF(t *testing.T) {
	light := NewShapeLight(quadLightInstance(core.NewVec3(5, 5, 5), false))
	sampler := newTestSampler(3)
	p := core.NewVec3(0.1, -0.2, 3)

	for i := 0; i < 100; i++ {
		sample := light.Sample(p, sampler)
		if sample.PDF <= 0 {
			t.Fatalf("sample %d: non-positive pdf %v", i, sample.PDF)
		}
		if sample.Radiance != core.NewVec3(5, 5, 5) {
			t.Fatalf("sample %d: expected front-face emission, got %v", i, sample.Radiance)
		}

		radiance, dist, pdf := light.RadiancePDF(p, sample.Direction)
		if radiance != sample.Radiance {
			t.Fatalf("sample %d: radiance mismatch %v vs %v", i, sample.Radiance, radiance)
		}
		if math.Abs(dist-sample.Distance) > 1e-6 {
			t.Fatalf("sample %d: distance mismatch %v vs %v", i, sample.Distance, dist)
		}
		if math.Abs(pdf-sample.PDF) > 1e-6*sample.PDF {
			t.Fatalf("sample %d: pdf mismatch %v vs %v", i, sample.PDF, pdf)
		}
	}
}

func TestShapeLightBackFace(t *testing.T) {
	light := NewShapeLight(quadLightInstance(core.NewVec3(5, 5, 5), false))
	sampler := newTestSampler(4)

	// Behind the quad a one-sided light contributes nothing
	sample := light.Sample(core.NewVec3(0, 0, -3), sampler)
	if sample.Radiance.Luminance() > 0 {
		t.Errorf("expected black radiance from the back, got %v", sample.Radiance)
	}

	double := NewShapeLight(quadLightInstance(core.NewVec3(5, 5, 5), true))
	sample = double.Sample(core.NewVec3(0, 0, -3), sampler)
	if sample.Radiance.Luminance() <= 0 {
		t.Error("expected double-sided light to emit from the back")
	}
}

func TestShapeLightPowerScalesWithArea(t *testing.T) {
	small := NewShapeLight(quadLightInstance(core.NewVec3(5, 5, 5), false))

	surface := &core.Surface{Emissive: core.NewVec3(5, 5, 5)}
	transform, ok := primitive.TRS(core.Vec3{}, core.Vec3{}, core.NewVec3(2, 2, 2))
	if !ok {
		t.Fatal("expected valid transform")
	}
	vertices := []primitive.MeshVertex{
		{Position: core.NewVec3(-0.5, -0.5, 0), Normal: core.NewVec3(0, 0, 1)},
		{Position: core.NewVec3(0.5, -0.5, 0), Normal: core.NewVec3(0, 0, 1)},
		{Position: core.NewVec3(0.5, 0.5, 0), Normal: core.NewVec3(0, 0, 1)},
		{Position: core.NewVec3(-0.5, 0.5, 0), Normal: core.NewVec3(0, 0, 1)},
	}
	mesh := primitive.NewTriangleMesh(vertices, []uint32{0, 1, 2, 0, 2, 3})
	bvh := primitive.NewBVH(mesh.Triangles(), primitive.DefaultMaxLeafSize)
	big := NewShapeLight(primitive.NewInstance(bvh, transform, surface))

	ratio := big.Power() / small.Power()
	if math.Abs(ratio-4.0) > 0.2 {
		t.Errorf("expected 4x power for 2x scale, got ratio %v", ratio)
	}
}

func TestUniformSampler(t *testing.T) {
	ls := []core.Light{
		NewPoint(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1)),
		NewPoint(core.NewVec3(0, 2, 0), core.NewVec3(1, 1, 1)),
		NewPoint(core.NewVec3(0, 3, 0), core.NewVec3(1, 1, 1)),
	}
	s := NewUniformSampler(ls)
	if s.Count() != 3 {
		t.Fatalf("expected 3 lights, got %d", s.Count())
	}
	for i := range ls {
		if math.Abs(s.Probability(i)-1.0/3.0) > 1e-9 {
			t.Errorf("light %d: expected probability 1/3, got %v", i, s.Probability(i))
		}
	}

	sampler := newTestSampler(5)
	light, prob := s.SampleLight(sampler)
	if light == nil || math.Abs(prob-1.0/3.0) > 1e-9 {
		t.Errorf("expected uniform selection, got prob %v", prob)
	}
}

func TestPowerSamplerWeights(t *testing.T) {
	dim := NewPoint(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1))
	bright := NewPoint(core.NewVec3(0, 2, 0), core.NewVec3(3, 3, 3))
	s := NewPowerSampler([]core.Light{dim, bright})

	if math.Abs(s.Probability(0)-0.25) > 1e-9 {
		t.Errorf("expected dim probability 0.25, got %v", s.Probability(0))
	}
	if math.Abs(s.Probability(1)-0.75) > 1e-9 {
		t.Errorf("expected bright probability 0.75, got %v", s.Probability(1))
	}

	sampler := newTestSampler(6)
	brightCount := 0
	const n = 10000
	for i := 0; i < n; i++ {
		light, _ := s.SampleLight(sampler)
		if light == bright {
			brightCount++
		}
	}
	frac := float64(brightCount) / n
	if math.Abs(frac-0.75) > 0.02 {
		t.Errorf("expected ~75%% bright selections, got %v", frac)
	}
}

func TestEmptySamplers(t *testing.T) {
	if light, _ := NewUniformSampler(nil).SampleLight(newTestSampler(1)); light != nil {
		t.Error("expected nil light from empty uniform sampler")
	}
	if light, _ := NewPowerSampler(nil).SampleLight(newTestSampler(1)); light != nil {
		t.Error("expected nil light from empty power sampler")
	}
}
