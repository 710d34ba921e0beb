package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestPowerHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		nf       int
		fPdf     float64
		ng       int
		gPdf     float64
		expected float64
	}{
		{name: "Equal PDFs", nf: 1, fPdf: 0.5, ng: 1, gPdf: 0.5, expected: 0.5},
		{name: "First PDF zero", nf: 1, fPdf: 0.0, ng: 1, gPdf: 0.5, expected: 0.0},
		{name: "Second PDF zero", nf: 1, fPdf: 0.5, ng: 1, gPdf: 0.0, expected: 1.0},
		{name: "First PDF higher", nf: 1, fPdf: 0.8, ng: 1, gPdf: 0.2, expected: 0.941176}, // (0.8²) / (0.8² + 0.2²)
		{name: "Both zero", nf: 1, fPdf: 0.0, ng: 1, gPdf: 0.0, expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PowerHeuristic(tt.nf, tt.fPdf, tt.ng, tt.gPdf)
			if math.Abs(result-tt.expected) > 1e-5 {
				t.Errorf("PowerHeuristic: got %f, expected %f", result, tt.expected)
			}
		})
	}
}

func TestBalanceHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		nf       int
		fPdf     float64
		ng       int
		gPdf     float64
		expected float64
	}{
		{name: "Equal PDFs", nf: 1, fPdf: 0.5, ng: 1, gPdf: 0.5, expected: 0.5},
		{name: "First PDF zero", nf: 1, fPdf: 0.0, ng: 1, gPdf: 0.5, expected: 0.0},
		{name: "First PDF higher", nf: 1, fPdf: 0.8, ng: 1, gPdf: 0.2, expected: 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BalanceHeuristic(tt.nf, tt.fPdf, tt.ng, tt.gPdf)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("BalanceHeuristic: got %f, expected %f", result, tt.expected)
			}
		})
	}
}

func TestSampleCosineHemisphere(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sampler := NewRandomSampler(random)

	// All samples must lie in the upper hemisphere and be unit length
	meanCos := 0.0
	const n = 10000
	for i := 0; i < n; i++ {
		dir := SampleCosineHemisphere(sampler.Get2D())
		if dir.Z < 0 {
			t.Fatalf("sample below hemisphere: %v", dir)
		}
		if math.Abs(dir.Length()-1.0) > 1e-9 {
			t.Fatalf("sample not unit length: %v", dir)
		}
		meanCos += dir.Z
	}
	meanCos /= n

	// E[cosθ] for cosine-weighted sampling is 2/3
	if math.Abs(meanCos-2.0/3.0) > 0.01 {
		t.Errorf("mean cosine: got %f, expected 0.667", meanCos)
	}
}

func TestSampleUniformSphere(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	sampler := NewRandomSampler(random)

	mean := NewVec3(0, 0, 0)
	const n = 20000
	for i := 0; i < n; i++ {
		dir := SampleUniformSphere(sampler.Get2D())
		if math.Abs(dir.Length()-1.0) > 1e-9 {
			t.Fatalf("sample not unit length: %v", dir)
		}
		mean = mean.Add(dir)
	}
	mean = mean.Divide(n)

	if mean.Length() > 0.02 {
		t.Errorf("uniform sphere samples not centered: mean %v", mean)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	frame := NewFrame(NewVec3(1, 2, -0.5).Normalize())
	dirs := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0.3, -0.4, 0.86).Normalize(),
		NewVec3(-1, 0.2, 0.1).Normalize(),
	}

	for _, d := range dirs {
		world := frame.ToWorld(d)
		back := frame.ToLocal(world)
		if back.Subtract(d).Length() > 1e-9 {
			t.Errorf("round trip failed: %v -> %v", d, back)
		}
	}
}

func TestFrameOrthonormal(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(0, -1, 0),
		NewVec3(0.1, 0.98, 0.05).Normalize(),
		NewVec3(1, 0, 0),
	}
	for _, n := range normals {
		frame := NewFrame(n)
		if math.Abs(frame.Tangent.Dot(frame.Bitangent)) > 1e-9 ||
			math.Abs(frame.Tangent.Dot(frame.Normal)) > 1e-9 ||
			math.Abs(frame.Bitangent.Dot(frame.Normal)) > 1e-9 {
			t.Errorf("frame for %v is not orthogonal", n)
		}
		if math.Abs(frame.Tangent.Length()-1) > 1e-9 ||
			math.Abs(frame.Bitangent.Length()-1) > 1e-9 ||
			math.Abs(frame.Normal.Length()-1) > 1e-9 {
			t.Errorf("frame for %v is not normalized", n)
		}
	}
}
