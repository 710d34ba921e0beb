package scene

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
	"github.com/PepcyCh/simple-path-tracer/pkg/material"
	"github.com/PepcyCh/simple-path-tracer/pkg/primitive"
)

func testBuilder() *Builder {
	b := NewBuilder()
	b.AddPrimitive("sphere", primitive.NewSphere(core.Vec3{}, 1))
	b.AddMaterial("white", material.NewLambert(material.NewSolidGray(0.8)))
	b.AddSurface("glow", &core.Surface{Emissive: core.NewVec3(10, 10, 10)})
	return b
}

func TestBuildResolvesReferences(t *testing.T) {
	b := testBuilder()
	b.AddInstance(InstanceDecl{
		Name:      "ball",
		Primitive: "sphere",
		Transform: primitive.IdentityTransform(),
		Material:  "white",
	})
	s, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	if s.InstanceCount() != 1 {
		t.Errorf("expected 1 instance, got %d", s.InstanceCount())
	}

	ray := core.Ray{Origin: core.NewVec3(0, 0, 5), Direction: core.NewVec3(0, 0, -1)}
	inter := core.NewSurfaceInteraction()
	if !s.Intersect(ray, &inter) {
		t.Fatal("expected hit on built scene")
	}
	if inter.Surface == nil || inter.Surface.Material == nil {
		t.Error("expected resolved surface on interaction")
	}
}

func TestBuildErrorsNameTheReference(t *testing.T) {
	tests := []struct {
		name    string
		decl    InstanceDecl
		wantErr error
		wantSub string
	}{
		{
			name: "unknown primitive",
			decl: InstanceDecl{
				Name: "ball", Primitive: "missing-shape",
				Transform: primitive.IdentityTransform(), Material: "white",
			},
			wantErr: ErrUnknownReference,
			wantSub: "missing-shape",
		},
		{
			name: "unknown material",
			decl: InstanceDecl{
				Name: "ball", Primitive: "sphere",
				Transform: primitive.IdentityTransform(), Material: "missing-mat",
			},
			wantErr: ErrUnknownReference,
			wantSub: "missing-mat",
		},
		{
			name: "unknown surface",
			decl: InstanceDecl{
				Name: "ball", Primitive: "sphere",
				Transform: primitive.IdentityTransform(), Surface: "missing-surf",
			},
			wantErr: ErrUnknownReference,
			wantSub: "missing-surf",
		},
		{
			name: "material and surface both set",
			decl: InstanceDecl{
				Name: "ball", Primitive: "sphere",
				Transform: primitive.IdentityTransform(),
				Material:  "white", Surface: "glow",
			},
			wantErr: ErrConflictingBinding,
			wantSub: "ball",
		},
		{
			name: "neither material nor surface",
			decl: InstanceDecl{
				Name: "ball", Primitive: "sphere",
				Transform: primitive.IdentityTransform(),
			},
			wantErr: ErrMissingBinding,
			wantSub: "ball",
		},
	}

	for _, tt := range tests {
		b := testBuilder()
		b.AddInstance(tt.decl)
		_, err := b.Build()
		if err == nil {
			t.Errorf("%s: expected error, got none", tt.name)
			continue
		}
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
		}
		if !strings.Contains(err.Error(), tt.wantSub) {
			t.Errorf("%s: error %q does not name %q", tt.name, err, tt.wantSub)
		}
	}
}

func TestUnknownAggregateAndSampler(t *testing.T) {
	b := testBuilder()
	b.SetAggregate("octree")
	if _, err := b.Build(); !errors.Is(err, ErrUnknownReference) {
		t.Errorf("expected unknown aggregate error, got %v", err)
	}

	b = testBuilder()
	b.SetLightSampler("bluenoise")
	if _, err := b.Build(); !errors.Is(err, ErrUnknownReference) {
		t.Errorf("expected unknown sampler error, got %v", err)
	}
}

func TestEmissiveSurfaceRegistersShapeLight(t *testing.T) {
	b := testBuilder()
	b.AddInstance(InstanceDecl{
		Name: "lamp", Primitive: "sphere",
		Transform: primitive.IdentityTransform(), Surface: "glow",
	})
	s, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	if len(s.Lights()) != 1 {
		t.Fatalf("expected 1 derived light, got %d", len(s.Lights()))
	}
	if s.Lights()[0].IsDelta() {
		t.Error("expected a shape light, got a delta light")
	}
	if s.LightSampler().Count() != 1 {
		t.Errorf("expected sampler over 1 light, got %d", s.LightSampler().Count())
	}
}

func TestAggregateVariantsAgree(t *testing.T) {
	build := func(aggregate string) *Scene {
		b := NewBuilder()
		b.AddMaterial("white", material.NewLambert(material.NewSolidGray(0.8)))
		random := rand.New(rand.NewSource(21))
		for i := 0; i < 30; i++ {
			name := string(rune('a' + i%26))
			center := core.NewVec3(
				random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
			b.AddPrimitive(name, primitive.NewSphere(center, 0.3+random.Float64()))
			tf, _ := primitive.TRS(
				core.NewVec3(random.Float64(), random.Float64(), random.Float64()),
				core.Vec3{}, core.NewVec3(1, 1, 1))
			b.AddInstance(InstanceDecl{
				Name: name, Primitive: name, Transform: tf, Material: "white",
			})
		}
		b.SetAggregate(aggregate)
		s, err := b.Build()
		if err != nil {
			t.Fatalf("build %s: %v", aggregate, err)
		}
		return s
	}

	bvh := build(AggregateBVH)
	group := build(AggregateGroup)

	random := rand.New(rand.NewSource(22))
	for i := 0; i < 300; i++ {
		origin := core.NewVec3(
			random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		dir := core.NewVec3(
			random.Float64()*2-1, random.Float64()*2-1, random.Float64()*2-1).Normalize()
		ray := core.Ray{Origin: origin, Direction: dir}

		a := core.NewSurfaceInteraction()
		b := core.NewSurfaceInteraction()
		hitA := bvh.Intersect(ray, &a)
		hitB := group.Intersect(ray, &b)
		if hitA != hitB {
			t.Fatalf("ray %d: hit disagreement bvh=%v group=%v", i, hitA, hitB)
		}
		if hitA && !almostEqual(a.T, b.T, 1e-9) {
			t.Fatalf("ray %d: t disagreement %v vs %v", i, a.T, b.T)
		}
	}
}

func almostEqual(a, b, tol float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol
}

func TestCornellBoxBuilds(t *testing.T) {
	s, camera, err := NewCornellBox()
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	if s.InstanceCount() != 6 {
		t.Errorf("expected 6 instances, got %d", s.InstanceCount())
	}
	if len(s.Lights()) != 1 {
		t.Errorf("expected the lamp as the only light, got %d", len(s.Lights()))
	}
	if camera.FovDeg <= 0 {
		t.Error("expected a usable camera setup")
	}

	// A ray straight up the middle reaches the lamp
	ray := core.Ray{Origin: core.NewVec3(0, 1, 0), Direction: core.NewVec3(0, 1, 0)}
	inter := core.NewSurfaceInteraction()
	if !s.Intersect(ray, &inter) {
		t.Fatal("expected hit toward the ceiling")
	}
	if !inter.Surface.IsEmissive() {
		t.Error("expected to hit the emissive lamp before the ceiling")
	}
}
