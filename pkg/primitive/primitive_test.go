package primitive

import (
	"math"
	"math/rand"
	"testing"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

func TestSphereIntersect(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	inter := core.NewSurfaceInteraction()
	if !sphere.Intersect(ray, &inter) {
		t.Fatal("ray toward sphere should hit")
	}
	if math.Abs(inter.T-4.0) > 1e-9 {
		t.Errorf("hit distance %f, expected 4", inter.T)
	}
	if inter.Normal.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("hit normal %v, expected -z", inter.Normal)
	}

	miss := core.NewRay(core.NewVec3(0, 3, -5), core.NewVec3(0, 0, 1))
	interMiss := core.NewSurfaceInteraction()
	if sphere.Intersect(miss, &interMiss) {
		t.Error("offset ray should miss")
	}

	// Ray starting inside hits the far side
	inside := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	interInside := core.NewSurfaceInteraction()
	if !sphere.Intersect(inside, &interInside) {
		t.Fatal("ray from center should hit")
	}
	if math.Abs(interInside.T-1.0) > 1e-9 {
		t.Errorf("inside hit distance %f, expected 1", interInside.T)
	}
}

func TestSphereIgnoresFartherHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	inter := core.NewSurfaceInteraction()
	inter.T = 2.0 // active t_max closer than the sphere
	if sphere.Intersect(ray, &inter) {
		t.Error("hit beyond the active t interval must be rejected")
	}
}

func quadMeshForTest() *TriangleMesh {
	vertices := []MeshVertex{
		{Position: core.NewVec3(-1, 0, -1), Normal: core.NewVec3(0, 1, 0), UV: core.NewVec2(0, 0)},
		{Position: core.NewVec3(1, 0, -1), Normal: core.NewVec3(0, 1, 0), UV: core.NewVec2(1, 0)},
		{Position: core.NewVec3(1, 0, 1), Normal: core.NewVec3(0, 1, 0), UV: core.NewVec2(1, 1)},
		{Position: core.NewVec3(-1, 0, 1), Normal: core.NewVec3(0, 1, 0), UV: core.NewVec2(0, 1)},
	}
	return NewTriangleMesh(vertices, []uint32{0, 1, 2, 0, 2, 3})
}

func TestTriangleMeshIntersect(t *testing.T) {
	mesh := quadMeshForTest()
	group := NewGroup(mesh.Triangles())

	ray := core.NewRay(core.NewVec3(0.2, 2, 0.3), core.NewVec3(0, -1, 0))
	inter := core.NewSurfaceInteraction()
	if !group.Intersect(ray, &inter) {
		t.Fatal("downward ray should hit the quad")
	}
	if math.Abs(inter.T-2.0) > 1e-9 {
		t.Errorf("hit distance %f, expected 2", inter.T)
	}
	if inter.Normal.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-9 {
		t.Errorf("hit normal %v, expected +y", inter.Normal)
	}

	outside := core.NewRay(core.NewVec3(3, 2, 0), core.NewVec3(0, -1, 0))
	interMiss := core.NewSurfaceInteraction()
	if group.Intersect(outside, &interMiss) {
		t.Error("ray outside the quad should miss")
	}
}

func randomSpheres(n int, seed int64) []core.Primitive {
	random := rand.New(rand.NewSource(seed))
	prims := make([]core.Primitive, 0, n)
	for i := 0; i < n; i++ {
		center := core.NewVec3(
			random.Float64()*20-10,
			random.Float64()*20-10,
			random.Float64()*20-10,
		)
		prims = append(prims, NewSphere(center, 0.1+random.Float64()*0.5))
	}
	return prims
}

func TestBVHMatchesLinearScan(t *testing.T) {
	prims := randomSpheres(200, 1)
	bvh := NewBVH(prims, DefaultMaxLeafSize)
	group := NewGroup(prims)

	random := rand.New(rand.NewSource(2))
	sampler := core.NewRandomSampler(random)
	for i := 0; i < 500; i++ {
		origin := core.NewVec3(
			random.Float64()*30-15,
			random.Float64()*30-15,
			random.Float64()*30-15,
		)
		direction := core.SampleUniformSphere(sampler.Get2D())
		ray := core.NewRay(origin, direction)

		interBVH := core.NewSurfaceInteraction()
		interLinear := core.NewSurfaceInteraction()
		hitBVH := bvh.Intersect(ray, &interBVH)
		hitLinear := group.Intersect(ray, &interLinear)

		if hitBVH != hitLinear {
			t.Fatalf("ray %d: bvh hit=%v, linear hit=%v", i, hitBVH, hitLinear)
		}
		if hitBVH && math.Abs(interBVH.T-interLinear.T) > 1e-9 {
			t.Fatalf("ray %d: bvh t=%f, linear t=%f", i, interBVH.T, interLinear.T)
		}

		if bvh.IntersectP(ray, 5.0) != group.IntersectP(ray, 5.0) {
			t.Fatalf("ray %d: IntersectP disagrees", i)
		}
	}
}

func TestBVHNearestAlongEitherDirection(t *testing.T) {
	// Spheres strung along the x axis exercise the ordered descent for
	// both ray-direction signs
	var prims []core.Primitive
	for _, x := range []float64{-10, -5, 0, 5, 10} {
		prims = append(prims, NewSphere(core.NewVec3(x, 0, 0), 1.0))
	}
	bvh := NewBVH(prims, 1)

	fromRight := core.NewRay(core.NewVec3(20, 0, 0), core.NewVec3(-1, 0, 0))
	inter := core.NewSurfaceInteraction()
	if !bvh.Intersect(fromRight, &inter) {
		t.Fatal("ray along -x should hit the sphere chain")
	}
	if math.Abs(inter.T-9.0) > 1e-9 {
		t.Errorf("-x ray hit t=%f, expected nearest sphere at 9", inter.T)
	}

	fromLeft := core.NewRay(core.NewVec3(-20, 0, 0), core.NewVec3(1, 0, 0))
	inter = core.NewSurfaceInteraction()
	if !bvh.Intersect(fromLeft, &inter) {
		t.Fatal("ray along +x should hit the sphere chain")
	}
	if math.Abs(inter.T-9.0) > 1e-9 {
		t.Errorf("+x ray hit t=%f, expected nearest sphere at 9", inter.T)
	}
}

func TestBVHInsensitiveToInputOrder(t *testing.T) {
	prims := randomSpheres(100, 3)
	reversed := make([]core.Primitive, len(prims))
	for i, p := range prims {
		reversed[len(prims)-1-i] = p
	}
	bvhA := NewBVH(prims, DefaultMaxLeafSize)
	bvhB := NewBVH(reversed, DefaultMaxLeafSize)

	random := rand.New(rand.NewSource(4))
	sampler := core.NewRandomSampler(random)
	for i := 0; i < 200; i++ {
		ray := core.NewRay(
			core.NewVec3(random.Float64()*30-15, random.Float64()*30-15, random.Float64()*30-15),
			core.SampleUniformSphere(sampler.Get2D()),
		)
		interA := core.NewSurfaceInteraction()
		interB := core.NewSurfaceInteraction()
		hitA := bvhA.Intersect(ray, &interA)
		hitB := bvhB.Intersect(ray, &interB)
		if hitA != hitB || (hitA && math.Abs(interA.T-interB.T) > 1e-9) {
			t.Fatalf("ray %d: build order changed the closest hit", i)
		}
	}
}

func TestBVHEmpty(t *testing.T) {
	bvh := NewBVH(nil, DefaultMaxLeafSize)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	inter := core.NewSurfaceInteraction()
	if bvh.Intersect(ray, &inter) || bvh.IntersectP(ray, 100) {
		t.Error("empty aggregate must never intersect")
	}
}

func TestInstanceTransform(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	transform, ok := TRS(core.NewVec3(5, 0, 0), core.Vec3{}, core.NewVec3(2, 2, 2))
	if !ok {
		t.Fatal("transform should be invertible")
	}
	surface := core.NewSurface(nil)
	instance := NewInstance(sphere, transform, surface)

	// Scaled by 2 and moved to x=5: surface at x=3 facing the origin
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
	inter := core.NewSurfaceInteraction()
	if !instance.Intersect(ray, &inter) {
		t.Fatal("ray should hit the transformed sphere")
	}
	if math.Abs(inter.T-3.0) > 1e-6 {
		t.Errorf("hit distance %f, expected 3", inter.T)
	}
	if inter.Normal.Subtract(core.NewVec3(-1, 0, 0)).Length() > 1e-6 {
		t.Errorf("world normal %v, expected -x", inter.Normal)
	}
	if inter.Surface != surface {
		t.Error("interaction should carry the instance's surface")
	}

	bbox := instance.BoundingBox()
	if math.Abs(bbox.Min.X-3.0) > 1e-6 || math.Abs(bbox.Max.X-7.0) > 1e-6 {
		t.Errorf("world bbox x range [%f, %f], expected [3, 7]", bbox.Min.X, bbox.Max.X)
	}
}

func TestInstanceSamplePDFScaling(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	transform, _ := TRS(core.Vec3{}, core.Vec3{}, core.NewVec3(2, 2, 2))
	instance := NewInstance(sphere, transform, core.NewSurface(nil))

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(5)))
	inter, pdf := instance.Sample(sampler)

	// Doubling the radius quarters the area density
	expected := 1.0 / (4.0 * math.Pi * 4.0)
	if math.Abs(pdf-expected) > 1e-9 {
		t.Errorf("sampled pdf %f, expected %f", pdf, expected)
	}
	if math.Abs(inter.Point.Length()-2.0) > 1e-9 {
		t.Errorf("sampled point should lie on the scaled sphere, |p|=%f", inter.Point.Length())
	}
	if math.Abs(instance.PDF(&inter)-expected) > 1e-9 {
		t.Errorf("PDF %f, expected %f", instance.PDF(&inter), expected)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	transform, ok := TRS(core.NewVec3(1, -2, 3), core.NewVec3(30, 45, 10), core.NewVec3(2, 0.5, 1.5))
	if !ok {
		t.Fatal("transform should be invertible")
	}
	points := []core.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 2, Z: 3},
		{X: -4, Y: 0.5, Z: 2},
	}
	for _, p := range points {
		back := transform.InversePoint(transform.Point(p))
		if back.Subtract(p).Length() > 1e-9 {
			t.Errorf("round trip failed: %v -> %v", p, back)
		}
	}
}

func TestCubicBezierFlatPatch(t *testing.T) {
	// Control grid spanning the unit square in the xz plane at y=0
	var control [4][4]core.Vec3
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			control[i][j] = core.NewVec3(float64(j)/3.0, 0, float64(i)/3.0)
		}
	}
	patch := NewCubicBezier(control)

	ray := core.NewRay(core.NewVec3(0.5, 2, 0.5), core.NewVec3(0, -1, 0))
	inter := core.NewSurfaceInteraction()
	if !patch.Intersect(ray, &inter) {
		t.Fatal("ray should hit the flat patch")
	}
	if math.Abs(inter.T-2.0) > 1e-4 {
		t.Errorf("hit distance %f, expected 2", inter.T)
	}
	if math.Abs(math.Abs(inter.Normal.Y)-1.0) > 1e-4 {
		t.Errorf("flat patch normal %v, expected +-y", inter.Normal)
	}

	corner := patch.PointAt(0, 0)
	if corner.Subtract(control[0][0]).Length() > 1e-12 {
		t.Errorf("PointAt(0,0) = %v, expected first control point", corner)
	}
	if patch.PointAt(1, 1).Subtract(control[3][3]).Length() > 1e-12 {
		t.Error("PointAt(1,1) should reach the last control point")
	}
}

func cubeControlMesh() ([]core.Vec3, [][4]int) {
	vertices := []core.Vec3{
		{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1},
		{X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1},
		{X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1},
	}
	quads := [][4]int{
		{0, 3, 2, 1}, {4, 5, 6, 7},
		{0, 1, 5, 4}, {2, 3, 7, 6},
		{1, 2, 6, 5}, {0, 4, 7, 3},
	}
	return vertices, quads
}

func TestCatmullClarkShrinksCube(t *testing.T) {
	vertices, quads := cubeControlMesh()
	surface := NewCatmullClark(vertices, quads, 2)

	bbox := surface.BoundingBox()
	if !bbox.IsValid() {
		t.Fatal("subdivided surface should have a valid bound")
	}
	// Subdivision pulls a cube strictly inside its cage, toward a sphere
	if bbox.Max.X >= 1.0 || bbox.Min.X <= -1.0 {
		t.Errorf("subdivided cube should shrink inside the cage, bbox %v", bbox)
	}

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	inter := core.NewSurfaceInteraction()
	if !surface.Intersect(ray, &inter) {
		t.Fatal("axis ray should hit the subdivided cube")
	}
	if inter.T <= 4.0 || inter.T >= 5.0 {
		t.Errorf("hit distance %f, expected inside (4, 5)", inter.T)
	}
}

func TestSubdivisionGrowsQuads(t *testing.T) {
	vertices, quads := cubeControlMesh()
	newVertices, newQuads := subdivideOnce(vertices, quads)
	if len(newQuads) != len(quads)*4 {
		t.Errorf("one level should quadruple faces: got %d, expected %d", len(newQuads), len(quads)*4)
	}
	// Closed cube: V + F + E = 8 + 6 + 12 = 26 vertices after one step
	if len(newVertices) != 26 {
		t.Errorf("refined cube vertex count %d, expected 26", len(newVertices))
	}
}
