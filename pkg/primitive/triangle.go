package primitive

import (
	"math"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// MeshVertex is one vertex of a triangle mesh
type MeshVertex struct {
	Position  core.Vec3
	Normal    core.Vec3
	UV        core.Vec2
	Tangent   core.Vec3
	Bitangent core.Vec3
}

// TriangleMesh owns the shared vertex and index buffers of its triangles
type TriangleMesh struct {
	vertices []MeshVertex
	indices  []uint32
}

// NewTriangleMesh creates a mesh and derives per-vertex tangent frames
// from the UV parameterization
func NewTriangleMesh(vertices []MeshVertex, indices []uint32) *TriangleMesh {
	mesh := &TriangleMesh{vertices: vertices, indices: indices}
	mesh.calcTangents()
	return mesh
}

// VertexCount returns the number of vertices
func (m *TriangleMesh) VertexCount() int {
	return len(m.vertices)
}

// TriangleCount returns the number of triangles
func (m *TriangleMesh) TriangleCount() int {
	return len(m.indices) / 3
}

// Triangles expands the mesh into its triangles, all sharing the mesh's
// buffers
func (m *TriangleMesh) Triangles() []core.Primitive {
	count := m.TriangleCount()
	triangles := make([]core.Primitive, 0, count)
	for i := 0; i < count; i++ {
		triangles = append(triangles, newTriangle(m, [3]int{
			int(m.indices[3*i]),
			int(m.indices[3*i+1]),
			int(m.indices[3*i+2]),
		}))
	}
	return triangles
}

// calcTangents accumulates per-triangle UV-aligned tangents into the
// vertices, skipping triangles with a degenerate UV mapping
func (m *TriangleMesh) calcTangents() {
	tangentSum := make([]core.Vec3, len(m.vertices))
	tangentCnt := make([]int, len(m.vertices))
	bitangentSum := make([]core.Vec3, len(m.vertices))
	bitangentCnt := make([]int, len(m.vertices))

	for i := 0; i < m.TriangleCount(); i++ {
		i0 := int(m.indices[3*i])
		i1 := int(m.indices[3*i+1])
		i2 := int(m.indices[3*i+2])

		e1 := m.vertices[i1].Position.Subtract(m.vertices[i0].Position)
		e2 := m.vertices[i2].Position.Subtract(m.vertices[i0].Position)
		u1 := m.vertices[i1].UV.Subtract(m.vertices[i0].UV)
		u2 := m.vertices[i2].UV.Subtract(m.vertices[i0].UV)

		det := u1.X*u2.Y - u1.Y*u2.X
		if det == 0 {
			continue
		}
		invDet := 1.0 / det
		tangent := e1.Multiply(u2.Y).Subtract(e2.Multiply(u1.Y)).Multiply(invDet).Normalize()
		bitangent := e2.Multiply(u1.X).Subtract(e1.Multiply(u2.X)).Multiply(invDet).Normalize()

		for _, vi := range []int{i0, i1, i2} {
			tangentSum[vi] = tangentSum[vi].Add(tangent)
			tangentCnt[vi]++
			bitangentSum[vi] = bitangentSum[vi].Add(bitangent)
			bitangentCnt[vi]++
		}
	}

	for i := range m.vertices {
		if tangentCnt[i] != 0 {
			m.vertices[i].Tangent = tangentSum[i].Divide(float64(tangentCnt[i]))
		} else {
			m.vertices[i].Tangent = core.NewFrame(m.vertices[i].Normal).Tangent
		}
		if bitangentCnt[i] != 0 {
			m.vertices[i].Bitangent = bitangentSum[i].Divide(float64(bitangentCnt[i]))
		} else {
			m.vertices[i].Bitangent = m.vertices[i].Normal.Cross(m.vertices[i].Tangent)
		}
	}
}

// Triangle is a single triangle referencing its mesh's buffers
type Triangle struct {
	mesh    *TriangleMesh
	indices [3]int
	bbox    core.AABB
	area    float64
}

func newTriangle(mesh *TriangleMesh, indices [3]int) *Triangle {
	p0 := mesh.vertices[indices[0]].Position
	p1 := mesh.vertices[indices[1]].Position
	p2 := mesh.vertices[indices[2]].Position
	area := 0.5 * p1.Subtract(p0).Cross(p2.Subtract(p0)).Length()
	return &Triangle{
		mesh:    mesh,
		indices: indices,
		bbox:    core.NewAABBFromPoints(p0, p1, p2),
		area:    area,
	}
}

// intersectRay runs the Moller-Trumbore test, returning t and the
// barycentric coordinates (u toward vertex 0)
func (tr *Triangle) intersectRay(ray core.Ray) (float64, float64, float64, float64, bool) {
	p0 := tr.mesh.vertices[tr.indices[0]].Position
	p1 := tr.mesh.vertices[tr.indices[1]].Position
	p2 := tr.mesh.vertices[tr.indices[2]].Position
	e1 := p1.Subtract(p0)
	e2 := p2.Subtract(p0)

	q := ray.Direction.Cross(e2)
	det := e1.Dot(q)
	if det == 0 {
		return 0, 0, 0, 0, false
	}
	invDet := 1.0 / det
	s := ray.Origin.Subtract(p0)
	v := s.Dot(q) * invDet
	if v < 0 {
		return 0, 0, 0, 0, false
	}
	r := s.Cross(e1)
	w := ray.Direction.Dot(r) * invDet
	u := 1.0 - v - w
	if w < 0 || u < 0 {
		return 0, 0, 0, 0, false
	}
	t := e2.Dot(r) * invDet
	return t, u, v, w, true
}

func (tr *Triangle) Intersect(ray core.Ray, inter *core.SurfaceInteraction) bool {
	t, u, v, w, ok := tr.intersectRay(ray)
	if !ok || t < core.TMinEps || t >= inter.T {
		return false
	}

	v0 := tr.mesh.vertices[tr.indices[0]]
	v1 := tr.mesh.vertices[tr.indices[1]]
	v2 := tr.mesh.vertices[tr.indices[2]]

	inter.T = t
	inter.Point = ray.At(t)
	inter.Normal = v0.Normal.Multiply(u).
		Add(v1.Normal.Multiply(v)).
		Add(v2.Normal.Multiply(w)).Normalize()
	inter.UV = core.NewVec2(
		v0.UV.X*u+v1.UV.X*v+v2.UV.X*w,
		v0.UV.Y*u+v1.UV.Y*v+v2.UV.Y*w,
	)
	inter.Tangent = v0.Tangent.Multiply(u).
		Add(v1.Tangent.Multiply(v)).
		Add(v2.Tangent.Multiply(w))
	inter.Bitangent = v0.Bitangent.Multiply(u).
		Add(v1.Bitangent.Multiply(v)).
		Add(v2.Bitangent.Multiply(w))
	inter.Primitive = tr
	return true
}

func (tr *Triangle) IntersectP(ray core.Ray, tMax float64) bool {
	t, _, _, _, ok := tr.intersectRay(ray)
	return ok && t > core.TMinEps && t < tMax
}

func (tr *Triangle) BoundingBox() core.AABB {
	return tr.bbox
}

// Sample picks a uniform point on the triangle
func (tr *Triangle) Sample(sampler core.Sampler) (core.SurfaceInteraction, float64) {
	bary := core.SampleUniformTriangle(sampler.Get2D())
	u, v := bary.X, bary.Y
	w := 1.0 - u - v

	v0 := tr.mesh.vertices[tr.indices[0]]
	v1 := tr.mesh.vertices[tr.indices[1]]
	v2 := tr.mesh.vertices[tr.indices[2]]

	inter := core.NewSurfaceInteraction()
	inter.Point = v0.Position.Multiply(u).
		Add(v1.Position.Multiply(v)).
		Add(v2.Position.Multiply(w))
	inter.Normal = v0.Normal.Multiply(u).
		Add(v1.Normal.Multiply(v)).
		Add(v2.Normal.Multiply(w)).Normalize()
	inter.UV = core.NewVec2(
		v0.UV.X*u+v1.UV.X*v+v2.UV.X*w,
		v0.UV.Y*u+v1.UV.Y*v+v2.UV.Y*w,
	)
	inter.Tangent = v0.Tangent.Multiply(u).
		Add(v1.Tangent.Multiply(v)).
		Add(v2.Tangent.Multiply(w))
	inter.Bitangent = v0.Bitangent.Multiply(u).
		Add(v1.Bitangent.Multiply(v)).
		Add(v2.Bitangent.Multiply(w))
	inter.Primitive = tr

	pdf := math.Inf(1)
	if tr.area > 0 {
		pdf = 1.0 / tr.area
	}
	return inter, pdf
}

func (tr *Triangle) PDF(inter *core.SurfaceInteraction) float64 {
	if tr.area <= 0 {
		return 0
	}
	return 1.0 / tr.area
}

// Area returns the triangle's surface area
func (tr *Triangle) Area() float64 {
	return tr.area
}
