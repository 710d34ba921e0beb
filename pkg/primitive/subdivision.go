package primitive

import "github.com/PepcyCh/simple-path-tracer/pkg/core"

// MaxSubdivisionLevel caps subdivision depth; deeper requests are
// silently clamped
const MaxSubdivisionLevel = 6

// CatmullClark is a subdivision surface over a quad control mesh. The
// control cage is uniformly refined the requested number of times and the
// limit approximation is intersected through an internal BVH of
// triangles.
type CatmullClark struct {
	accel *BVH
	bbox  core.AABB
}

// NewCatmullClark subdivides the control cage and builds the aggregate
func NewCatmullClark(vertices []core.Vec3, quads [][4]int, levels int) *CatmullClark {
	if levels > MaxSubdivisionLevel {
		levels = MaxSubdivisionLevel
	}
	for i := 0; i < levels; i++ {
		vertices, quads = subdivideOnce(vertices, quads)
	}

	mesh := quadsToTriangleMesh(vertices, quads)
	accel := NewBVH(mesh.Triangles(), DefaultMaxLeafSize)
	return &CatmullClark{accel: accel, bbox: accel.BoundingBox()}
}

func (cc *CatmullClark) Intersect(ray core.Ray, inter *core.SurfaceInteraction) bool {
	return cc.accel.Intersect(ray, inter)
}

func (cc *CatmullClark) IntersectP(ray core.Ray, tMax float64) bool {
	return cc.accel.IntersectP(ray, tMax)
}

func (cc *CatmullClark) BoundingBox() core.AABB {
	return cc.bbox
}

func (cc *CatmullClark) Sample(sampler core.Sampler) (core.SurfaceInteraction, float64) {
	return cc.accel.Sample(sampler)
}

func (cc *CatmullClark) PDF(inter *core.SurfaceInteraction) float64 {
	return cc.accel.PDF(inter)
}

type subdivEdge struct {
	a, b int
}

func makeEdge(a, b int) subdivEdge {
	if a > b {
		a, b = b, a
	}
	return subdivEdge{a: a, b: b}
}

// subdivideOnce applies one Catmull-Clark refinement step: face points,
// edge points, then repositioned original vertices. Boundary edges use
// the crease rules.
func subdivideOnce(vertices []core.Vec3, quads [][4]int) ([]core.Vec3, [][4]int) {
	// Face points
	facePoints := make([]core.Vec3, len(quads))
	for fi, quad := range quads {
		sum := core.Vec3{}
		for _, vi := range quad {
			sum = sum.Add(vertices[vi])
		}
		facePoints[fi] = sum.Divide(4)
	}

	// Edge adjacency
	edgeFaces := make(map[subdivEdge][]int)
	for fi, quad := range quads {
		for k := 0; k < 4; k++ {
			e := makeEdge(quad[k], quad[(k+1)%4])
			edgeFaces[e] = append(edgeFaces[e], fi)
		}
	}

	// Edge points: interior edges average endpoints and both face points,
	// boundary edges use the midpoint
	edgePoints := make(map[subdivEdge]core.Vec3, len(edgeFaces))
	for e, faces := range edgeFaces {
		mid := vertices[e.a].Add(vertices[e.b]).Multiply(0.5)
		if len(faces) == 2 {
			fp := facePoints[faces[0]].Add(facePoints[faces[1]]).Multiply(0.5)
			edgePoints[e] = mid.Add(fp).Multiply(0.5)
		} else {
			edgePoints[e] = mid
		}
	}

	// New positions for the original vertices
	type vertexAccum struct {
		faceSum     core.Vec3
		faceCount   int
		edgeMidSum  core.Vec3
		edgeCount   int
		boundarySum core.Vec3
		boundaryCnt int
	}
	accum := make([]vertexAccum, len(vertices))
	for fi, quad := range quads {
		for _, vi := range quad {
			accum[vi].faceSum = accum[vi].faceSum.Add(facePoints[fi])
			accum[vi].faceCount++
		}
	}
	for e, faces := range edgeFaces {
		mid := vertices[e.a].Add(vertices[e.b]).Multiply(0.5)
		for _, vi := range []int{e.a, e.b} {
			accum[vi].edgeMidSum = accum[vi].edgeMidSum.Add(mid)
			accum[vi].edgeCount++
			if len(faces) == 1 {
				accum[vi].boundarySum = accum[vi].boundarySum.Add(mid)
				accum[vi].boundaryCnt++
			}
		}
	}

	newVertexPos := make([]core.Vec3, len(vertices))
	for vi := range vertices {
		a := accum[vi]
		if a.boundaryCnt > 0 {
			// Crease rule: weight the vertex against its boundary edge
			// midpoints
			newVertexPos[vi] = vertices[vi].Multiply(0.5).
				Add(a.boundarySum.Divide(float64(a.boundaryCnt)).Multiply(0.5))
			continue
		}
		if a.faceCount == 0 {
			newVertexPos[vi] = vertices[vi]
			continue
		}
		n := float64(a.faceCount)
		q := a.faceSum.Divide(n)
		r := a.edgeMidSum.Divide(float64(a.edgeCount))
		newVertexPos[vi] = q.Add(r.Multiply(2)).Add(vertices[vi].Multiply(n - 3)).Divide(n)
	}

	// Assemble the refined mesh: one quad per original-face corner
	newVertices := make([]core.Vec3, 0, len(vertices)+len(edgePoints)+len(quads))
	newVertices = append(newVertices, newVertexPos...)

	faceIndex := make([]int, len(quads))
	for fi := range quads {
		faceIndex[fi] = len(newVertices)
		newVertices = append(newVertices, facePoints[fi])
	}
	edgeIndex := make(map[subdivEdge]int, len(edgePoints))
	for e, p := range edgePoints {
		edgeIndex[e] = len(newVertices)
		newVertices = append(newVertices, p)
	}

	newQuads := make([][4]int, 0, len(quads)*4)
	for fi, quad := range quads {
		for k := 0; k < 4; k++ {
			prev := quad[(k+3)%4]
			curr := quad[k]
			next := quad[(k+1)%4]
			newQuads = append(newQuads, [4]int{
				curr,
				edgeIndex[makeEdge(curr, next)],
				faceIndex[fi],
				edgeIndex[makeEdge(prev, curr)],
			})
		}
	}
	return newVertices, newQuads
}

// quadsToTriangleMesh triangulates a quad mesh with area-weighted smooth
// normals
func quadsToTriangleMesh(vertices []core.Vec3, quads [][4]int) *TriangleMesh {
	normals := make([]core.Vec3, len(vertices))
	for _, quad := range quads {
		e1 := vertices[quad[1]].Subtract(vertices[quad[0]])
		e2 := vertices[quad[3]].Subtract(vertices[quad[0]])
		faceNormal := e1.Cross(e2)
		for _, vi := range quad {
			normals[vi] = normals[vi].Add(faceNormal)
		}
	}

	meshVertices := make([]MeshVertex, len(vertices))
	for i := range vertices {
		normal := normals[i].Normalize()
		if normal.IsZero() {
			normal = core.NewVec3(0, 1, 0)
		}
		meshVertices[i] = MeshVertex{Position: vertices[i], Normal: normal}
	}

	indices := make([]uint32, 0, len(quads)*6)
	for _, quad := range quads {
		indices = append(indices,
			uint32(quad[0]), uint32(quad[1]), uint32(quad[2]),
			uint32(quad[0]), uint32(quad[2]), uint32(quad[3]),
		)
	}
	return NewTriangleMesh(meshVertices, indices)
}
