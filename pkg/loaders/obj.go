// Package loaders brings external assets into the renderer: Wavefront
// OBJ meshes and texture images.
package loaders

import (
	"fmt"

	"github.com/udhos/gwob"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
	"github.com/PepcyCh/simple-path-tracer/pkg/primitive"
)

// LoadOBJ reads a Wavefront OBJ file into a triangle mesh. Parser
// diagnostics go to the logger when one is given.
func LoadOBJ(path string, logger core.Logger) (*primitive.TriangleMesh, error) {
	obj, err := gwob.NewObjFromFile(path, parserOptions(logger))
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", path, err)
	}
	return meshFromObj(obj)
}

// ParseOBJ reads Wavefront OBJ data from a buffer into a triangle mesh
func ParseOBJ(name string, data []byte, logger core.Logger) (*primitive.TriangleMesh, error) {
	obj, err := gwob.NewObjFromBuf(name, data, parserOptions(logger))
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", name, err)
	}
	return meshFromObj(obj)
}

func parserOptions(logger core.Logger) *gwob.ObjParserOptions {
	options := &gwob.ObjParserOptions{}
	if logger != nil {
		options.LogStats = true
		options.Logger = func(msg string) {
			logger.Printf("%s", msg)
		}
	}
	return options
}

// meshFromObj unpacks gwob's interleaved vertex buffer. Missing normals
// are reconstructed from face geometry, area-weighted.
func meshFromObj(obj *gwob.Obj) (*primitive.TriangleMesh, error) {
	stride := obj.StrideSize / 4
	if stride <= 0 {
		return nil, fmt.Errorf("obj %q: empty vertex buffer", "mesh")
	}
	posOffset := obj.StrideOffsetPosition / 4
	normOffset := obj.StrideOffsetNormal / 4
	uvOffset := obj.StrideOffsetTexture / 4

	vertexCount := len(obj.Coord) / stride
	vertices := make([]primitive.MeshVertex, vertexCount)
	for i := 0; i < vertexCount; i++ {
		base := i * stride
		vertices[i].Position = core.NewVec3(
			obj.Coord64(base+posOffset),
			obj.Coord64(base+posOffset+1),
			obj.Coord64(base+posOffset+2),
		)
		if obj.NormCoordFound {
			vertices[i].Normal = core.NewVec3(
				obj.Coord64(base+normOffset),
				obj.Coord64(base+normOffset+1),
				obj.Coord64(base+normOffset+2),
			)
		}
		if obj.TextCoordFound {
			vertices[i].UV = core.NewVec2(
				obj.Coord64(base+uvOffset),
				obj.Coord64(base+uvOffset+1),
			)
		}
	}

	indices := make([]uint32, len(obj.Indices))
	for i, index := range obj.Indices {
		if index < 0 || index >= vertexCount {
			return nil, fmt.Errorf("obj index %d out of range", index)
		}
		indices[i] = uint32(index)
	}

	if !obj.NormCoordFound {
		accumulateNormals(vertices, indices)
	}

	return primitive.NewTriangleMesh(vertices, indices), nil
}

func accumulateNormals(vertices []primitive.MeshVertex, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		a := vertices[indices[i]].Position
		b := vertices[indices[i+1]].Position
		c := vertices[indices[i+2]].Position
		// Cross product length carries the area weight
		faceNormal := b.Subtract(a).Cross(c.Subtract(a))
		for k := 0; k < 3; k++ {
			v := &vertices[indices[i+k]]
			v.Normal = v.Normal.Add(faceNormal)
		}
	}
	for i := range vertices {
		if !vertices[i].Normal.IsZero() {
			vertices[i].Normal = vertices[i].Normal.Normalize()
		}
	}
}
