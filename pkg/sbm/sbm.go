// Package sbm reads and writes SBM ("simple binary mesh") files.
//
// An SBM file holds a global material name table followed by meshes. Each mesh
// owns one vertex buffer and one index list per material slot (a submesh).
// All multi-byte values are little-endian and records carry no padding.
package sbm

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Magic identifies an SBM file ("SBM" followed by NUL).
const Magic = "SBM\x00"

// Version is the only SBM version ever produced.
const Version int32 = 1

// Record sizes on the wire.
const (
	HeaderSize        = 16
	MeshHeaderSize    = 8
	SubmeshHeaderSize = 8
	VertexSize        = 44
	IndexSize         = 4
)

// SBM format errors.
var (
	ErrInvalidMagic         = errors.New("invalid SBM magic: expected 'SBM\\0'")
	ErrUnsupportedVersion   = errors.New("unsupported SBM version")
	ErrTruncated            = errors.New("truncated SBM data")
	ErrInvalidCount         = errors.New("invalid SBM element count")
	ErrInvalidMaterialIndex = errors.New("submesh references unknown material")
	ErrIndexOutOfRange      = errors.New("index references vertex outside mesh")
	ErrPartialTriangle      = errors.New("index count is not a multiple of 3")
	ErrNameContainsNUL      = errors.New("material name contains NUL byte")
	ErrTooLarge             = errors.New("element count exceeds int32 range")
	ErrNothingToMerge       = errors.New("document has no meshes to merge")
)

// Header is the fixed file header.
type Header struct {
	Magic        [4]byte
	Version      int32
	NumMaterials int32
	NumMeshes    int32
}

// MeshHeader precedes each mesh's vertex buffer.
type MeshHeader struct {
	NumVertices  int32
	NumSubmeshes int32
}

// SubmeshHeader precedes each submesh's index list.
type SubmeshHeader struct {
	NumIndices    int32
	MaterialIndex int32
}

// Vertex is one polygon-vertex record.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
	Tangent  mgl32.Vec3
}

// Submesh is the set of triangles of a mesh that share one material.
type Submesh struct {
	MaterialIndex uint32   // Index into Document.Materials
	Indices       []uint32 // Triangle list into the owning mesh's Vertices
}

// TriangleCount returns the number of whole triangles in the index list.
func (s *Submesh) TriangleCount() int {
	return len(s.Indices) / 3
}

// Mesh is one vertex buffer partitioned into per-material submeshes.
type Mesh struct {
	Vertices  []Vertex
	Submeshes []Submesh // Indexed by local material slot
}

// Header returns the on-disk header for the mesh.
func (m *Mesh) Header() MeshHeader {
	return MeshHeader{
		NumVertices:  int32(len(m.Vertices)),
		NumSubmeshes: int32(len(m.Submeshes)),
	}
}

// Document is the full content of an SBM file.
type Document struct {
	Materials []string // Global material table, index order
	Meshes    []Mesh
}

// TotalVertexCount returns the number of vertices across all meshes.
func (d *Document) TotalVertexCount() int {
	total := 0
	for i := range d.Meshes {
		total += len(d.Meshes[i].Vertices)
	}
	return total
}

// TotalTriangleCount returns the number of triangles across all submeshes.
func (d *Document) TotalTriangleCount() int {
	total := 0
	for i := range d.Meshes {
		for j := range d.Meshes[i].Submeshes {
			total += d.Meshes[i].Submeshes[j].TriangleCount()
		}
	}
	return total
}

// MaterialName returns the name of a global material index.
func (d *Document) MaterialName(index uint32) (string, bool) {
	if int64(index) >= int64(len(d.Materials)) {
		return "", false
	}
	return d.Materials[index], true
}

// Validate checks the cross references inside the document: every submesh
// material exists, every index addresses a vertex of its mesh and every index
// list holds whole triangles.
func (d *Document) Validate() error {
	for i := range d.Meshes {
		mesh := &d.Meshes[i]
		for j := range mesh.Submeshes {
			sm := &mesh.Submeshes[j]
			if _, ok := d.MaterialName(sm.MaterialIndex); !ok {
				return fmt.Errorf("%w: mesh %d submesh %d material %d", ErrInvalidMaterialIndex, i, j, sm.MaterialIndex)
			}
			if len(sm.Indices)%3 != 0 {
				return fmt.Errorf("%w: mesh %d submesh %d has %d indices", ErrPartialTriangle, i, j, len(sm.Indices))
			}
			for k, idx := range sm.Indices {
				if int64(idx) >= int64(len(mesh.Vertices)) {
					return fmt.Errorf("%w: mesh %d submesh %d index[%d]=%d, %d vertices",
						ErrIndexOutOfRange, i, j, k, idx, len(mesh.Vertices))
				}
			}
		}
	}
	return nil
}
