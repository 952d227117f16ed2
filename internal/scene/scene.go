// Package scene defines the query interface the converter consumes from a
// scene import layer, plus an in-memory implementation of it.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene is an imported scene.
type Scene interface {
	// MeshNodes returns the nodes that carry a polygon mesh, in traversal order.
	MeshNodes() []MeshNode
}

// MeshNode is a scene node with a mesh and its material slots.
type MeshNode interface {
	Name() string
	MaterialCount() int
	// MaterialName returns the name of local material slot i.
	MaterialName(i int) string
	Mesh() Mesh
}

// Mesh exposes per-polygon-vertex attributes of a polygon mesh.
type Mesh interface {
	PolygonCount() int
	// PolygonSize returns the number of corners of polygon poly.
	PolygonSize(poly int) int
	// PolygonVertexIndex returns the flattened polygon-vertex index of the
	// first corner of poly.
	PolygonVertexIndex(poly int) int
	ControlPoint(index int) mgl32.Vec3
	// PolygonVertex returns the control point index used by a corner.
	PolygonVertex(poly, corner int) int
	PolygonVertexNormal(poly, corner int) mgl32.Vec3
	HasUVs() bool
	PolygonVertexUV(poly, corner int) mgl32.Vec2
	// Tangents returns nil when the mesh has no tangent data.
	Tangents() *TangentLayer
	// MaterialIndices maps polygons to local material slots. It may be
	// shorter than PolygonCount, in which case it is reused cyclically.
	MaterialIndices() []int
}

// MappingMode says which element a layer value is attached to.
type MappingMode int

const (
	MappingByPolygonVertex MappingMode = iota
	MappingByControlPoint
	MappingByPolygon
	MappingAllSame
)

// String returns a human-readable mapping mode name.
func (m MappingMode) String() string {
	switch m {
	case MappingByPolygonVertex:
		return "ByPolygonVertex"
	case MappingByControlPoint:
		return "ByControlPoint"
	case MappingByPolygon:
		return "ByPolygon"
	case MappingAllSame:
		return "AllSame"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ReferenceMode says how a mapped element finds its value.
type ReferenceMode int

const (
	ReferenceDirect        ReferenceMode = iota // Direct[element]
	ReferenceIndexToDirect                      // Direct[Index[element]]
)

// String returns a human-readable reference mode name.
func (r ReferenceMode) String() string {
	switch r {
	case ReferenceDirect:
		return "Direct"
	case ReferenceIndexToDirect:
		return "IndexToDirect"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// TangentLayer holds a mesh's tangent data.
type TangentLayer struct {
	Mapping   MappingMode
	Reference ReferenceMode
	Direct    []mgl32.Vec3
	Index     []int // Used with ReferenceIndexToDirect
}
