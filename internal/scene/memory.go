package scene

import "github.com/go-gl/mathgl/mgl32"

// Memory is a Scene held entirely in memory.
type Memory struct {
	Nodes []*MemoryNode
}

// MeshNodes returns every node that has geometry.
func (m *Memory) MeshNodes() []MeshNode {
	nodes := make([]MeshNode, 0, len(m.Nodes))
	for _, n := range m.Nodes {
		if n.Geometry != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// AddNode appends a node with the given material slots and an empty mesh.
func (m *Memory) AddNode(name string, materials ...string) *MemoryNode {
	node := &MemoryNode{
		NodeName:  name,
		Materials: materials,
		Geometry:  &MemoryMesh{UVs: []mgl32.Vec2{}},
	}
	m.Nodes = append(m.Nodes, node)
	return node
}

// MemoryNode is a MeshNode held in memory.
type MemoryNode struct {
	NodeName  string
	Materials []string
	Geometry  *MemoryMesh
}

func (n *MemoryNode) Name() string              { return n.NodeName }
func (n *MemoryNode) MaterialCount() int        { return len(n.Materials) }
func (n *MemoryNode) MaterialName(i int) string { return n.Materials[i] }
func (n *MemoryNode) Mesh() Mesh                { return n.Geometry }

// Corner describes one polygon-vertex for AddPolygon.
type Corner struct {
	ControlPoint int
	Normal       mgl32.Vec3
	UV           mgl32.Vec2
}

// MemoryMesh is a Mesh held in memory. Normals and UVs are stored per
// polygon-vertex in flattened order; a nil UVs slice means the mesh has no
// UV data.
type MemoryMesh struct {
	ControlPoints []mgl32.Vec3
	Polygons      [][]int // Control point index per corner
	Normals       []mgl32.Vec3
	UVs           []mgl32.Vec2
	TangentLayer  *TangentLayer
	MaterialIndex []int

	starts []int
}

// AddPolygon appends a polygon assigned to a material slot.
func (m *MemoryMesh) AddPolygon(material int, corners ...Corner) {
	poly := make([]int, len(corners))
	for i, c := range corners {
		poly[i] = c.ControlPoint
		m.Normals = append(m.Normals, c.Normal)
		if m.UVs != nil {
			m.UVs = append(m.UVs, c.UV)
		}
	}
	m.Polygons = append(m.Polygons, poly)
	m.MaterialIndex = append(m.MaterialIndex, material)
	m.starts = nil
}

// PolygonVertexCount returns the total number of polygon-vertices.
func (m *MemoryMesh) PolygonVertexCount() int {
	n := 0
	for _, p := range m.Polygons {
		n += len(p)
	}
	return n
}

func (m *MemoryMesh) PolygonCount() int        { return len(m.Polygons) }
func (m *MemoryMesh) PolygonSize(poly int) int { return len(m.Polygons[poly]) }

func (m *MemoryMesh) PolygonVertexIndex(poly int) int {
	if len(m.starts) != len(m.Polygons) {
		m.starts = make([]int, len(m.Polygons))
		next := 0
		for i, p := range m.Polygons {
			m.starts[i] = next
			next += len(p)
		}
	}
	return m.starts[poly]
}

func (m *MemoryMesh) ControlPoint(index int) mgl32.Vec3 { return m.ControlPoints[index] }

func (m *MemoryMesh) PolygonVertex(poly, corner int) int { return m.Polygons[poly][corner] }

func (m *MemoryMesh) PolygonVertexNormal(poly, corner int) mgl32.Vec3 {
	i := m.PolygonVertexIndex(poly) + corner
	if i >= len(m.Normals) {
		return mgl32.Vec3{}
	}
	return m.Normals[i]
}

func (m *MemoryMesh) HasUVs() bool { return m.UVs != nil }

func (m *MemoryMesh) PolygonVertexUV(poly, corner int) mgl32.Vec2 {
	i := m.PolygonVertexIndex(poly) + corner
	if i >= len(m.UVs) {
		return mgl32.Vec2{}
	}
	return m.UVs[i]
}

func (m *MemoryMesh) Tangents() *TangentLayer { return m.TangentLayer }
func (m *MemoryMesh) MaterialIndices() []int  { return m.MaterialIndex }
