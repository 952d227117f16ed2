package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMemory_MeshNodes(t *testing.T) {
	s := &Memory{}
	s.AddNode("a", "m0")
	s.Nodes = append(s.Nodes, &MemoryNode{NodeName: "empty"})
	s.AddNode("b")

	nodes := s.MeshNodes()
	if len(nodes) != 2 {
		t.Fatalf("expected 2 mesh nodes, got %d", len(nodes))
	}
	if nodes[0].Name() != "a" || nodes[1].Name() != "b" {
		t.Errorf("unexpected order: %s, %s", nodes[0].Name(), nodes[1].Name())
	}
	if nodes[0].MaterialCount() != 1 || nodes[0].MaterialName(0) != "m0" {
		t.Errorf("unexpected materials on node a")
	}
}

func TestMemoryMesh_PolygonVertexIndex(t *testing.T) {
	node := (&Memory{}).AddNode("n", "m")
	mesh := node.Geometry
	mesh.ControlPoints = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

	mesh.AddPolygon(0, Corner{ControlPoint: 0}, Corner{ControlPoint: 1}, Corner{ControlPoint: 2})
	mesh.AddPolygon(0,
		Corner{ControlPoint: 0, UV: mgl32.Vec2{0, 0}},
		Corner{ControlPoint: 2, UV: mgl32.Vec2{1, 1}},
		Corner{ControlPoint: 3, UV: mgl32.Vec2{0, 1}, Normal: mgl32.Vec3{0, 0, 1}},
	)

	if got := mesh.PolygonVertexIndex(1); got != 3 {
		t.Errorf("PolygonVertexIndex(1) = %d, want 3", got)
	}
	if got := mesh.PolygonVertexCount(); got != 6 {
		t.Errorf("PolygonVertexCount = %d, want 6", got)
	}
	if got := mesh.PolygonVertex(1, 2); got != 3 {
		t.Errorf("PolygonVertex(1, 2) = %d, want 3", got)
	}
	if got := mesh.PolygonVertexUV(1, 1); got != (mgl32.Vec2{1, 1}) {
		t.Errorf("PolygonVertexUV(1, 1) = %v", got)
	}
	if got := mesh.PolygonVertexNormal(1, 2); got != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("PolygonVertexNormal(1, 2) = %v", got)
	}

	// Adding a polygon invalidates the cached starts.
	mesh.AddPolygon(0, Corner{}, Corner{}, Corner{})
	if got := mesh.PolygonVertexIndex(2); got != 6 {
		t.Errorf("PolygonVertexIndex(2) = %d, want 6", got)
	}
}

func TestMemoryMesh_NoUVs(t *testing.T) {
	mesh := &MemoryMesh{}
	mesh.AddPolygon(0, Corner{}, Corner{}, Corner{})
	if mesh.HasUVs() {
		t.Error("expected HasUVs to be false")
	}
	if uv := mesh.PolygonVertexUV(0, 0); uv != (mgl32.Vec2{}) {
		t.Errorf("expected zero UV, got %v", uv)
	}
}

func TestModeStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{MappingByPolygonVertex.String(), "ByPolygonVertex"},
		{MappingByControlPoint.String(), "ByControlPoint"},
		{MappingMode(42).String(), "Unknown(42)"},
		{ReferenceDirect.String(), "Direct"},
		{ReferenceIndexToDirect.String(), "IndexToDirect"},
		{ReferenceMode(9).String(), "Unknown(9)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
