package sbm

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMerge_Empty(t *testing.T) {
	_, err := Merge(&Document{Materials: []string{"a"}})
	if !errors.Is(err, ErrNothingToMerge) {
		t.Errorf("got %v, want ErrNothingToMerge", err)
	}
}

func TestMerge_SharedMaterials(t *testing.T) {
	tri := func(x float32) []Vertex {
		return []Vertex{
			{Position: mgl32.Vec3{x, 0, 0}},
			{Position: mgl32.Vec3{x + 1, 0, 0}},
			{Position: mgl32.Vec3{x, 1, 0}},
		}
	}

	doc := &Document{
		Materials: []string{"brick", "glass", "unused", "moss"},
		Meshes: []Mesh{
			{
				Vertices: tri(0),
				Submeshes: []Submesh{
					{MaterialIndex: 1, Indices: []uint32{0, 1, 2}},
				},
			},
			{
				Vertices: append(tri(10), tri(20)...),
				Submeshes: []Submesh{
					{MaterialIndex: 0, Indices: []uint32{0, 1, 2}},
					{MaterialIndex: 1, Indices: []uint32{3, 4, 5}},
					{MaterialIndex: 3},
				},
			},
		},
	}

	merged, err := Merge(doc)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	wantMaterials := []string{"glass", "brick", "moss"}
	if len(merged.Materials) != len(wantMaterials) {
		t.Fatalf("materials = %v, want %v", merged.Materials, wantMaterials)
	}
	for i := range wantMaterials {
		if merged.Materials[i] != wantMaterials[i] {
			t.Errorf("material %d = %q, want %q", i, merged.Materials[i], wantMaterials[i])
		}
	}

	if len(merged.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(merged.Meshes))
	}
	mesh := merged.Meshes[0]
	if len(mesh.Vertices) != 9 {
		t.Errorf("expected 9 vertices, got %d", len(mesh.Vertices))
	}
	if len(mesh.Submeshes) != 3 {
		t.Fatalf("expected 3 submeshes, got %d", len(mesh.Submeshes))
	}

	wantIndices := [][]uint32{
		{0, 1, 2, 6, 7, 8}, // glass: mesh 0 tri, then mesh 1 second tri offset by 3
		{3, 4, 5},          // brick
		nil,                // moss keeps its empty submesh
	}
	for k, sm := range mesh.Submeshes {
		if sm.MaterialIndex != uint32(k) {
			t.Errorf("submesh %d material = %d, want %d", k, sm.MaterialIndex, k)
		}
		if len(sm.Indices) != len(wantIndices[k]) {
			t.Errorf("submesh %d indices = %v, want %v", k, sm.Indices, wantIndices[k])
			continue
		}
		for i := range sm.Indices {
			if sm.Indices[i] != wantIndices[k][i] {
				t.Errorf("submesh %d indices = %v, want %v", k, sm.Indices, wantIndices[k])
				break
			}
		}
	}

	if err := merged.Validate(); err != nil {
		t.Errorf("merged document invalid: %v", err)
	}
	if len(doc.Meshes) != 2 || len(doc.Meshes[0].Vertices) != 3 {
		t.Error("Merge modified its input")
	}
}

func TestMerge_InvalidMaterial(t *testing.T) {
	doc := &Document{
		Materials: []string{"a"},
		Meshes:    []Mesh{{Submeshes: []Submesh{{MaterialIndex: 2}}}},
	}
	if _, err := Merge(doc); !errors.Is(err, ErrInvalidMaterialIndex) {
		t.Errorf("got %v, want ErrInvalidMaterialIndex", err)
	}
}

func TestMerge_IndexOutOfRange(t *testing.T) {
	doc := &Document{
		Materials: []string{"a"},
		Meshes: []Mesh{
			{
				Vertices:  make([]Vertex, 3),
				Submeshes: []Submesh{{MaterialIndex: 0, Indices: []uint32{0, 1, 3}}},
			},
			{
				Vertices:  make([]Vertex, 3),
				Submeshes: []Submesh{{MaterialIndex: 0, Indices: []uint32{0, 1, 2}}},
			},
		},
	}

	// Index 3 would otherwise land on the second mesh's first vertex.
	if _, err := Merge(doc); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("got %v, want ErrIndexOutOfRange", err)
	}
}
