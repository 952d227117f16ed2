package sbm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/sbmconv/pkg/encoding"
)

func TestEncode_Layout(t *testing.T) {
	data, err := Marshal(quadDocument())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	wantLen := HeaderSize + len("stone\x00") + MeshHeaderSize + 4*VertexSize + SubmeshHeaderSize + 6*IndexSize
	if len(data) != wantLen {
		t.Fatalf("encoded length = %d, want %d", len(data), wantLen)
	}

	if string(data[0:4]) != "SBM\x00" {
		t.Errorf("magic = %q", data[0:4])
	}
	le := binary.LittleEndian
	if v := int32(le.Uint32(data[4:])); v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
	if v := int32(le.Uint32(data[8:])); v != 1 {
		t.Errorf("material count = %d, want 1", v)
	}
	if v := int32(le.Uint32(data[12:])); v != 1 {
		t.Errorf("mesh count = %d, want 1", v)
	}

	off := HeaderSize
	if string(data[off:off+6]) != "stone\x00" {
		t.Errorf("material table = %q", data[off:off+6])
	}
	off += 6

	if v := int32(le.Uint32(data[off:])); v != 4 {
		t.Errorf("num_vertices = %d, want 4", v)
	}
	if v := int32(le.Uint32(data[off+4:])); v != 1 {
		t.Errorf("num_submeshes = %d, want 1", v)
	}
	off += MeshHeaderSize

	// Second vertex: position (1,0,0), normal (0,0,1), uv (1,0), tangent (1,0,0).
	second := data[off+VertexSize : off+2*VertexSize]
	wantFloats := []float32{1, 0, 0, 0, 0, 1, 1, 0, 1, 0, 0}
	for i, want := range wantFloats {
		got := math.Float32frombits(le.Uint32(second[i*4:]))
		if got != want {
			t.Errorf("vertex[1] float %d = %v, want %v", i, got, want)
		}
	}
	off += 4 * VertexSize

	if v := int32(le.Uint32(data[off:])); v != 6 {
		t.Errorf("num_indices = %d, want 6", v)
	}
	if v := int32(le.Uint32(data[off+4:])); v != 0 {
		t.Errorf("material_index = %d, want 0", v)
	}
	off += SubmeshHeaderSize

	wantIndices := []uint32{0, 1, 2, 0, 2, 3}
	for i, want := range wantIndices {
		if got := le.Uint32(data[off+i*4:]); got != want {
			t.Errorf("index %d = %d, want %d", i, got, want)
		}
	}
}

func TestEncode_MaterialTableOrder(t *testing.T) {
	doc := &Document{Materials: []string{"b", "", "a"}}
	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got := string(data[HeaderSize:]); got != "b\x00\x00a\x00" {
		t.Errorf("material table = %q, want %q", got, "b\x00\x00a\x00")
	}
}

func TestEncode_EmptySubmesh(t *testing.T) {
	doc := &Document{
		Materials: []string{"unused"},
		Meshes: []Mesh{
			{Submeshes: []Submesh{{MaterialIndex: 0}}},
		},
	}
	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	off := HeaderSize + len("unused\x00")
	want := []int32{0, 1, 0, 0} // mesh header, submesh header
	if len(data) != off+len(want)*4 {
		t.Fatalf("encoded length = %d, want %d", len(data), off+len(want)*4)
	}
	for i, w := range want {
		if got := int32(binary.LittleEndian.Uint32(data[off+i*4:])); got != w {
			t.Errorf("field %d = %d, want %d", i, got, w)
		}
	}
}

func TestEncode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name:    "NUL in material name",
			doc:     &Document{Materials: []string{"bad\x00name"}},
			wantErr: ErrNameContainsNUL,
		},
		{
			name: "dangling material index",
			doc: &Document{
				Materials: []string{"a"},
				Meshes:    []Mesh{{Submeshes: []Submesh{{MaterialIndex: 1}}}},
			},
			wantErr: ErrInvalidMaterialIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.doc)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

var errDiskFull = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestEncode_NameTableWriteError(t *testing.T) {
	// A name larger than the write buffer reaches the sink while the table
	// is being written.
	doc := &Document{Materials: []string{strings.Repeat("n", 8192)}}

	err := NewEncoder(failingWriter{}).Encode(doc)
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("got %v, want errDiskFull", err)
	}
	if !strings.Contains(err.Error(), "material 0") {
		t.Errorf("expected error to name the material, got %v", err)
	}
}

func TestEncode_ReleaseMeshes(t *testing.T) {
	doc := quadDocument()
	want, err := Marshal(quadDocument())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.ReleaseMeshes = true
	if err := enc.Encode(doc); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !bytes.Equal(buf.Bytes(), want) {
		t.Error("releasing meshes changed the encoded bytes")
	}
	if len(doc.Meshes) != 1 {
		t.Fatalf("expected mesh slot to remain, got %d meshes", len(doc.Meshes))
	}
	if doc.Meshes[0].Vertices != nil || doc.Meshes[0].Submeshes != nil {
		t.Error("expected mesh buffers to be released after writing")
	}
}

func TestEncode_NameCodec(t *testing.T) {
	codec, err := encoding.Lookup("euc-kr")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	doc := &Document{Materials: []string{"나무"}}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.Names = codec
	if err := enc.Encode(doc); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	table := buf.Bytes()[HeaderSize:]
	if want := []byte{0xb3, 0xaa, 0xb9, 0xab, 0x00}; !bytes.Equal(table, want) {
		t.Errorf("encoded name = % x, want % x", table, want)
	}

	parsed, err := ParseWithNames(buf.Bytes(), codec)
	if err != nil {
		t.Fatalf("ParseWithNames failed: %v", err)
	}
	if parsed.Materials[0] != "나무" {
		t.Errorf("decoded name = %q", parsed.Materials[0])
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.sbm")

	// Pre-existing longer content must be truncated.
	if err := os.WriteFile(path, bytes.Repeat([]byte{0xff}, 4096), 0644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	if err := WriteFile(path, quadDocument(), WriteOptions{}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want, _ := Marshal(quadDocument())
	if !bytes.Equal(data, want) {
		t.Errorf("file content differs from Marshal output (%d vs %d bytes)", len(data), len(want))
	}
}

func TestWriteFile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "output.sbm")
	if err := WriteFile(path, quadDocument(), WriteOptions{}); err == nil {
		t.Error("expected error creating file in missing directory")
	}
}
