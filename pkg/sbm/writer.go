package sbm

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Faultbox/sbmconv/pkg/encoding"
)

// WriteOptions controls how a document is serialized.
type WriteOptions struct {
	// Names encodes the material name table. The zero value writes UTF-8.
	Names encoding.Codec
	// ReleaseMeshes drops each mesh's buffers from the document right after
	// the mesh has been written.
	ReleaseMeshes bool
}

// Encoder writes SBM documents to an output stream.
type Encoder struct {
	w io.Writer
	WriteOptions
}

// NewEncoder returns an encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the whole document. The document must be complete; nothing
// is written incrementally across calls.
func (e *Encoder) Encode(doc *Document) error {
	numMaterials, err := count32(len(doc.Materials), "materials")
	if err != nil {
		return err
	}
	numMeshes, err := count32(len(doc.Meshes), "meshes")
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(e.w)

	header := Header{
		Version:      Version,
		NumMaterials: numMaterials,
		NumMeshes:    numMeshes,
	}
	copy(header.Magic[:], Magic)
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, name := range doc.Materials {
		data, err := e.Names.Encode(name)
		if err != nil {
			return fmt.Errorf("material %d: %w", i, err)
		}
		if bytes.IndexByte(data, 0) >= 0 {
			return fmt.Errorf("%w: material %d %q", ErrNameContainsNUL, i, name)
		}
		if _, err := bw.Write(data); err != nil {
			return fmt.Errorf("writing material %d: %w", i, err)
		}
		if err := bw.WriteByte(0); err != nil {
			return fmt.Errorf("writing material %d: %w", i, err)
		}
	}

	for i := range doc.Meshes {
		if err := encodeMesh(bw, &doc.Meshes[i], len(doc.Materials)); err != nil {
			return fmt.Errorf("mesh %d: %w", i, err)
		}
		if e.ReleaseMeshes {
			doc.Meshes[i] = Mesh{}
		}
	}

	return bw.Flush()
}

func encodeMesh(w io.Writer, mesh *Mesh, numMaterials int) error {
	numVertices, err := count32(len(mesh.Vertices), "vertices")
	if err != nil {
		return err
	}
	numSubmeshes, err := count32(len(mesh.Submeshes), "submeshes")
	if err != nil {
		return err
	}

	header := MeshHeader{NumVertices: numVertices, NumSubmeshes: numSubmeshes}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if len(mesh.Vertices) > 0 {
		if err := binary.Write(w, binary.LittleEndian, mesh.Vertices); err != nil {
			return fmt.Errorf("writing vertices: %w", err)
		}
	}

	for j := range mesh.Submeshes {
		sm := &mesh.Submeshes[j]
		if int64(sm.MaterialIndex) >= int64(numMaterials) {
			return fmt.Errorf("%w: submesh %d material %d, table has %d",
				ErrInvalidMaterialIndex, j, sm.MaterialIndex, numMaterials)
		}
		numIndices, err := count32(len(sm.Indices), "indices")
		if err != nil {
			return err
		}

		smHeader := SubmeshHeader{NumIndices: numIndices, MaterialIndex: int32(sm.MaterialIndex)}
		if err := binary.Write(w, binary.LittleEndian, &smHeader); err != nil {
			return fmt.Errorf("writing submesh %d header: %w", j, err)
		}
		if len(sm.Indices) > 0 {
			if err := binary.Write(w, binary.LittleEndian, sm.Indices); err != nil {
				return fmt.Errorf("writing submesh %d indices: %w", j, err)
			}
		}
	}
	return nil
}

// WriteFile creates (or truncates) path and writes the document to it.
func WriteFile(path string, doc *Document, opts WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	enc := NewEncoder(f)
	enc.WriteOptions = opts
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// Marshal returns the encoded form of the document.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func count32(n int, what string) (int32, error) {
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d %s", ErrTooLarge, n, what)
	}
	return int32(n), nil
}
