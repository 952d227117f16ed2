package sbm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/sbmconv/pkg/encoding"
)

// Parse parses SBM data with UTF-8 material names.
func Parse(data []byte) (*Document, error) {
	return ParseWithNames(data, encoding.UTF8)
}

// ParseFile parses an SBM file from disk.
func ParseFile(path string) (*Document, error) {
	return ParseFileWithNames(path, encoding.UTF8)
}

// ParseFileWithNames parses an SBM file whose material names use the given
// codec.
func ParseFileWithNames(path string, names encoding.Codec) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading SBM file: %w", err)
	}
	return ParseWithNames(data, names)
}

// Read parses a whole SBM stream.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading SBM stream: %w", err)
	}
	return Parse(data)
}

// ParseWithNames parses SBM data, decoding material names with the given codec.
func ParseWithNames(data []byte, names encoding.Codec) (*Document, error) {
	if len(data) < HeaderSize {
		return nil, ErrTruncated
	}

	r := bytes.NewReader(data)

	var header Header
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrTruncated, err)
	}
	if string(header.Magic[:]) != Magic {
		return nil, ErrInvalidMagic
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.Version)
	}
	if header.NumMaterials < 0 || header.NumMeshes < 0 {
		return nil, fmt.Errorf("%w: %d materials, %d meshes", ErrInvalidCount, header.NumMaterials, header.NumMeshes)
	}
	// Every name needs at least its terminator, every mesh its header.
	if int64(header.NumMaterials)+int64(header.NumMeshes)*MeshHeaderSize > int64(r.Len()) {
		return nil, ErrTruncated
	}

	doc := &Document{
		Materials: make([]string, header.NumMaterials),
		Meshes:    make([]Mesh, header.NumMeshes),
	}

	for i := range doc.Materials {
		raw, err := readCString(r)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		name, err := names.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		doc.Materials[i] = name
	}

	for i := range doc.Meshes {
		if err := parseMesh(r, &doc.Meshes[i], len(doc.Materials)); err != nil {
			return nil, fmt.Errorf("parsing mesh %d: %w", i, err)
		}
	}

	return doc, nil
}

// parseMesh parses one mesh block from the reader.
func parseMesh(r *bytes.Reader, mesh *Mesh, numMaterials int) error {
	var header MeshHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return ErrTruncated
	}
	if header.NumVertices < 0 || header.NumSubmeshes < 0 {
		return fmt.Errorf("%w: %d vertices, %d submeshes", ErrInvalidCount, header.NumVertices, header.NumSubmeshes)
	}

	if int64(header.NumVertices)*VertexSize > int64(r.Len()) {
		return ErrTruncated
	}
	mesh.Vertices = make([]Vertex, header.NumVertices)
	if len(mesh.Vertices) > 0 {
		if err := binary.Read(r, binary.LittleEndian, mesh.Vertices); err != nil {
			return ErrTruncated
		}
	}

	if int64(header.NumSubmeshes)*SubmeshHeaderSize > int64(r.Len()) {
		return ErrTruncated
	}
	mesh.Submeshes = make([]Submesh, header.NumSubmeshes)
	for j := range mesh.Submeshes {
		var smHeader SubmeshHeader
		if err := binary.Read(r, binary.LittleEndian, &smHeader); err != nil {
			return ErrTruncated
		}
		if smHeader.NumIndices < 0 {
			return fmt.Errorf("%w: submesh %d has %d indices", ErrInvalidCount, j, smHeader.NumIndices)
		}
		if smHeader.MaterialIndex < 0 || int(smHeader.MaterialIndex) >= numMaterials {
			return fmt.Errorf("%w: submesh %d material %d", ErrInvalidMaterialIndex, j, smHeader.MaterialIndex)
		}
		if int64(smHeader.NumIndices)*IndexSize > int64(r.Len()) {
			return ErrTruncated
		}

		sm := &mesh.Submeshes[j]
		sm.MaterialIndex = uint32(smHeader.MaterialIndex)
		sm.Indices = make([]uint32, smHeader.NumIndices)
		if len(sm.Indices) > 0 {
			if err := binary.Read(r, binary.LittleEndian, sm.Indices); err != nil {
				return ErrTruncated
			}
		}
	}

	return nil
}

// readCString reads a NUL-terminated byte string.
func readCString(r *bytes.Reader) ([]byte, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, ErrTruncated
		}
		if b == 0 {
			return buf, nil
		}
		buf = append(buf, b)
	}
}
