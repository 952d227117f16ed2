package sbm

import (
	"fmt"
	"math"
)

// Merge collapses every mesh of doc into a single mesh. Submeshes that use
// the same material name are joined; the material table of the result holds
// exactly the referenced names in first-seen order, and submesh k uses
// material k. doc is not modified.
func Merge(doc *Document) (*Document, error) {
	if len(doc.Meshes) == 0 {
		return nil, ErrNothingToMerge
	}

	out := &Document{}
	var merged Mesh
	slots := make(map[string]int)

	for i := range doc.Meshes {
		mesh := &doc.Meshes[i]
		if uint64(len(merged.Vertices))+uint64(len(mesh.Vertices)) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: merged vertex count", ErrTooLarge)
		}
		base := uint32(len(merged.Vertices))
		merged.Vertices = append(merged.Vertices, mesh.Vertices...)

		for j := range mesh.Submeshes {
			sm := &mesh.Submeshes[j]
			name, ok := doc.MaterialName(sm.MaterialIndex)
			if !ok {
				return nil, fmt.Errorf("%w: mesh %d submesh %d material %d", ErrInvalidMaterialIndex, i, j, sm.MaterialIndex)
			}

			k, ok := slots[name]
			if !ok {
				k = len(out.Materials)
				slots[name] = k
				out.Materials = append(out.Materials, name)
				merged.Submeshes = append(merged.Submeshes, Submesh{MaterialIndex: uint32(k)})
			}

			dst := &merged.Submeshes[k]
			for n, idx := range sm.Indices {
				if int64(idx) >= int64(len(mesh.Vertices)) {
					return nil, fmt.Errorf("%w: mesh %d submesh %d index[%d]=%d, %d vertices",
						ErrIndexOutOfRange, i, j, n, idx, len(mesh.Vertices))
				}
				dst.Indices = append(dst.Indices, base+idx)
			}
		}
	}

	out.Meshes = []Mesh{merged}
	return out, nil
}
