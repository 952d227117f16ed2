package convert

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/sbmconv/internal/scene"
	"github.com/Faultbox/sbmconv/pkg/sbm"
)

// TangentStatus reports how tangent data was resolved for a mesh.
type TangentStatus int

const (
	TangentOK                 TangentStatus = iota
	TangentMissing                          // No tangent layer; zero tangents written
	TangentUnsupportedMapping               // Layer not mapped per polygon-vertex; zero tangents written
	TangentOutOfRange                       // Some lookups fell outside the layer; those corners got zero tangents
)

// String returns a human-readable status name.
func (s TangentStatus) String() string {
	switch s {
	case TangentOK:
		return "OK"
	case TangentMissing:
		return "Missing"
	case TangentUnsupportedMapping:
		return "UnsupportedMapping"
	case TangentOutOfRange:
		return "OutOfRange"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Triangulation is the output of Triangulate for one mesh.
type Triangulation struct {
	Vertices []sbm.Vertex
	Indices  [][]uint32 // One index list per local material slot

	Triangles          int
	DroppedPolygons    int // Material slot outside the mesh's materials
	DegeneratePolygons int // Fewer than three corners
	Tangents           TangentStatus
}

// Triangulate buckets the polygons of mesh by local material slot and
// fan-triangulates each one. Every polygon-vertex becomes its own vertex;
// nothing is welded. Vertices are appended slot by slot, so the buffer holds
// slot 0's corners first, then slot 1's, and so on.
//
// Fan triangulation keeps the source winding but is only correct for convex
// polygons.
func Triangulate(mesh scene.Mesh, numMaterials int) Triangulation {
	tr := Triangulation{Indices: make([][]uint32, numMaterials)}

	// Bucket polygons per slot, preserving polygon order within a slot.
	slots := make([][]int, numMaterials)
	matIndices := mesh.MaterialIndices()
	numPolys := mesh.PolygonCount()
	for i := 0; i < numPolys; i++ {
		if len(matIndices) == 0 {
			tr.DroppedPolygons++
			continue
		}
		k := matIndices[i%len(matIndices)]
		if k < 0 || k >= numMaterials {
			tr.DroppedPolygons++
			continue
		}
		slots[k] = append(slots[k], i)
	}

	tangents := newTangentResolver(mesh.Tangents())
	tr.Tangents = tangents.status

	for k, polys := range slots {
		for _, i := range polys {
			n := mesh.PolygonSize(i)
			if n <= 2 {
				tr.DegeneratePolygons++
				continue
			}

			base := uint32(len(tr.Vertices))
			first := mesh.PolygonVertexIndex(i)
			for j := 0; j < n; j++ {
				tr.Vertices = append(tr.Vertices, sbm.Vertex{
					Position: mesh.ControlPoint(mesh.PolygonVertex(i, j)),
					Normal:   mesh.PolygonVertexNormal(i, j),
					TexCoord: mesh.PolygonVertexUV(i, j),
					Tangent:  tangents.at(first + j),
				})
			}

			for j := uint32(1); j < uint32(n-1); j++ {
				tr.Indices[k] = append(tr.Indices[k], base, base+j, base+j+1)
			}
			tr.Triangles += n - 2
		}
	}

	if tangents.status == TangentOK && tangents.misses > 0 {
		tr.Tangents = TangentOutOfRange
	}
	return tr
}

// tangentResolver looks up per-polygon-vertex tangents, falling back to a
// zero tangent whenever the layer cannot answer.
type tangentResolver struct {
	layer  *scene.TangentLayer
	status TangentStatus
	misses int
}

func newTangentResolver(layer *scene.TangentLayer) *tangentResolver {
	r := &tangentResolver{layer: layer}
	switch {
	case layer == nil:
		r.status = TangentMissing
	case layer.Mapping != scene.MappingByPolygonVertex:
		r.status = TangentUnsupportedMapping
	case layer.Reference != scene.ReferenceDirect && layer.Reference != scene.ReferenceIndexToDirect:
		r.status = TangentUnsupportedMapping
	}
	return r
}

func (r *tangentResolver) at(flat int) mgl32.Vec3 {
	if r.status != TangentOK {
		return mgl32.Vec3{}
	}

	idx := flat
	if r.layer.Reference == scene.ReferenceIndexToDirect {
		if flat < 0 || flat >= len(r.layer.Index) {
			r.misses++
			return mgl32.Vec3{}
		}
		idx = r.layer.Index[flat]
	}
	if idx < 0 || idx >= len(r.layer.Direct) {
		r.misses++
		return mgl32.Vec3{}
	}
	return r.layer.Direct[idx]
}
