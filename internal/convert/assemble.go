package convert

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/sbmconv/internal/scene"
	"github.com/Faultbox/sbmconv/pkg/sbm"
)

// Conversion errors.
var (
	ErrNoMeshNodes          = errors.New("scene has no mesh nodes")
	ErrNoMaterialIndices    = errors.New("mesh has no material index data")
	ErrNoUVs                = errors.New("mesh has no UV data")
	ErrUnregisteredMaterial = errors.New("material missing from registry")
)

// MeshReport summarizes how one mesh was assembled.
type MeshReport struct {
	Name               string
	Vertices           int
	Triangles          int
	Submeshes          int
	DroppedPolygons    int
	DegeneratePolygons int
	Tangents           TangentStatus
}

// Assembler builds SBM meshes from scene nodes, resolving local material
// slots through a pre-populated registry.
type Assembler struct {
	registry *MaterialRegistry
	log      *zap.Logger
}

// NewAssembler returns an assembler that resolves materials through registry.
// A nil logger discards output.
func NewAssembler(registry *MaterialRegistry, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{registry: registry, log: log}
}

// Assemble triangulates a node's mesh into one SBM mesh with a submesh per
// local material slot. Slots without polygons still get an empty submesh.
func (a *Assembler) Assemble(node scene.MeshNode) (sbm.Mesh, MeshReport, error) {
	mesh := node.Mesh()
	numMaterials := node.MaterialCount()
	report := MeshReport{Name: node.Name(), Submeshes: numMaterials}

	if mesh.PolygonCount() > 0 {
		if len(mesh.MaterialIndices()) == 0 {
			return sbm.Mesh{}, report, fmt.Errorf("%w: %q", ErrNoMaterialIndices, node.Name())
		}
		if !mesh.HasUVs() {
			return sbm.Mesh{}, report, fmt.Errorf("%w: %q", ErrNoUVs, node.Name())
		}
	}

	globals := make([]uint32, numMaterials)
	for k := range globals {
		name := node.MaterialName(k)
		idx, ok := a.registry.Lookup(name)
		if !ok {
			// The registry pass covers every node, so this is a logic defect.
			return sbm.Mesh{}, report, fmt.Errorf("%w: %q slot %d material %q",
				ErrUnregisteredMaterial, node.Name(), k, name)
		}
		globals[k] = idx
	}

	tr := Triangulate(mesh, numMaterials)

	out := sbm.Mesh{
		Vertices:  tr.Vertices,
		Submeshes: make([]sbm.Submesh, numMaterials),
	}
	for k := range out.Submeshes {
		out.Submeshes[k] = sbm.Submesh{
			MaterialIndex: globals[k],
			Indices:       tr.Indices[k],
		}
	}

	report.Vertices = len(tr.Vertices)
	report.Triangles = tr.Triangles
	report.DroppedPolygons = tr.DroppedPolygons
	report.DegeneratePolygons = tr.DegeneratePolygons
	report.Tangents = tr.Tangents

	if tr.Tangents != TangentOK {
		a.log.Warn("Tangent data unusable, writing zero tangents",
			zap.String("mesh", report.Name),
			zap.Stringer("status", tr.Tangents))
	}
	if tr.DroppedPolygons > 0 {
		a.log.Debug("Dropped polygons without a matching material",
			zap.String("mesh", report.Name),
			zap.Int("count", tr.DroppedPolygons))
	}
	if tr.DegeneratePolygons > 0 {
		a.log.Debug("Skipped degenerate polygons",
			zap.String("mesh", report.Name),
			zap.Int("count", tr.DegeneratePolygons))
	}

	return out, report, nil
}
