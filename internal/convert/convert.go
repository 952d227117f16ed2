package convert

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/sbmconv/internal/scene"
	"github.com/Faultbox/sbmconv/pkg/sbm"
)

// Stats summarizes a conversion.
type Stats struct {
	Meshes             int
	Materials          int
	Vertices           int
	Triangles          int
	DroppedPolygons    int
	DegeneratePolygons int
	TangentWarnings    int
	Reports            []MeshReport
}

// Converter runs the registry, triangulation and assembly passes over a scene.
type Converter struct {
	log *zap.Logger
}

// New returns a converter. A nil logger discards output.
func New(log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{log: log}
}

// RegisterMaterials registers every material of every node, node then slot
// order, so that index assignment only depends on traversal order.
func RegisterMaterials(registry *MaterialRegistry, nodes []scene.MeshNode) {
	for _, node := range nodes {
		for i := 0; i < node.MaterialCount(); i++ {
			registry.Register(node.MaterialName(i))
		}
	}
}

// Convert builds the complete document for s. Nothing is written; the caller
// hands the document to an sbm.Encoder.
func (c *Converter) Convert(s scene.Scene) (*sbm.Document, Stats, error) {
	var stats Stats

	nodes := s.MeshNodes()
	if len(nodes) == 0 {
		return nil, stats, ErrNoMeshNodes
	}

	registry := NewMaterialRegistry()
	RegisterMaterials(registry, nodes)
	c.log.Debug("Registered materials",
		zap.Int("meshes", len(nodes)),
		zap.Uint32("materials", registry.Count()))

	assembler := NewAssembler(registry, c.log)
	doc := &sbm.Document{
		Materials: registry.Names(),
		Meshes:    make([]sbm.Mesh, 0, len(nodes)),
	}

	for i, node := range nodes {
		mesh, report, err := assembler.Assemble(node)
		if err != nil {
			return nil, stats, fmt.Errorf("mesh %d: %w", i, err)
		}
		doc.Meshes = append(doc.Meshes, mesh)

		stats.Vertices += report.Vertices
		stats.Triangles += report.Triangles
		stats.DroppedPolygons += report.DroppedPolygons
		stats.DegeneratePolygons += report.DegeneratePolygons
		if report.Tangents != TangentOK {
			stats.TangentWarnings++
		}
		stats.Reports = append(stats.Reports, report)

		c.log.Debug("Assembled mesh",
			zap.String("name", report.Name),
			zap.Int("vertices", report.Vertices),
			zap.Int("triangles", report.Triangles),
			zap.Int("submeshes", report.Submeshes))
	}

	stats.Meshes = len(doc.Meshes)
	stats.Materials = len(doc.Materials)
	return doc, stats, nil
}
