// Package gltfscene imports glTF 2.0 documents as in-memory scenes.
//
// Every node reachable from the default scene that references a mesh becomes
// one mesh node. Primitives are merged into a single polygon mesh, with one
// local material slot per distinct primitive material. Node transforms are
// not applied; positions stay in mesh space.
package gltfscene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/sbmconv/internal/scene"
)

// Import errors.
var (
	ErrNoRootNode       = errors.New("document has no scene to import")
	ErrNoPositions      = errors.New("primitive has no POSITION attribute")
	ErrNoUVs            = errors.New("primitive has no TEXCOORD_0 attribute")
	ErrIndexOutOfRange  = errors.New("primitive index out of range")
	ErrInvalidReference = errors.New("invalid document reference")
	ErrAttributeCount   = errors.New("attribute count differs from POSITION count")
)

// DefaultMaterialName is used for primitives without a material when
// Options.DefaultMaterial is empty.
const DefaultMaterialName = "default"

// Options controls how a document is imported.
type Options struct {
	// DefaultMaterial names the slot of primitives without a material.
	DefaultMaterial string
	// GenerateTangents computes tangents for primitives that have none.
	// When false such meshes get no tangent layer.
	GenerateTangents bool
	// Logger receives import warnings. Nil discards them.
	Logger *zap.Logger
}

// Load opens a .gltf or .glb file and imports it.
func Load(path string, opts Options) (*scene.Memory, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return Import(doc, opts)
}

// Import converts doc into an in-memory scene.
func Import(doc *gltf.Document, opts Options) (*scene.Memory, error) {
	if opts.DefaultMaterial == "" {
		opts.DefaultMaterial = DefaultMaterialName
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	root, err := defaultScene(doc)
	if err != nil {
		return nil, err
	}

	imp := &importer{
		doc:     doc,
		opts:    opts,
		log:     opts.Logger,
		out:     &scene.Memory{},
		visited: make(map[uint32]bool),
	}
	for _, n := range root.Nodes {
		if err := imp.visit(n); err != nil {
			return nil, err
		}
	}
	return imp.out, nil
}

func defaultScene(doc *gltf.Document) (*gltf.Scene, error) {
	if len(doc.Scenes) == 0 {
		return nil, ErrNoRootNode
	}
	idx := uint32(0)
	if doc.Scene != nil {
		idx = *doc.Scene
	}
	if int(idx) >= len(doc.Scenes) {
		return nil, errors.Wrapf(ErrInvalidReference, "scene %d", idx)
	}
	s := doc.Scenes[idx]
	if len(s.Nodes) == 0 {
		return nil, ErrNoRootNode
	}
	return s, nil
}

type importer struct {
	doc     *gltf.Document
	opts    Options
	log     *zap.Logger
	out     *scene.Memory
	visited map[uint32]bool
}

// visit walks the node graph depth-first, parents before children.
func (imp *importer) visit(idx uint32) error {
	if int(idx) >= len(imp.doc.Nodes) {
		return errors.Wrapf(ErrInvalidReference, "node %d", idx)
	}
	if imp.visited[idx] {
		return nil
	}
	imp.visited[idx] = true

	node := imp.doc.Nodes[idx]
	if node.Mesh != nil {
		mn, err := imp.importMesh(idx, node)
		if err != nil {
			return err
		}
		imp.out.Nodes = append(imp.out.Nodes, mn)
	}

	for _, child := range node.Children {
		if err := imp.visit(child); err != nil {
			return err
		}
	}
	return nil
}

func (imp *importer) importMesh(idx uint32, node *gltf.Node) (*scene.MemoryNode, error) {
	if int(*node.Mesh) >= len(imp.doc.Meshes) {
		return nil, errors.Wrapf(ErrInvalidReference, "node %d mesh %d", idx, *node.Mesh)
	}
	mesh := imp.doc.Meshes[*node.Mesh]

	name := node.Name
	if name == "" {
		name = mesh.Name
	}
	if name == "" {
		name = fmt.Sprintf("node_%d", idx)
	}

	b := newMeshBuilder()
	for i, prim := range mesh.Primitives {
		material, err := imp.materialName(prim)
		if err != nil {
			return nil, errors.Wrapf(err, "node %q primitive %d", name, i)
		}
		if err := imp.addPrimitive(b, b.slot(material), prim); err != nil {
			return nil, errors.Wrapf(err, "node %q primitive %d", name, i)
		}
	}

	if !b.tangentsComplete && len(b.mesh.Polygons) > 0 {
		imp.log.Debug("Mesh has no tangent layer",
			zap.String("node", name))
	}

	return &scene.MemoryNode{
		NodeName:  name,
		Materials: b.materials,
		Geometry:  b.finish(),
	}, nil
}

func (imp *importer) materialName(prim *gltf.Primitive) (string, error) {
	if prim.Material == nil {
		return imp.opts.DefaultMaterial, nil
	}
	idx := *prim.Material
	if int(idx) >= len(imp.doc.Materials) {
		return "", errors.Wrapf(ErrInvalidReference, "material %d", idx)
	}
	if name := imp.doc.Materials[idx].Name; name != "" {
		return name, nil
	}
	return fmt.Sprintf("material_%d", idx), nil
}

// meshBuilder accumulates the primitives of one glTF mesh. Tangents are
// stored per control point and referenced per polygon-vertex.
type meshBuilder struct {
	mesh      *scene.MemoryMesh
	materials []string
	slots     map[string]int

	tangents         []mgl32.Vec3
	tangentIndex     []int
	tangentsComplete bool
}

func newMeshBuilder() *meshBuilder {
	return &meshBuilder{
		mesh:             &scene.MemoryMesh{UVs: []mgl32.Vec2{}},
		slots:            make(map[string]int),
		tangentsComplete: true,
	}
}

// slot returns the local slot for a material name, adding it on first use.
func (b *meshBuilder) slot(material string) int {
	if k, ok := b.slots[material]; ok {
		return k
	}
	k := len(b.materials)
	b.slots[material] = k
	b.materials = append(b.materials, material)
	return k
}

func (b *meshBuilder) finish() *scene.MemoryMesh {
	if b.tangentsComplete && len(b.mesh.Polygons) > 0 {
		b.mesh.TangentLayer = &scene.TangentLayer{
			Mapping:   scene.MappingByPolygonVertex,
			Reference: scene.ReferenceIndexToDirect,
			Direct:    b.tangents,
			Index:     b.tangentIndex,
		}
	}
	return b.mesh
}
