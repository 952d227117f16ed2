package gltfscene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/sbmconv/internal/scene"
)

// primitiveData holds the attributes of one primitive, indexed by glTF vertex.
type primitiveData struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2
	tangents  []mgl32.Vec3
	indices   []uint32
}

func (imp *importer) addPrimitive(b *meshBuilder, slot int, prim *gltf.Primitive) error {
	switch prim.Mode {
	case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleFan, gltf.PrimitiveTriangleStrip:
	default:
		imp.log.Warn("Skipping non-triangle primitive",
			zap.Uint8("mode", uint8(prim.Mode)))
		return nil
	}

	data, err := imp.readPrimitive(prim)
	if err != nil {
		return err
	}
	for _, idx := range data.indices {
		if int(idx) >= len(data.positions) {
			return errors.Wrapf(ErrIndexOutOfRange, "index %d, %d vertices", idx, len(data.positions))
		}
	}

	polygons := assemblePolygons(prim.Mode, data.indices)
	triangles := triangleList(prim.Mode, data.indices)

	if data.normals == nil {
		imp.log.Warn("Primitive has no normals, generating smooth normals")
		data.normals = generateNormals(data.positions, triangles)
	}
	if data.tangents == nil && imp.opts.GenerateTangents {
		data.tangents = generateTangents(data.positions, data.normals, data.uvs, triangles)
	}
	if data.tangents == nil {
		b.tangentsComplete = false
	}

	base := len(b.mesh.ControlPoints)
	b.mesh.ControlPoints = append(b.mesh.ControlPoints, data.positions...)
	if data.tangents != nil {
		// Keep the direct array aligned with control points.
		if len(b.tangents) > base {
			b.tangents = b.tangents[:base]
		}
		for len(b.tangents) < base {
			b.tangents = append(b.tangents, mgl32.Vec3{})
		}
		b.tangents = append(b.tangents, data.tangents...)
	}

	for _, poly := range polygons {
		corners := make([]scene.Corner, len(poly))
		for j, v := range poly {
			corners[j] = scene.Corner{
				ControlPoint: base + int(v),
				Normal:       attr3(data.normals, v),
				UV:           attr2(data.uvs, v),
			}
			b.tangentIndex = append(b.tangentIndex, base+int(v))
		}
		b.mesh.AddPolygon(slot, corners...)
	}
	return nil
}

func (imp *importer) readPrimitive(prim *gltf.Primitive) (*primitiveData, error) {
	var data primitiveData

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, ErrNoPositions
	}
	acr, err := imp.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(imp.doc, acr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "read positions")
	}
	data.positions = toVec3(positions)

	uvIdx, ok := prim.Attributes["TEXCOORD_0"]
	if !ok {
		return nil, ErrNoUVs
	}
	if acr, err = imp.accessor(uvIdx); err != nil {
		return nil, err
	}
	uvs, err := modeler.ReadTextureCoord(imp.doc, acr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "read texture coordinates")
	}
	if err := checkCount("TEXCOORD_0", len(uvs), len(data.positions)); err != nil {
		return nil, err
	}
	data.uvs = make([]mgl32.Vec2, len(uvs))
	for i, uv := range uvs {
		data.uvs[i] = mgl32.Vec2(uv)
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if acr, err = imp.accessor(idx); err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(imp.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "read normals")
		}
		if err := checkCount("NORMAL", len(normals), len(data.positions)); err != nil {
			return nil, err
		}
		data.normals = toVec3(normals)
	}

	if idx, ok := prim.Attributes["TANGENT"]; ok {
		if acr, err = imp.accessor(idx); err != nil {
			return nil, err
		}
		tangents, err := modeler.ReadTangent(imp.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "read tangents")
		}
		if err := checkCount("TANGENT", len(tangents), len(data.positions)); err != nil {
			return nil, err
		}
		// W carries handedness, which SBM does not store.
		data.tangents = make([]mgl32.Vec3, len(tangents))
		for i, t := range tangents {
			data.tangents[i] = mgl32.Vec3{t[0], t[1], t[2]}
		}
	}

	if prim.Indices != nil {
		if acr, err = imp.accessor(*prim.Indices); err != nil {
			return nil, err
		}
		if data.indices, err = modeler.ReadIndices(imp.doc, acr, nil); err != nil {
			return nil, errors.Wrap(err, "read indices")
		}
	} else {
		data.indices = make([]uint32, len(data.positions))
		for i := range data.indices {
			data.indices[i] = uint32(i)
		}
	}

	return &data, nil
}

// checkCount rejects a vertex attribute whose element count differs from
// POSITION. glTF requires all attributes of a primitive to match.
func checkCount(name string, got, positions int) error {
	if got != positions {
		return errors.Wrapf(ErrAttributeCount, "%s has %d, POSITION has %d", name, got, positions)
	}
	return nil
}

func (imp *importer) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(imp.doc.Accessors) {
		return nil, errors.Wrapf(ErrInvalidReference, "accessor %d", idx)
	}
	return imp.doc.Accessors[idx], nil
}

// assemblePolygons groups primitive indices into polygons. A triangle fan is
// kept as a single polygon, since fan triangulation of it reproduces the
// original triangles.
func assemblePolygons(mode gltf.PrimitiveMode, indices []uint32) [][]uint32 {
	if mode == gltf.PrimitiveTriangleFan {
		if len(indices) < 3 {
			return nil
		}
		return [][]uint32{indices}
	}
	tris := triangleList(mode, indices)
	polys := make([][]uint32, 0, len(tris)/3)
	for i := 0; i+2 < len(tris); i += 3 {
		polys = append(polys, tris[i:i+3])
	}
	return polys
}

// triangleList expands indices into a flat triangle list.
func triangleList(mode gltf.PrimitiveMode, indices []uint32) []uint32 {
	n := len(indices)
	switch mode {
	case gltf.PrimitiveTriangleFan:
		var out []uint32
		for i := 1; i+1 < n; i++ {
			out = append(out, indices[0], indices[i], indices[i+1])
		}
		return out
	case gltf.PrimitiveTriangleStrip:
		var out []uint32
		for i := 0; i+2 < n; i++ {
			if i%2 == 0 {
				out = append(out, indices[i], indices[i+1], indices[i+2])
			} else {
				out = append(out, indices[i], indices[i+2], indices[i+1])
			}
		}
		return out
	default:
		return indices[:n-n%3]
	}
}

func toVec3(in [][3]float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(in))
	for i, v := range in {
		out[i] = mgl32.Vec3(v)
	}
	return out
}

func attr3(values []mgl32.Vec3, i uint32) mgl32.Vec3 {
	if int(i) < len(values) {
		return values[i]
	}
	return mgl32.Vec3{}
}

func attr2(values []mgl32.Vec2, i uint32) mgl32.Vec2 {
	if int(i) < len(values) {
		return values[i]
	}
	return mgl32.Vec2{}
}
