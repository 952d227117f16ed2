package gltfscene

import "github.com/go-gl/mathgl/mgl32"

const degenerateLength = 1e-6

// generateNormals returns smooth per-vertex normals, accumulating
// area-weighted face normals over every triangle that uses a vertex.
// Vertices that end up with no usable normal point up.
func generateNormals(positions []mgl32.Vec3, triangles []uint32) []mgl32.Vec3 {
	n := len(positions)
	accum := make([]mgl32.Vec3, n)

	for i := 0; i+2 < len(triangles); i += 3 {
		i0, i1, i2 := triangles[i], triangles[i+1], triangles[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}
		p0 := positions[i0]
		face := positions[i1].Sub(p0).Cross(positions[i2].Sub(p0))
		accum[i0] = accum[i0].Add(face)
		accum[i1] = accum[i1].Add(face)
		accum[i2] = accum[i2].Add(face)
	}

	for i, a := range accum {
		if a.Len() < degenerateLength {
			accum[i] = mgl32.Vec3{0, 1, 0}
			continue
		}
		accum[i] = a.Normalize()
	}
	return accum
}

// generateTangents derives per-vertex tangents from UV gradients and
// orthonormalizes them against the vertex normal (Gram-Schmidt). Vertices
// whose tangent degenerates get +X.
func generateTangents(positions, normals []mgl32.Vec3, uvs []mgl32.Vec2, triangles []uint32) []mgl32.Vec3 {
	n := len(positions)
	accum := make([]mgl32.Vec3, n)

	for i := 0; i+2 < len(triangles); i += 3 {
		i0, i1, i2 := triangles[i], triangles[i+1], triangles[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}
		if int(i0) >= len(uvs) || int(i1) >= len(uvs) || int(i2) >= len(uvs) {
			continue
		}

		edge1 := positions[i1].Sub(positions[i0])
		edge2 := positions[i2].Sub(positions[i0])
		duv1 := uvs[i1].Sub(uvs[i0])
		duv2 := uvs[i2].Sub(uvs[i0])

		det := duv1.X()*duv2.Y() - duv1.Y()*duv2.X()
		if det == 0 {
			continue
		}
		t := edge1.Mul(duv2.Y()).Sub(edge2.Mul(duv1.Y())).Mul(1 / det)

		accum[i0] = accum[i0].Add(t)
		accum[i1] = accum[i1].Add(t)
		accum[i2] = accum[i2].Add(t)
	}

	for i, t := range accum {
		var normal mgl32.Vec3
		if i < len(normals) {
			normal = normals[i]
		}
		ortho := t.Sub(normal.Mul(normal.Dot(t)))
		if ortho.Len() < degenerateLength {
			accum[i] = mgl32.Vec3{1, 0, 0}
			continue
		}
		accum[i] = ortho.Normalize()
	}
	return accum
}
