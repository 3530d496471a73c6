package transform

import (
	"github.com/chewxy/math32"
)

// Mesh is the minimal triangle-mesh view the mapper needs: vertex
// positions, per-vertex normals and triangle indices. Geometry stays
// float32, matching what model files store.
type Mesh struct {
	Vertices [][3]float32
	Normals  [][3]float32
	Faces    [][3]int
}

// MirrorMesh mirrors a mesh across the YZ plane in place. Vertex X is
// negated, face winding is flipped so triangles stay front-facing, and
// normals are recomputed from the mirrored faces.
func MirrorMesh(m *Mesh) {
	for i := range m.Vertices {
		m.Vertices[i][0] = -m.Vertices[i][0]
	}
	for i := range m.Faces {
		m.Faces[i][1], m.Faces[i][2] = m.Faces[i][2], m.Faces[i][1]
	}
	RecomputeNormals(m)
}

// RecomputeNormals rebuilds per-vertex normals as the normalized sum of
// the face normals of all incident triangles.
func RecomputeNormals(m *Mesh) {
	normals := make([][3]float32, len(m.Vertices))
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		ab := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		ac := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n := cross(ab, ac)
		for _, vi := range f {
			normals[vi][0] += n[0]
			normals[vi][1] += n[1]
			normals[vi][2] += n[2]
		}
	}
	for i := range normals {
		normals[i] = normalize(normals[i])
	}
	m.Normals = normals
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float32) [3]float32 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
