// Package models holds the triangle meshes placed in grid cells as props.
// Meshes are built in code or loaded from glTF and are rendered by the scene
// renderer in cell-local coordinates: Y up, base at y = 0.
package models

import (
	"fmt"
	"math"

	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/render"
)

// Mesh is an indexed triangle list with per-face materials.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Faces     []Face
	Materials []Material

	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Vertex holds the attributes of one mesh vertex.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is a triangle. Material indexes Mesh.Materials, -1 for none.
type Face struct {
	V        [3]int
	Material int
}

// Material is the flat color and optional texture of a group of faces.
type Material struct {
	Name    string
	Color   render.Color
	Texture *render.Texture
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(pos math3d.Vec3, uv math3d.Vec2) int {
	m.Vertices = append(m.Vertices, Vertex{Position: pos, UV: uv})
	return len(m.Vertices) - 1
}

// AddFace appends a triangle using material mat.
func (m *Mesh) AddFace(a, b, c, mat int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}, Material: mat})
}

// Validate checks that every face references existing vertices.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		for _, v := range f.V {
			if v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("mesh %q face %d: vertex index %d out of range", m.Name, i, v)
			}
		}
	}
	return nil
}

// CalculateBounds recomputes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}
	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceNormal returns the unit normal of face i. Counter-clockwise faces
// (seen from outside) point outward.
func (m *Mesh) FaceNormal(i int) math3d.Vec3 {
	f := m.Faces[i]
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}

// CalculateNormals sets each vertex normal to the area-weighted average of
// the faces that share it.
func (m *Mesh) CalculateNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}
	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Transform applies mat to every vertex and refreshes the bounds.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// FitToCell rescales and moves the mesh so its larger horizontal extent
// equals size, it is centered on the origin in X and Z, and its lowest
// point rests on y = 0.
func (m *Mesh) FitToCell(size float64) {
	m.CalculateBounds()
	s := m.Size()
	extent := math.Max(s.X, s.Z)
	if extent <= 0 {
		return
	}
	k := size / extent
	c := m.Center()
	for i := range m.Vertices {
		p := m.Vertices[i].Position
		m.Vertices[i].Position = math3d.V3(
			(p.X-c.X)*k,
			(p.Y-m.BoundsMin.Y)*k,
			(p.Z-c.Z)*k,
		)
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh. Material textures are shared.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]Vertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetVertex returns the position, normal and UV of vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices of face i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material index of face i, or -1.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns material i, or nil when i is out of range.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// FaceColor returns the material color of face i, or fallback when the
// face has no material.
func (m *Mesh) FaceColor(i int, fallback render.Color) render.Color {
	if mat := m.GetMaterial(m.Faces[i].Material); mat != nil {
		return mat.Color
	}
	return fallback
}

// FaceTexture returns the material texture of face i, if any.
func (m *Mesh) FaceTexture(i int) *render.Texture {
	if mat := m.GetMaterial(m.Faces[i].Material); mat != nil {
		return mat.Texture
	}
	return nil
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (lo, hi math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
