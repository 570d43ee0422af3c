package models

import (
	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/render"
)

// NewBoxMesh builds a box of the given width (X), height (Y) and depth (Z)
// centered on the origin in X and Z with its base at y = 0. Faces wind
// counter-clockwise seen from outside.
func NewBoxMesh(w, h, d float64, c render.Color) *Mesh {
	m := NewMesh("box")
	m.Materials = []Material{{Name: "box", Color: c}}

	x0, x1 := -w/2, w/2
	z0, z1 := -d/2, d/2

	quad := func(a, b, cc, dd math3d.Vec3) {
		i0 := m.AddVertex(a, math3d.V2(0, 0))
		i1 := m.AddVertex(b, math3d.V2(1, 0))
		i2 := m.AddVertex(cc, math3d.V2(1, 1))
		i3 := m.AddVertex(dd, math3d.V2(0, 1))
		m.AddFace(i0, i1, i2, 0)
		m.AddFace(i0, i2, i3, 0)
	}

	quad(math3d.V3(x0, 0, z1), math3d.V3(x1, 0, z1), math3d.V3(x1, h, z1), math3d.V3(x0, h, z1)) // +Z
	quad(math3d.V3(x1, 0, z0), math3d.V3(x0, 0, z0), math3d.V3(x0, h, z0), math3d.V3(x1, h, z0)) // -Z
	quad(math3d.V3(x1, 0, z1), math3d.V3(x1, 0, z0), math3d.V3(x1, h, z0), math3d.V3(x1, h, z1)) // +X
	quad(math3d.V3(x0, 0, z0), math3d.V3(x0, 0, z1), math3d.V3(x0, h, z1), math3d.V3(x0, h, z0)) // -X
	quad(math3d.V3(x0, h, z1), math3d.V3(x1, h, z1), math3d.V3(x1, h, z0), math3d.V3(x0, h, z0)) // top
	quad(math3d.V3(x0, 0, z0), math3d.V3(x1, 0, z0), math3d.V3(x1, 0, z1), math3d.V3(x0, 0, z1)) // bottom

	m.CalculateNormals()
	m.CalculateBounds()
	return m
}

// NewPyramidMesh builds a square pyramid with base side size and the given
// height, apex up.
func NewPyramidMesh(size, h float64, c render.Color) *Mesh {
	m := NewMesh("pyramid")
	m.Materials = []Material{{Name: "pyramid", Color: c}}

	s := size / 2
	b0 := m.AddVertex(math3d.V3(-s, 0, s), math3d.V2(0, 0))
	b1 := m.AddVertex(math3d.V3(s, 0, s), math3d.V2(1, 0))
	b2 := m.AddVertex(math3d.V3(s, 0, -s), math3d.V2(1, 1))
	b3 := m.AddVertex(math3d.V3(-s, 0, -s), math3d.V2(0, 1))
	apex := m.AddVertex(math3d.V3(0, h, 0), math3d.V2(0.5, 0.5))

	m.AddFace(b0, b1, apex, 0)
	m.AddFace(b1, b2, apex, 0)
	m.AddFace(b2, b3, apex, 0)
	m.AddFace(b3, b0, apex, 0)
	m.AddFace(b0, b3, b2, 0)
	m.AddFace(b0, b2, b1, 0)

	m.CalculateNormals()
	m.CalculateBounds()
	return m
}
