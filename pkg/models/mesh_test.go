package models

import (
	"math"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/render"
)

func TestBoxMeshShape(t *testing.T) {
	m := NewBoxMesh(2, 3, 4, render.ColorRed)

	if m.TriangleCount() != 12 {
		t.Errorf("TriangleCount = %d, want 12", m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	lo, hi := m.GetBounds()
	if lo != math3d.V3(-1, 0, -2) || hi != math3d.V3(1, 3, 2) {
		t.Errorf("bounds = %v..%v", lo, hi)
	}
}

// Every box face normal must point away from the box center.
func TestBoxMeshFacesPointOutward(t *testing.T) {
	m := NewBoxMesh(1, 1, 1, render.ColorRed)
	center := m.Center()

	for i := range m.Faces {
		f := m.GetFace(i)
		p0, _, _ := m.GetVertex(f[0])
		p1, _, _ := m.GetVertex(f[1])
		p2, _, _ := m.GetVertex(f[2])
		mid := p0.Add(p1).Add(p2).Scale(1.0 / 3)
		if m.FaceNormal(i).Dot(mid.Sub(center)) <= 0 {
			t.Errorf("face %d normal %v points inward", i, m.FaceNormal(i))
		}
	}
}

func TestPyramidMeshFacesPointOutward(t *testing.T) {
	m := NewPyramidMesh(1, 1, render.ColorGreen)
	center := math3d.V3(0, 0.25, 0)

	for i := range m.Faces {
		f := m.GetFace(i)
		p0, _, _ := m.GetVertex(f[0])
		p1, _, _ := m.GetVertex(f[1])
		p2, _, _ := m.GetVertex(f[2])
		mid := p0.Add(p1).Add(p2).Scale(1.0 / 3)
		if m.FaceNormal(i).Dot(mid.Sub(center)) <= 0 {
			t.Errorf("face %d points inward", i)
		}
	}
}

func TestFitToCell(t *testing.T) {
	m := NewBoxMesh(4, 2, 1, render.ColorRed)
	m.Transform(math3d.Translate(math3d.V3(10, 5, -3)))
	m.FitToCell(1)

	lo, hi := m.GetBounds()
	tests := []struct {
		name      string
		got, want float64
	}{
		{"min x", lo.X, -0.5},
		{"max x", hi.X, 0.5},
		{"min y", lo.Y, 0},
		{"max y", hi.Y, 0.5},
		{"min z", lo.Z, -0.125},
		{"max z", hi.Z, 0.125},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if math.Abs(tc.got-tc.want) > 1e-9 {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestValidateRejectsBadIndex(t *testing.T) {
	m := NewMesh("broken")
	m.AddVertex(math3d.V3(0, 0, 0), math3d.Vec2{})
	m.AddFace(0, 1, 2, -1)
	if err := m.Validate(); err == nil {
		t.Error("Validate accepted out-of-range vertex index")
	}
}

func TestFaceMaterialLookup(t *testing.T) {
	mesh := NewMesh("test")
	tex := render.NewSolidTexture(1, 1, render.ColorBlue)
	mesh.Materials = []Material{
		{Name: "red", Color: render.ColorRed},
		{Name: "tiled", Color: render.ColorWhite, Texture: tex},
	}
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{3, 4, 5}, Material: 1},
		{V: [3]int{6, 7, 8}, Material: -1},
	}

	tests := []struct {
		name    string
		face    int
		color   render.Color
		texture *render.Texture
	}{
		{"flat material", 0, render.ColorRed, nil},
		{"textured material", 1, render.ColorWhite, tex},
		{"no material", 2, render.ColorGray, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := mesh.FaceColor(tc.face, render.ColorGray); got != tc.color {
				t.Errorf("FaceColor = %v, want %v", got, tc.color)
			}
			if got := mesh.FaceTexture(tc.face); got != tc.texture {
				t.Errorf("FaceTexture = %p, want %p", got, tc.texture)
			}
		})
	}

	if mesh.GetMaterial(-1) != nil || mesh.GetMaterial(99) != nil {
		t.Error("GetMaterial out of range should return nil")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	mesh := NewBoxMesh(1, 1, 1, render.ColorRed)
	clone := mesh.Clone()

	clone.Materials[0].Name = "modified"
	clone.Vertices[0].Position = math3d.V3(99, 99, 99)
	if mesh.Materials[0].Name == "modified" {
		t.Error("Clone shares materials")
	}
	if mesh.Vertices[0].Position.X == 99 {
		t.Error("Clone shares vertices")
	}
}

func TestLoadGLBInvalidPath(t *testing.T) {
	if _, err := LoadGLB("/nonexistent/path.glb"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestNewLoaderDefaults(t *testing.T) {
	l := NewLoader()
	if !l.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if l.CellSize != 0 {
		t.Error("CellSize should default to 0 (no fitting)")
	}
}

// A hand-built one-triangle document exercises the accessor readers.
func TestAppendPrimitivesFromDocument(t *testing.T) {
	var buf []byte
	put := func(f float32) {
		b := math.Float32bits(f)
		buf = append(buf, byte(b), byte(b>>8), byte(b>>16), byte(b>>24))
	}
	for _, v := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		put(v)
	}
	indexOffset := len(buf)
	buf = append(buf, 0, 0, 2, 0, 1, 0, 0, 0) // uint16 indices 0, 2, 1 plus padding

	view0, view1 := 0, 1
	indices := 1
	mat := 0
	doc := &gltf.Document{
		Buffers: []*gltf.Buffer{{ByteLength: len(buf), Data: buf}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: indexOffset},
			{Buffer: 0, ByteOffset: indexOffset, ByteLength: 6},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: &view0, Count: 3, Type: gltf.AccessorVec3, ComponentType: gltf.ComponentFloat},
			{BufferView: &view1, Count: 3, Type: gltf.AccessorScalar, ComponentType: gltf.ComponentUshort},
		},
		Materials: []*gltf.Material{{Name: "m"}},
		Meshes: []*gltf.Mesh{{
			Name: "tri",
			Primitives: []*gltf.Primitive{{
				Attributes: gltf.PrimitiveAttributes{gltf.POSITION: 0},
				Indices:    &indices,
				Material:   &mat,
				Mode:       gltf.PrimitiveTriangles,
			}},
		}},
	}

	mesh := NewMesh("doc")
	mesh.Materials = readMaterials(doc, ".")
	if err := appendPrimitives(doc, doc.Meshes[0], mesh); err != nil {
		t.Fatalf("appendPrimitives: %v", err)
	}
	if mesh.VertexCount() != 3 || mesh.TriangleCount() != 1 {
		t.Fatalf("got %d vertices, %d faces", mesh.VertexCount(), mesh.TriangleCount())
	}
	if got := mesh.GetFace(0); got != [3]int{0, 2, 1} {
		t.Errorf("face = %v, want [0 2 1]", got)
	}
	if p, _, _ := mesh.GetVertex(1); p != math3d.V3(1, 0, 0) {
		t.Errorf("vertex 1 = %v", p)
	}
	if mesh.FaceColor(0, render.ColorBlack) != render.ColorWhite {
		t.Error("material without PBR block should default to white")
	}
}
