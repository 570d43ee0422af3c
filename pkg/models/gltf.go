package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/render"
)

// ErrExternalBuffer is returned for glTF buffers that are neither embedded
// nor loaded by the decoder.
var ErrExternalBuffer = errors.New("buffer data not loaded")

// Loader reads glTF 2.0 (.gltf or .glb) files into prop meshes.
type Loader struct {
	// CalculateNormals fills in vertex normals when the file has none.
	CalculateNormals bool
	// CellSize, when positive, fits the loaded mesh to a cell of that size.
	CellSize float64
}

// NewLoader creates a loader with default options.
func NewLoader() *Loader {
	return &Loader{CalculateNormals: true}
}

// LoadGLB loads a glTF file with default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewLoader().Load(path)
}

// Load reads path and merges every triangle primitive into one mesh.
// Materials keep their base color factor and embedded base color texture.
func (l *Loader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	mesh.Materials = readMaterials(doc, filepath.Dir(path))

	for _, m := range doc.Meshes {
		if err := appendPrimitives(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	if l.CalculateNormals && !hasNormals(mesh) {
		mesh.CalculateNormals()
	}
	mesh.CalculateBounds()
	if l.CellSize > 0 {
		mesh.FitToCell(l.CellSize)
	}
	return mesh, nil
}

func hasNormals(m *Mesh) bool {
	for _, v := range m.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			return true
		}
	}
	return false
}

func appendPrimitives(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3(doc, posIdx)
		if err != nil {
			return fmt.Errorf("positions: %w", err)
		}
		var normals []math3d.Vec3
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readVec3(doc, idx); err != nil {
				return fmt.Errorf("normals: %w", err)
			}
		}
		var uvs []math3d.Vec2
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readVec2(doc, idx); err != nil {
				return fmt.Errorf("uvs: %w", err)
			}
		}

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := Vertex{Position: p}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			if i < len(uvs) {
				// glTF puts V=0 at the top of the image.
				v.UV = math3d.V2(uvs[i].X, 1-uvs[i].Y)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []int
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return fmt.Errorf("indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.AddFace(base+indices[i], base+indices[i+1], base+indices[i+2], material)
		}
	}
	return nil
}

func readMaterials(doc *gltf.Document, dir string) []Material {
	out := make([]Material, len(doc.Materials))
	for i, m := range doc.Materials {
		out[i] = Material{Name: m.Name, Color: render.ColorWhite}
		pbr := m.PBRMetallicRoughness
		if pbr == nil {
			continue
		}
		if f := pbr.BaseColorFactor; f != nil {
			out[i].Color = render.RGBA(unit8(f[0]), unit8(f[1]), unit8(f[2]), unit8(f[3]))
		}
		if pbr.BaseColorTexture != nil {
			if img, err := textureImage(doc, pbr.BaseColorTexture.Index, dir); err == nil {
				out[i].Texture = render.TextureFromImage(img)
			}
		}
	}
	return out
}

func unit8(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}

// textureImage decodes the image behind texture index ti, embedded in a
// buffer view or stored next to the document.
func textureImage(doc *gltf.Document, ti int, dir string) (image.Image, error) {
	if ti < 0 || ti >= len(doc.Textures) || doc.Textures[ti].Source == nil {
		return nil, fmt.Errorf("texture %d has no source", ti)
	}
	img := doc.Images[*doc.Textures[ti].Source]

	var data []byte
	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			return nil, ErrExternalBuffer
		}
		data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	case img.URI != "":
		b, err := os.ReadFile(filepath.Join(dir, img.URI))
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		data = b
	default:
		return nil, fmt.Errorf("image %q has no data", img.Name)
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return decoded, nil
}

// accessorBytes returns the backing bytes of an accessor plus its element
// stride, defaulting the stride to the packed element size.
func accessorBytes(doc *gltf.Document, idx, packed int) ([]byte, int, int, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, 0, 0, fmt.Errorf("accessor %d out of range", idx)
	}
	acc := doc.Accessors[idx]
	if acc.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor %d has no buffer view", idx)
	}
	bv := doc.BufferViews[*acc.BufferView]
	data := doc.Buffers[bv.Buffer].Data
	if data == nil {
		return nil, 0, 0, ErrExternalBuffer
	}

	stride := bv.ByteStride
	if stride == 0 {
		stride = packed
	}
	start := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 && start+(acc.Count-1)*stride+packed > len(data) {
		return nil, 0, 0, fmt.Errorf("accessor %d overruns its buffer", idx)
	}
	return data[start:], stride, acc.Count, nil
}

func readFloat(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}

func readVec3(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	if t := doc.Accessors[idx].Type; t != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", t)
	}
	data, stride, count, err := accessorBytes(doc, idx, 12)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec3, count)
	for i := range out {
		o := i * stride
		out[i] = math3d.V3(readFloat(data[o:]), readFloat(data[o+4:]), readFloat(data[o+8:]))
	}
	return out, nil
}

func readVec2(doc *gltf.Document, idx int) ([]math3d.Vec2, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	if t := doc.Accessors[idx].Type; t != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", t)
	}
	data, stride, count, err := accessorBytes(doc, idx, 8)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec2, count)
	for i := range out {
		o := i * stride
		out[i] = math3d.V2(readFloat(data[o:]), readFloat(data[o+4:]))
	}
	return out, nil
}

func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	var size int
	switch ct := doc.Accessors[idx].ComponentType; ct {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unsupported index component type %v", ct)
	}

	data, stride, count, err := accessorBytes(doc, idx, size)
	if err != nil {
		return nil, err
	}
	out := make([]int, count)
	for i := range out {
		o := i * stride
		switch size {
		case 1:
			out[i] = int(data[o])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(data[o:]))
		default:
			out[i] = int(binary.LittleEndian.Uint32(data[o:]))
		}
	}
	return out, nil
}
