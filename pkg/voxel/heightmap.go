// Package voxel renders heightmap terrain Comanche-style: the map is cut
// into depth slices in front of the camera and every slice is projected as
// one row of vertical column strips, nearest first.
package voxel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	_ "golang.org/x/image/bmp" // Register BMP decoder

	"github.com/taigrr/gridsight/pkg/render"
)

var (
	// ErrNotPowerOfTwo is returned for map dimensions that cannot be
	// addressed with a wraparound mask.
	ErrNotPowerOfTwo = errors.New("map dimensions must be powers of two")
	// ErrSizeMismatch is returned when the color and height maps differ
	// in size.
	ErrSizeMismatch = errors.New("color and height maps differ in size")
)

// HeightmapPair holds an elevation map and a color map of the same size.
// Lookups wrap around with idx & (dim-1), so the terrain tiles forever.
type HeightmapPair struct {
	Width   int
	Height  int
	Heights []uint8
	Colors  []render.Color
}

// NewHeightmapPair creates a flat black map. Both dimensions must be
// positive powers of two.
func NewHeightmapPair(width, height int) (*HeightmapPair, error) {
	if !powerOfTwo(width) || !powerOfTwo(height) {
		return nil, fmt.Errorf("new heightmap %dx%d: %w", width, height, ErrNotPowerOfTwo)
	}
	return &HeightmapPair{
		Width:   width,
		Height:  height,
		Heights: make([]uint8, width*height),
		Colors:  make([]render.Color, width*height),
	}, nil
}

func powerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// FromImages builds a map from a color image and a height image whose red
// channel is the elevation (0-255).
func FromImages(colorImg, heightImg image.Image) (*HeightmapPair, error) {
	cb, hb := colorImg.Bounds(), heightImg.Bounds()
	if cb.Dx() != hb.Dx() || cb.Dy() != hb.Dy() {
		return nil, fmt.Errorf("color %dx%d, height %dx%d: %w", cb.Dx(), cb.Dy(), hb.Dx(), hb.Dy(), ErrSizeMismatch)
	}
	m, err := NewHeightmapPair(cb.Dx(), cb.Dy())
	if err != nil {
		return nil, err
	}
	for y := range m.Height {
		for x := range m.Width {
			r, _, _, _ := heightImg.At(hb.Min.X+x, hb.Min.Y+y).RGBA()
			c := color.NRGBAModel.Convert(colorImg.At(cb.Min.X+x, cb.Min.Y+y)).(color.NRGBA)
			i := y*m.Width + x
			m.Heights[i] = uint8(r >> 8)
			m.Colors[i] = render.RGB(c.R, c.G, c.B)
		}
	}
	return m, nil
}

// Load reads a color map and a height map from PNG, JPEG or BMP files.
func Load(colorPath, heightPath string) (*HeightmapPair, error) {
	colorImg, err := decodeFile(colorPath)
	if err != nil {
		return nil, err
	}
	heightImg, err := decodeFile(heightPath)
	if err != nil {
		return nil, err
	}
	m, err := FromImages(colorImg, heightImg)
	if err != nil {
		return nil, fmt.Errorf("load %s + %s: %w", colorPath, heightPath, err)
	}
	return m, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode map image %s: %w", path, err)
	}
	return img, nil
}

func (m *HeightmapPair) index(x, y int) int {
	return (y&(m.Height-1))*m.Width + (x & (m.Width - 1))
}

// HeightAt returns the elevation at (x, y), wrapping around the edges.
func (m *HeightmapPair) HeightAt(x, y int) uint8 {
	return m.Heights[m.index(x, y)]
}

// ColorAt returns the surface color at (x, y), wrapping around the edges.
func (m *HeightmapPair) ColorAt(x, y int) render.Color {
	return m.Colors[m.index(x, y)]
}

// Set stores elevation and color at (x, y), wrapping around the edges.
func (m *HeightmapPair) Set(x, y int, h uint8, c render.Color) {
	i := m.index(x, y)
	m.Heights[i] = h
	m.Colors[i] = c
}

// HeightUnder returns the elevation below a world position.
func (m *HeightmapPair) HeightUnder(x, y float64) float64 {
	return float64(m.HeightAt(int(math.Floor(x)), int(math.Floor(y))))
}
