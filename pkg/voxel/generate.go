package voxel

import (
	"math"
	"math/rand"

	"github.com/taigrr/gridsight/pkg/render"
)

// terrain bands, lowest first
var bands = []struct {
	top   uint8
	color render.Color
}{
	{40, render.ColorWater},
	{52, render.RGB(194, 178, 128)},
	{150, render.ColorGrass},
	{205, render.ColorStone},
	{255, render.ColorWhite},
}

// Generate builds a tileable size x size terrain from a few octaves of
// value noise. The same seed always gives the same map.
func Generate(size int, seed int64) (*HeightmapPair, error) {
	m, err := NewHeightmapPair(size, size)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))

	field := make([]float64, size*size)
	amp, total := 1.0, 0.0
	for cells := 4; cells <= size && cells <= 64; cells *= 2 {
		lattice := make([]float64, cells*cells)
		for i := range lattice {
			lattice[i] = rng.Float64()
		}
		step := float64(size) / float64(cells)
		for y := range size {
			for x := range size {
				field[y*size+x] += amp * valueNoise(lattice, cells, float64(x)/step, float64(y)/step)
			}
		}
		total += amp
		amp *= 0.5
	}

	for y := range size {
		for x := range size {
			v := field[y*size+x] / total
			h := uint8(math.Min(255, math.Max(0, v*v*320)))
			m.Set(x, y, h, bandColor(h))
		}
	}
	shadeSlopes(m)
	return m, nil
}

// valueNoise interpolates a wrapping lattice of random values with a
// smoothstep curve.
func valueNoise(lattice []float64, cells int, x, y float64) float64 {
	x0, y0 := int(x), int(y)
	fx, fy := smooth(x-float64(x0)), smooth(y-float64(y0))
	at := func(ix, iy int) float64 {
		return lattice[(iy%cells)*cells+ix%cells]
	}
	top := at(x0, y0)*(1-fx) + at(x0+1, y0)*fx
	bot := at(x0, y0+1)*(1-fx) + at(x0+1, y0+1)*fx
	return top*(1-fy) + bot*fy
}

func smooth(t float64) float64 { return t * t * (3 - 2*t) }

func bandColor(h uint8) render.Color {
	for _, b := range bands {
		if h <= b.top {
			return b.color
		}
	}
	return bands[len(bands)-1].color
}

// shadeSlopes darkens faces that lean away from a light in the west.
func shadeSlopes(m *HeightmapPair) {
	shaded := make([]render.Color, len(m.Colors))
	for y := range m.Height {
		for x := range m.Width {
			d := float64(m.HeightAt(x, y)) - float64(m.HeightAt(x-1, y))
			shade := math.Max(0.55, math.Min(1.2, 1+d/32))
			shaded[y*m.Width+x] = render.MultiplyColor(m.ColorAt(x, y), shade)
		}
	}
	copy(m.Colors, shaded)
}
