package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorGray    = color.RGBA{128, 128, 128, 255}
	ColorSky     = color.RGBA{135, 206, 235, 255}
	ColorGrass   = color.RGBA{34, 139, 34, 255}
	ColorWater   = color.RGBA{40, 90, 170, 160}
	ColorStone   = color.RGBA{120, 112, 104, 255}
	ColorFog     = color.RGBA{24, 24, 32, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
)

// Palette is used when a wall or face id has no texture.
var Palette = []Color{
	{R: 170, G: 60, B: 50, A: 255},
	{R: 70, G: 130, B: 180, A: 255},
	{R: 200, G: 170, B: 80, A: 255},
	{R: 90, G: 150, B: 80, A: 255},
	{R: 150, G: 90, B: 160, A: 255},
	{R: 190, G: 190, B: 190, A: 255},
}

// PaletteColor returns the fallback solid color for an id.
func PaletteColor(id int) Color {
	if id < 0 {
		id = -id
	}
	return Palette[id%len(Palette)]
}

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// LerpColor linearly interpolates between two colors. t is not clamped.
func LerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// Fog blends c toward the fog color by dist/maxDist, clamped to [0,1].
// A non-positive maxDist disables fog.
func Fog(c, fog Color, dist, maxDist float64) Color {
	if maxDist <= 0 {
		return c
	}
	t := dist / maxDist
	if t <= 0 {
		return c
	}
	if t >= 1 || math.IsInf(t, 1) {
		return Color{R: fog.R, G: fog.G, B: fog.B, A: c.A}
	}
	out := LerpColor(c, fog, t)
	out.A = c.A
	return out
}

// MultiplyColor scales the color channels by intensity (for lighting).
func MultiplyColor(c Color, intensity float64) Color {
	return Color{
		R: uint8(math.Min(255, float64(c.R)*intensity)),
		G: uint8(math.Min(255, float64(c.G)*intensity)),
		B: uint8(math.Min(255, float64(c.B)*intensity)),
		A: c.A,
	}
}

// BlendOver composites src over dst using src's alpha. The result is opaque
// when dst is opaque.
func BlendOver(dst, src Color) Color {
	switch src.A {
	case 255:
		return src
	case 0:
		return dst
	}
	a := uint32(src.A)
	ia := 255 - a
	return Color{
		R: uint8((uint32(src.R)*a + uint32(dst.R)*ia) / 255),
		G: uint8((uint32(src.G)*a + uint32(dst.G)*ia) / 255),
		B: uint8((uint32(src.B)*a + uint32(dst.B)*ia) / 255),
		A: uint8(a + uint32(dst.A)*ia/255),
	}
}

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c Color, a uint8) Color {
	c.A = a
	return c
}
