package render

import (
	"testing"
)

func countColor(fb *Framebuffer, c Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestFillTriangleEitherWinding(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c ScreenPoint
	}{
		{"clockwise", ScreenPoint{X: 0, Y: 0}, ScreenPoint{X: 10, Y: 0}, ScreenPoint{X: 0, Y: 10}},
		{"counter-clockwise", ScreenPoint{X: 0, Y: 0}, ScreenPoint{X: 0, Y: 10}, ScreenPoint{X: 10, Y: 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(10, 10)
			fb.FillTriangle(tc.a, tc.b, tc.c, ColorRed)

			n := countColor(fb, ColorRed)
			// Half of the 10x10 square, give or take the diagonal.
			if n < 40 || n > 60 {
				t.Errorf("filled %d pixels, want about 50", n)
			}
			if fb.GetPixel(1, 1) != ColorRed {
				t.Error("interior pixel not filled")
			}
			if fb.GetPixel(9, 9) == ColorRed {
				t.Error("pixel outside triangle filled")
			}
		})
	}
}

func TestFillTriangleDegenerate(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.FillTriangle(ScreenPoint{X: 0, Y: 0}, ScreenPoint{X: 5, Y: 5}, ScreenPoint{X: 9, Y: 9}, ColorRed)
	if n := countColor(fb, ColorRed); n != 0 {
		t.Errorf("degenerate triangle filled %d pixels", n)
	}
}

func TestFillQuadCoversRect(t *testing.T) {
	fb := NewFramebuffer(20, 20)
	q := [4]ScreenPoint{
		{X: 5, Y: 5}, {X: 15, Y: 5}, {X: 15, Y: 15}, {X: 5, Y: 15},
	}
	fb.FillQuad(q, ColorBlue)

	if n := countColor(fb, ColorBlue); n != 100 {
		t.Errorf("quad filled %d pixels, want 100", n)
	}
}

func TestFillQuadTexturedMaskAndUV(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.SetPixel(0, 0, ColorRed) // left half opaque, right half transparent

	fb := NewFramebuffer(20, 10)
	fb.Clear(ColorBlack)
	q := [4]ScreenPoint{
		{X: 0, Y: 0, U: 0, V: 1},
		{X: 20, Y: 0, U: 1, V: 1},
		{X: 20, Y: 10, U: 1, V: 0},
		{X: 0, Y: 10, U: 0, V: 0},
	}
	fb.FillQuadTextured(q, tex)

	if got := fb.GetPixel(3, 5); got != ColorRed {
		t.Errorf("left half = %v, want red", got)
	}
	if got := fb.GetPixel(16, 5); got != ColorBlack {
		t.Errorf("masked right half = %v, want untouched black", got)
	}
}

func TestFillTriangleTranslucentBlends(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.Clear(ColorBlack)
	fb.FillTriangle(ScreenPoint{X: 0, Y: 0}, ScreenPoint{X: 10, Y: 0}, ScreenPoint{X: 0, Y: 10}, RGBA(200, 0, 0, 128))

	got := fb.GetPixel(1, 1)
	if got.R < 95 || got.R > 105 {
		t.Errorf("blended red = %d, want about 100", got.R)
	}
}

func TestTranslucentQuadBlendsOnce(t *testing.T) {
	tests := []struct {
		name string
		q    [4]ScreenPoint
	}{
		{"axis aligned", [4]ScreenPoint{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 8}, {X: 0, Y: 8}}},
		{"reversed", [4]ScreenPoint{{X: 0, Y: 8}, {X: 8, Y: 8}, {X: 8, Y: 0}, {X: 0, Y: 0}}},
		{"skewed", [4]ScreenPoint{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 8}, {X: 0, Y: 8.3}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(8, 8)
			fb.Clear(ColorBlack)
			fb.FillQuad(tc.q, RGBA(255, 255, 255, 128))

			want := fb.GetPixel(1, 6)
			for y := range 8 {
				for x := range 8 {
					if got := fb.GetPixel(x, y); got != want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestAdjacentTrianglesShareEdgeOnce(t *testing.T) {
	// Two triangles over a vertical edge through pixel centers.
	fb := NewFramebuffer(8, 4)
	fb.Clear(ColorBlack)
	half := RGBA(255, 0, 0, 128)
	fb.FillTriangle(ScreenPoint{X: 0.5, Y: 0}, ScreenPoint{X: 4.5, Y: 0}, ScreenPoint{X: 4.5, Y: 4}, half)
	fb.FillTriangle(ScreenPoint{X: 4.5, Y: 0}, ScreenPoint{X: 8, Y: 0}, ScreenPoint{X: 4.5, Y: 4}, half)

	edge := fb.GetPixel(4, 0)
	inside := fb.GetPixel(6, 0)
	if edge != inside {
		t.Errorf("edge pixel %v differs from interior %v", edge, inside)
	}
}

func BenchmarkFillTriangle(b *testing.B) {
	fb := NewFramebuffer(320, 200)
	a := ScreenPoint{X: 10, Y: 10}
	c := ScreenPoint{X: 300, Y: 40}
	d := ScreenPoint{X: 150, Y: 190}

	for b.Loop() {
		fb.FillTriangle(a, c, d, ColorGreen)
	}
}

func BenchmarkFillTriangleTextured(b *testing.B) {
	fb := NewFramebuffer(320, 200)
	tex := NewCheckerTexture(64, 64, 8, ColorWhite, ColorGray)
	a := ScreenPoint{X: 10, Y: 10, W: 2, U: 0, V: 0}
	c := ScreenPoint{X: 300, Y: 40, W: 4, U: 1, V: 0}
	d := ScreenPoint{X: 150, Y: 190, W: 3, U: 0.5, V: 1}

	for b.Loop() {
		fb.FillTriangleTextured(a, c, d, tex)
	}
}
