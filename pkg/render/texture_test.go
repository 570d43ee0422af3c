package render

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestTextureSampleOrientation(t *testing.T) {
	tex := NewTexture(1, 2)
	tex.SetPixel(0, 0, ColorRed)  // top row
	tex.SetPixel(0, 1, ColorBlue) // bottom row

	if got := tex.Sample(0.5, 0.9); got != ColorRed {
		t.Errorf("Sample near V=1 = %v, want top row red", got)
	}
	if got := tex.Sample(0.5, 0.1); got != ColorBlue {
		t.Errorf("Sample near V=0 = %v, want bottom row blue", got)
	}
}

func TestTextureWrap(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorWhite, ColorBlack)

	tests := []struct {
		name string
		u, v float64
	}{
		{"repeat positive", 1.1, 0.1},
		{"repeat negative", -0.9, 0.1},
	}
	want := tex.Sample(0.1, 0.1)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tex.Sample(tc.u, tc.v); got != want {
				t.Errorf("Sample(%v, %v) = %v, want %v", tc.u, tc.v, got, want)
			}
		})
	}

	if got := tex.At(-1, 5); got != tex.GetPixel(3, 1) {
		t.Errorf("At wraps to %v, want %v", got, tex.GetPixel(3, 1))
	}
}

func TestTextureColumn(t *testing.T) {
	tex := NewTexture(8, 1)
	if got := tex.Column(0.99); got != 7 {
		t.Errorf("Column(0.99) = %d, want 7", got)
	}
	if got := tex.Column(0); got != 0 {
		t.Errorf("Column(0) = %d, want 0", got)
	}
}

func TestTextureFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 0, color.RGBA{10, 20, 30, 255})

	tex := TextureFromImage(img)
	if tex.Width != 2 || tex.Height != 2 {
		t.Fatalf("size = %dx%d", tex.Width, tex.Height)
	}
	if got := tex.GetPixel(1, 0); got != RGB(10, 20, 30) {
		t.Errorf("pixel = %v", got)
	}
}

func TestTextureFromImageStraightAlpha(t *testing.T) {
	straight := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	straight.SetNRGBA(0, 0, color.NRGBA{200, 100, 50, 128})
	if got := TextureFromImage(straight).GetPixel(0, 0); got != RGBA(200, 100, 50, 128) {
		t.Errorf("NRGBA source = %v, want {200 100 50 128}", got)
	}

	// The same color stored premultiplied must come back un-premultiplied.
	pre := image.NewRGBA(image.Rect(0, 0, 1, 1))
	pre.SetRGBA(0, 0, color.RGBA{100, 50, 25, 128})
	got := TextureFromImage(pre).GetPixel(0, 0)
	if math.Abs(float64(got.R)-199) > 1 || math.Abs(float64(got.G)-99) > 1 || got.A != 128 {
		t.Errorf("premultiplied source = %v, want about {199 99 49 128}", got)
	}

	// Blending a loaded half-transparent white over black gives mid grey.
	white := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	white.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 128})
	fb := NewFramebuffer(1, 1)
	fb.Clear(ColorBlack)
	fb.BlendPixel(0, 0, TextureFromImage(white).GetPixel(0, 0))
	if r := fb.GetPixel(0, 0).R; r < 126 || r > 130 {
		t.Errorf("blended red = %d, want about 128", r)
	}
}

func TestTextureSetFallback(t *testing.T) {
	set := NewTextureSet()
	stone := NewSolidTexture(2, 2, ColorStone)
	set.Add(3, stone)
	set.Add(0, stone)

	if set.Len() != 1 {
		t.Errorf("Len = %d, want 1 (id 0 is reserved)", set.Len())
	}
	if tex, ok := set.Texture(3); !ok || tex != stone {
		t.Error("registered texture not found")
	}
	if _, ok := set.Texture(9); ok {
		t.Error("unknown id reported as present")
	}
	if set.Resolve(9) == nil || set.Resolve(9) == stone {
		t.Error("Resolve did not return the fallback for an unknown id")
	}

	var p TextureProvider = set
	if _, ok := p.Texture(3); !ok {
		t.Error("TextureSet does not satisfy provider lookups")
	}
}

func TestLoadTextureMissingFile(t *testing.T) {
	if _, err := LoadTexture("testdata/does-not-exist.png"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFog(t *testing.T) {
	c := RGBA(200, 100, 0, 180)

	tests := []struct {
		name    string
		dist    float64
		maxDist float64
		want    Color
	}{
		{"no distance", 0, 10, c},
		{"disabled", 5, 0, c},
		{"full fog keeps alpha", 20, 10, RGBA(ColorFog.R, ColorFog.G, ColorFog.B, 180)},
		{"infinite distance", math.Inf(1), 10, RGBA(ColorFog.R, ColorFog.G, ColorFog.B, 180)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Fog(c, ColorFog, tc.dist, tc.maxDist); got != tc.want {
				t.Errorf("Fog = %v, want %v", got, tc.want)
			}
		})
	}

	half := Fog(RGB(200, 200, 200), RGB(0, 0, 0), 5, 10)
	if half.R < 99 || half.R > 101 {
		t.Errorf("half fog R = %d, want about 100", half.R)
	}
}

func TestBlendOver(t *testing.T) {
	dst := RGB(0, 0, 200)
	if got := BlendOver(dst, ColorRed); got != ColorRed {
		t.Errorf("opaque src = %v", got)
	}
	if got := BlendOver(dst, WithAlpha(ColorRed, 0)); got != dst {
		t.Errorf("transparent src = %v", got)
	}
	got := BlendOver(dst, RGBA(255, 0, 0, 51))
	if got.R != 51 || got.B != 160 || got.A != 255 {
		t.Errorf("20%% red over blue = %v", got)
	}
}

func TestPaletteColorNegativeID(t *testing.T) {
	if PaletteColor(-1) != PaletteColor(1) {
		t.Error("negative id should map like its absolute value")
	}
	if PaletteColor(len(Palette)) != Palette[0] {
		t.Error("palette lookup should wrap")
	}
}
