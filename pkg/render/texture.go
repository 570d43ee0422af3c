package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	_ "golang.org/x/image/bmp" // Register BMP decoder
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture is a pixel-addressable bitmap used for walls, faces, masks and
// sprites. A texel with zero alpha is treated as a hole by sprite and mask
// drawing.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color
	WrapU      WrapMode
	WrapV      WrapMode
	FilterMode FilterMode

	img *image.RGBA // lazily built for golang.org/x/image/draw
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from a PNG, JPEG or BMP file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image. Pixels are
// stored with straight (non-premultiplied) alpha.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())

	for y := range tex.Height {
		for x := range tex.Width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			tex.Pixels[y*tex.Width+x] = Color{R: c.R, G: c.G, B: c.B, A: c.A}
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	checkSize = max(checkSize, 1)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.Pixels[y*width+x] = c1
			} else {
				tex.Pixels[y*width+x] = c2
			}
		}
	}
	return tex
}

// NewSolidTexture creates a single-color texture.
func NewSolidTexture(width, height int, c Color) *Texture {
	tex := NewTexture(width, height)
	for i := range tex.Pixels {
		tex.Pixels[i] = c
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
	t.img = nil
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// At returns the texel at (x, y) with both coordinates wrapped, so column
// renderers can index without range checks. Row 0 is the top of the image.
func (t *Texture) At(x, y int) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	return t.Pixels[wrapIndex(y, t.Height)*t.Width+wrapIndex(x, t.Width)]
}

// Column returns the texel column for a horizontal coordinate u in [0,1).
func (t *Texture) Column(u float64) int {
	x := int(t.wrapCoord(u, t.WrapU) * float64(t.Width))
	return min(max(x, 0), t.Width-1)
}

// Sample samples the texture at UV coordinates. V=0 is the bottom edge.
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	u = t.wrapCoord(u, t.WrapU)
	v = 1.0 - t.wrapCoord(v, t.WrapV)

	switch t.FilterMode {
	case FilterBilinear:
		return t.sampleBilinear(u, v)
	default:
		return t.sampleNearest(u, v)
	}
}

func (t *Texture) wrapCoord(coord float64, mode WrapMode) float64 {
	switch mode {
	case WrapClamp:
		return math.Max(0, math.Min(1, coord))
	default:
		return coord - math.Floor(coord)
	}
}

func (t *Texture) sampleNearest(u, v float64) Color {
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.GetPixel(x, y)
}

func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := t.At(x0, y0)
	c10 := t.At(x0+1, y0)
	c01 := t.At(x0, y0+1)
	c11 := t.At(x0+1, y0+1)

	top := LerpColor(c00, c10, tx)
	bot := LerpColor(c01, c11, tx)
	return LerpColor(top, bot, ty)
}

func wrapIndex(x, size int) int {
	x %= size
	if x < 0 {
		x += size
	}
	return x
}

// rgba exposes the texture as an *image.RGBA for golang.org/x/image/draw.
func (t *Texture) rgba() *image.RGBA {
	if t.img == nil {
		img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
		for i, p := range t.Pixels {
			copy(img.Pix[i*4:], []byte{p.R, p.G, p.B, p.A})
		}
		t.img = img
	}
	return t.img
}

// TextureProvider resolves integer texture ids to bitmaps.
type TextureProvider interface {
	Texture(id int) (*Texture, bool)
}

// TextureSet is a map-backed TextureProvider with a checkerboard fallback.
type TextureSet struct {
	textures map[int]*Texture
	fallback *Texture
}

// NewTextureSet creates an empty set whose fallback is a magenta/black
// checkerboard.
func NewTextureSet() *TextureSet {
	return &TextureSet{
		textures: make(map[int]*Texture),
		fallback: NewCheckerTexture(16, 16, 4, ColorMagenta, ColorBlack),
	}
}

// Add registers a texture under id. Id 0 is reserved for "no texture".
func (s *TextureSet) Add(id int, tex *Texture) {
	if id == 0 || tex == nil {
		return
	}
	s.textures[id] = tex
}

// Load reads an image file and registers it under id.
func (s *TextureSet) Load(id int, path string) error {
	tex, err := LoadTexture(path)
	if err != nil {
		return fmt.Errorf("texture %d: %w", id, err)
	}
	s.Add(id, tex)
	return nil
}

// Texture implements TextureProvider.
func (s *TextureSet) Texture(id int) (*Texture, bool) {
	tex, ok := s.textures[id]
	return tex, ok
}

// Resolve returns the texture for id, or the fallback checkerboard.
func (s *TextureSet) Resolve(id int) *Texture {
	if tex, ok := s.textures[id]; ok {
		return tex
	}
	return s.fallback
}

// Len returns the number of registered textures.
func (s *TextureSet) Len() int {
	return len(s.textures)
}
