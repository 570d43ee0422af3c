// Package render provides the pixel buffer, textures, camera, culling and
// presentation helpers shared by the gridsight renderers.
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// Framebuffer is a row-major array of pixels that every renderer draws into.
// For terminal output the height is twice the number of terminal rows since
// each cell shows two pixels with a half-block character.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	width = max(width, 0)
	height = max(height, 0)
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int) {
	return fb.Width, fb.Height
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel sets a pixel at (x, y). Out-of-bounds writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y), or transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// BlendPixel composites c over the existing pixel using c's alpha.
func (fb *Framebuffer) BlendPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	i := y*fb.Width + x
	fb.Pixels[i] = BlendOver(fb.Pixels[i], c)
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawVLine fills rows [y0, y1) of column x. The span is clipped to the
// framebuffer.
func (fb *Framebuffer) DrawVLine(x, y0, y1 int, c Color) {
	if x < 0 || x >= fb.Width {
		return
	}
	y0 = max(y0, 0)
	y1 = min(y1, fb.Height)
	for y := y0; y < y1; y++ {
		fb.Pixels[y*fb.Width+x] = c
	}
}

// DrawRect draws a filled rectangle. Translucent colors are blended.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c Color) {
	r := image.Rect(x, y, x+w, y+h).Intersect(image.Rect(0, 0, fb.Width, fb.Height))
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := fb.Pixels[py*fb.Width : (py+1)*fb.Width]
		for px := r.Min.X; px < r.Max.X; px++ {
			if c.A == 255 {
				row[px] = c
			} else {
				row[px] = BlendOver(row[px], c)
			}
		}
	}
}

// DrawRectOutline draws a rectangle outline.
func (fb *Framebuffer) DrawRectOutline(x, y, w, h int, c Color) {
	for px := x; px < x+w; px++ {
		fb.SetPixel(px, y, c)
		fb.SetPixel(px, y+h-1, c)
	}
	for py := y; py < y+h; py++ {
		fb.SetPixel(x, py, c)
		fb.SetPixel(x+w-1, py, c)
	}
}

// Snapshot returns an independent copy of the framebuffer.
func (fb *Framebuffer) Snapshot() *Framebuffer {
	out := NewFramebuffer(fb.Width, fb.Height)
	copy(out.Pixels, fb.Pixels)
	return out
}

// CopyFrom replaces the pixels with src's. It is a no-op returning false
// when the dimensions differ.
func (fb *Framebuffer) CopyFrom(src *Framebuffer) bool {
	if src == nil || src.Width != fb.Width || src.Height != fb.Height {
		return false
	}
	copy(fb.Pixels, src.Pixels)
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.EncodeInto(img.Pix)
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, fb.ToImage()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
