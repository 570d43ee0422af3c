package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// BlitRegion copies the rect region of src to dst in fb. Source pixels with
// zero alpha are skipped; the copy is clipped on both sides.
func (fb *Framebuffer) BlitRegion(src *Framebuffer, rect image.Rectangle, dst image.Point) {
	if src == nil {
		return
	}
	rect = rect.Intersect(image.Rect(0, 0, src.Width, src.Height))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := src.Pixels[y*src.Width+x]
			if c.A == 0 {
				continue
			}
			fb.BlendPixel(dst.X+x-rect.Min.X, dst.Y+y-rect.Min.Y, c)
		}
	}
}

// DrawSprite draws sprite unscaled with its top-left corner at topLeft,
// blending by texel alpha.
func (fb *Framebuffer) DrawSprite(topLeft image.Point, sprite *Texture) {
	if sprite == nil {
		return
	}
	for y := range sprite.Height {
		for x := range sprite.Width {
			c := sprite.Pixels[y*sprite.Width+x]
			if c.A == 0 {
				continue
			}
			fb.BlendPixel(topLeft.X+x, topLeft.Y+y, c)
		}
	}
}

// DrawSpriteScaled stretches sprite over dst with nearest-neighbour
// sampling, compositing over the existing pixels.
func (fb *Framebuffer) DrawSpriteScaled(dst image.Rectangle, sprite *Texture) {
	if sprite == nil || dst.Empty() || sprite.Width == 0 || sprite.Height == 0 {
		return
	}
	src := sprite.rgba()
	draw.NearestNeighbor.Scale(framebufferImage{fb}, dst, src, src.Bounds(), draw.Over, nil)
}

// framebufferImage adapts a Framebuffer to draw.Image. It lives outside
// Framebuffer so the framebuffer itself never grows a Bounds method, which
// would change how ultraviolet sizes it as a Drawable.
type framebufferImage struct {
	fb *Framebuffer
}

func (f framebufferImage) ColorModel() color.Model { return color.RGBAModel }

func (f framebufferImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.fb.Width, f.fb.Height)
}

func (f framebufferImage) At(x, y int) color.Color {
	return f.fb.GetPixel(x, y)
}

func (f framebufferImage) Set(x, y int, c color.Color) {
	f.fb.SetPixel(x, y, color.RGBAModel.Convert(c).(color.RGBA))
}
