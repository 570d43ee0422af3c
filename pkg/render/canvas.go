package render

import "image"

// Canvas is the drawing surface the renderers target. The CPU
// implementation is *Framebuffer; other backends present a Framebuffer
// produced through this interface, so renderers never depend on the backend.
type Canvas interface {
	Size() (width, height int)
	Clear(c Color)
	DrawLine(x0, y0, x1, y1 int, c Color)
	BlendRect(r image.Rectangle, c Color)
	DrawSolidQuad(q [4]ScreenPoint, c Color)
	DrawTexturedQuad(q [4]ScreenPoint, tex *Texture)
	DrawSolidTriangle(a, b, c ScreenPoint, col Color)
	DrawTexturedTriangle(a, b, c ScreenPoint, tex *Texture)
	BlitRegion(src *Framebuffer, rect image.Rectangle, dst image.Point)
	DrawSprite(topLeft image.Point, sprite *Texture)
	DrawSpriteScaled(dst image.Rectangle, sprite *Texture)
	// Frame returns a snapshot of the current pixels.
	Frame() *Framebuffer
}

var _ Canvas = (*Framebuffer)(nil)

// BlendRect implements Canvas.
func (fb *Framebuffer) BlendRect(r image.Rectangle, c Color) {
	fb.DrawRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), c)
}

// DrawSolidQuad implements Canvas.
func (fb *Framebuffer) DrawSolidQuad(q [4]ScreenPoint, c Color) { fb.FillQuad(q, c) }

// DrawTexturedQuad implements Canvas.
func (fb *Framebuffer) DrawTexturedQuad(q [4]ScreenPoint, tex *Texture) {
	fb.FillQuadTextured(q, tex)
}

// DrawSolidTriangle implements Canvas.
func (fb *Framebuffer) DrawSolidTriangle(a, b, c ScreenPoint, col Color) {
	fb.FillTriangle(a, b, c, col)
}

// DrawTexturedTriangle implements Canvas.
func (fb *Framebuffer) DrawTexturedTriangle(a, b, c ScreenPoint, tex *Texture) {
	fb.FillTriangleTextured(a, b, c, tex)
}

// Frame implements Canvas.
func (fb *Framebuffer) Frame() *Framebuffer { return fb.Snapshot() }

// DrawCounts tallies draw calls by kind.
type DrawCounts struct {
	Clears    int
	Lines     int
	Rects     int
	Quads     int
	Triangles int
	Blits     int
	Sprites   int
}

// Total returns the number of primitive draw calls, excluding clears.
func (d DrawCounts) Total() int {
	return d.Lines + d.Rects + d.Quads + d.Triangles + d.Blits + d.Sprites
}

// CountingCanvas forwards to another Canvas and counts every call.
type CountingCanvas struct {
	Canvas
	Counts DrawCounts
}

// NewCountingCanvas wraps c.
func NewCountingCanvas(c Canvas) *CountingCanvas {
	return &CountingCanvas{Canvas: c}
}

// Reset zeroes the counters.
func (c *CountingCanvas) Reset() { c.Counts = DrawCounts{} }

// Clear implements Canvas and counts the call in Counts.Clears.
func (c *CountingCanvas) Clear(col Color) {
	c.Counts.Clears++
	c.Canvas.Clear(col)
}

// DrawLine implements Canvas and counts the call in Counts.Lines.
func (c *CountingCanvas) DrawLine(x0, y0, x1, y1 int, col Color) {
	c.Counts.Lines++
	c.Canvas.DrawLine(x0, y0, x1, y1, col)
}

// BlendRect implements Canvas and counts the call in Counts.Rects.
func (c *CountingCanvas) BlendRect(r image.Rectangle, col Color) {
	c.Counts.Rects++
	c.Canvas.BlendRect(r, col)
}

// DrawSolidQuad implements Canvas and counts the call in Counts.Quads.
func (c *CountingCanvas) DrawSolidQuad(q [4]ScreenPoint, col Color) {
	c.Counts.Quads++
	c.Canvas.DrawSolidQuad(q, col)
}

// DrawTexturedQuad implements Canvas and counts the call in Counts.Quads.
func (c *CountingCanvas) DrawTexturedQuad(q [4]ScreenPoint, tex *Texture) {
	c.Counts.Quads++
	c.Canvas.DrawTexturedQuad(q, tex)
}

// DrawSolidTriangle implements Canvas and counts the call in Counts.Triangles.
func (c *CountingCanvas) DrawSolidTriangle(a, b, v ScreenPoint, col Color) {
	c.Counts.Triangles++
	c.Canvas.DrawSolidTriangle(a, b, v, col)
}

// DrawTexturedTriangle implements Canvas and counts the call in Counts.Triangles.
func (c *CountingCanvas) DrawTexturedTriangle(a, b, v ScreenPoint, tex *Texture) {
	c.Counts.Triangles++
	c.Canvas.DrawTexturedTriangle(a, b, v, tex)
}

// BlitRegion implements Canvas and counts the call in Counts.Blits.
func (c *CountingCanvas) BlitRegion(src *Framebuffer, rect image.Rectangle, dst image.Point) {
	c.Counts.Blits++
	c.Canvas.BlitRegion(src, rect, dst)
}

// DrawSprite implements Canvas and counts the call in Counts.Sprites.
func (c *CountingCanvas) DrawSprite(topLeft image.Point, sprite *Texture) {
	c.Counts.Sprites++
	c.Canvas.DrawSprite(topLeft, sprite)
}

// DrawSpriteScaled implements Canvas and counts the call in Counts.Sprites.
func (c *CountingCanvas) DrawSpriteScaled(dst image.Rectangle, sprite *Texture) {
	c.Counts.Sprites++
	c.Canvas.DrawSpriteScaled(dst, sprite)
}
