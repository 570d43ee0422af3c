package render

import (
	"image"
	"testing"
)

func TestCountingCanvasCounts(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	c := NewCountingCanvas(fb)

	q := [4]ScreenPoint{{X: 1, Y: 1}, {X: 8, Y: 1}, {X: 8, Y: 8}, {X: 1, Y: 8}}
	tex := NewSolidTexture(2, 2, ColorRed)

	c.Clear(ColorBlack)
	c.DrawLine(0, 0, 15, 15, ColorWhite)
	c.BlendRect(image.Rect(0, 0, 16, 2), RGBA(0, 0, 0, 128))
	c.DrawSolidQuad(q, ColorBlue)
	c.DrawTexturedQuad(q, tex)
	c.DrawSolidTriangle(q[0], q[1], q[2], ColorGreen)
	c.DrawTexturedTriangle(q[0], q[2], q[3], tex)
	c.BlitRegion(fb.Snapshot(), image.Rect(0, 0, 4, 4), image.Pt(10, 10))
	c.DrawSprite(image.Pt(0, 0), tex)
	c.DrawSpriteScaled(image.Rect(0, 0, 4, 4), tex)

	want := DrawCounts{Clears: 1, Lines: 1, Rects: 1, Quads: 2, Triangles: 2, Blits: 1, Sprites: 2}
	if c.Counts != want {
		t.Errorf("counts = %+v, want %+v", c.Counts, want)
	}
	if c.Counts.Total() != 9 {
		t.Errorf("Total = %d, want 9", c.Counts.Total())
	}

	// Drawing goes through to the wrapped framebuffer.
	if fb.GetPixel(5, 5) == ColorBlack {
		t.Error("quad not forwarded to framebuffer")
	}

	c.Reset()
	if c.Counts != (DrawCounts{}) {
		t.Error("Reset did not zero counts")
	}
}

func TestFrameIsSnapshot(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	var c Canvas = fb
	snap := c.Frame()
	fb.SetPixel(0, 0, ColorRed)
	if snap.GetPixel(0, 0) == ColorRed {
		t.Error("Frame shares pixels with the live canvas")
	}
	if w, h := c.Size(); w != 2 || h != 2 {
		t.Errorf("Size = %dx%d", w, h)
	}
}
