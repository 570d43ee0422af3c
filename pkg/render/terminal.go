package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// FramebufferSize returns the pixel size that fills a terminal of the given
// cell size with half-block rendering.
func FramebufferSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each terminal row shows two framebuffer rows using ▀ with the
// foreground as the top pixel and the background as the bottom pixel.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, botY)),
				},
			})
		}
	}
}

// rgbaToColor maps fully transparent pixels to the terminal default.
func rgbaToColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// TerminalView is an ultraviolet Drawable that shows the latest frame of a
// FrameExchange, optionally with a status line on the bottom row.
type TerminalView struct {
	exchange *FrameExchange
	frame    *Framebuffer
	Status   func() string
}

// NewTerminalView creates a view for a terminal of cols x rows cells.
func NewTerminalView(ex *FrameExchange, cols, rows int) *TerminalView {
	return &TerminalView{
		exchange: ex,
		frame:    NewFramebuffer(FramebufferSize(cols, rows)),
	}
}

// Resize reallocates the local frame for a new terminal size.
func (v *TerminalView) Resize(cols, rows int) {
	v.frame = NewFramebuffer(FramebufferSize(cols, rows))
}

// Draw implements uv.Drawable. A frame of the wrong size (mid-resize) is
// skipped and the previous pixels are shown again.
func (v *TerminalView) Draw(scr uv.Screen, area uv.Rectangle) {
	v.exchange.CopyTo(v.frame)
	v.frame.Draw(scr, area)

	if v.Status == nil || area.Dy() == 0 {
		return
	}
	row := area.Max.Y - 1
	col := area.Min.X
	for _, r := range v.Status() {
		if col >= area.Max.X {
			break
		}
		scr.SetCell(col, row, &uv.Cell{
			Content: string(r),
			Width:   1,
			Style:   uv.Style{Fg: ColorWhite, Bg: ColorBlack},
		})
		col++
	}
}
