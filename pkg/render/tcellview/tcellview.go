// Package tcellview presents frames on a tcell screen using half blocks:
// each cell shows two pixels, the upper as the foreground of ▀ and the
// lower as its background.
package tcellview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/taigrr/gridsight/pkg/render"
)

// View owns a tcell screen and the local copy of the frame it shows.
type View struct {
	screen tcell.Screen
	frame  *render.Framebuffer
	seq    uint64
}

// New initializes the terminal and returns a view on it.
func New() (*View, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return NewWithScreen(s), nil
}

// NewWithScreen wraps an initialized screen.
func NewWithScreen(s tcell.Screen) *View {
	s.HideCursor()
	cols, rows := s.Size()
	return &View{
		screen: s,
		frame:  render.NewFramebuffer(render.FramebufferSize(cols, rows)),
	}
}

// Screen returns the underlying screen.
func (v *View) Screen() tcell.Screen { return v.screen }

// FrameSize returns the pixel size that fills the screen.
func (v *View) FrameSize() (width, height int) { return v.frame.Size() }

// Resize adapts the view to the current screen size and returns the new
// frame size. Call it on *tcell.EventResize.
func (v *View) Resize() (width, height int) {
	cols, rows := v.screen.Size()
	v.frame = render.NewFramebuffer(render.FramebufferSize(cols, rows))
	v.seq = 0
	v.screen.Sync()
	return v.frame.Size()
}

// Present shows the latest frame of ex with status on the bottom row. It
// reports false and leaves the screen alone when the exchange holds no
// new frame of the view's size.
func (v *View) Present(ex *render.FrameExchange, status string) bool {
	seq, ok := ex.CopyTo(v.frame)
	if !ok || seq == v.seq {
		return false
	}
	v.seq = seq
	Draw(v.screen, v.frame)

	if status != "" {
		_, rows := v.screen.Size()
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
		col := 0
		for _, r := range status {
			v.screen.SetContent(col, rows-1, r, nil, style)
			col++
		}
	}
	v.screen.Show()
	return true
}

// Events forwards screen events until quit is closed.
func (v *View) Events(quit <-chan struct{}) <-chan tcell.Event {
	ch := make(chan tcell.Event, 16)
	go v.screen.ChannelEvents(ch, quit)
	return ch
}

// Close restores the terminal.
func (v *View) Close() { v.screen.Fini() }

// Draw writes fb onto s without showing it.
func Draw(s tcell.Screen, fb *render.Framebuffer) {
	cols, rows := s.Size()
	cols = min(cols, fb.Width)
	for row := range rows {
		for col := range cols {
			top := fb.GetPixel(col, row*2)
			bot := fb.GetPixel(col, row*2+1)
			style := tcell.StyleDefault.Foreground(toColor(top)).Background(toColor(bot))
			s.SetContent(col, row, '▀', nil, style)
		}
	}
}

// toColor maps fully transparent pixels to the terminal default.
func toColor(c render.Color) tcell.Color {
	if c.A == 0 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
