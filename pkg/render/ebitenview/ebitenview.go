// Package ebitenview shows the frames of a render.FrameExchange in an
// ebiten window. Rendering stays on the CPU; the window only uploads each
// new frame as a texture and scales it to the window.
package ebitenview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/gridsight/pkg/render"
)

// Game implements ebiten.Game.
type Game struct {
	exchange *render.FrameExchange
	img      *ebiten.Image
	buf      []byte
	seq      uint64
	w, h     int

	// Input runs once per tick. Returning an error ends the game;
	// ebiten.Termination ends it cleanly.
	Input func() error
}

// New creates a game presenting frames from ex.
func New(ex *render.FrameExchange) *Game {
	return &Game{exchange: ex}
}

// Update implements ebiten.Game. Escape quits.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.Input != nil {
		return g.Input()
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	w, h := g.exchange.Size()
	data, seq := g.exchange.EncodeInto(g.buf)
	g.buf = data
	// The exchange was resized between the two calls.
	if len(data) != w*h*render.BytesPerPixel {
		return
	}

	if g.img == nil || g.w != w || g.h != h {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(w, h)
		g.w, g.h = w, h
		g.seq = 0
	}
	if seq != g.seq {
		g.img.WritePixels(data)
		g.seq = seq
	}
	screen.DrawImage(g.img, nil)
}

// Layout implements ebiten.Game. The logical screen is the frame size and
// ebiten scales it to the window.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.exchange.Size()
}

// Run opens a window scale times the frame size and blocks until it is
// closed. input may be nil.
func Run(ex *render.FrameExchange, title string, scale int, input func() error) error {
	w, h := ex.Size()
	scale = max(1, scale)
	ebiten.SetWindowSize(w*scale, h*scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := New(ex)
	g.Input = input
	return ebiten.RunGame(g)
}
