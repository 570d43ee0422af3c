package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/gridsight/pkg/render"
	"github.com/taigrr/gridsight/pkg/render/ebitenview"
	"github.com/taigrr/gridsight/pkg/render/tcellview"
)

// app connects a world to a presenter. The render loop is the only writer
// of the world; presenters only see published frames and the status line.
type app struct {
	world    world
	exchange *render.FrameExchange
	input    *inputState
	hud      *HUD
	fps      int
	logger   *log.Logger

	mu     sync.Mutex
	status string
}

func (a *app) statusLine() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// renderLoop updates and renders the world at the target rate, publishing
// every frame to the exchange until ctx is done.
func (a *app) renderLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(a.fps))
	defer ticker.Stop()

	fb := render.NewFramebuffer(a.exchange.Size())
	turn := newTurnAxis(a.fps)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastFrame).Seconds()
			lastFrame = now
			if dt > 0.1 {
				dt = 0.1
			}

			if w, h := a.exchange.Size(); w != fb.Width || h != fb.Height {
				fb = render.NewFramebuffer(w, h)
			}

			c := a.input.take(0.8)
			c.Turn = turn.Update(c.Turn)
			a.world.Update(dt, c)
			a.world.Render(fb)
			a.hud.UpdateFPS()

			if !a.exchange.Publish(fb) {
				a.logger.Printf("dropped %dx%d frame after resize", fb.Width, fb.Height)
			}
			a.mu.Lock()
			a.status = fmt.Sprintf(" %.0f FPS | %s", a.hud.fps, a.world.Status())
			a.mu.Unlock()
		}
	}
}

// runUV presents frames with ultraviolet half blocks.
func (a *app) runUV(ctx context.Context, cancel context.CancelFunc) error {
	term := uv.DefaultTerminal()
	term.SetLogger(a.logger)

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	a.exchange.Resize(render.FramebufferSize(width, height))
	view := render.NewTerminalView(a.exchange, width, height)
	view.Status = a.statusLine

	go a.renderLoop(ctx)

	resize := make(chan uv.WindowSizeEvent, 1)
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case resize <- ev:
				default:
				}
			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c"):
					cancel()
					return
				default:
					for _, k := range keyNames {
						if ev.MatchString(k) {
							a.input.press(k)
							break
						}
					}
				}
			case uv.KeyReleaseEvent:
				for _, k := range keyNames {
					if ev.MatchString(k) {
						a.input.release(k)
						break
					}
				}
			}
		}
	}()

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	frame := time.NewTicker(time.Second / time.Duration(a.fps))
	defer frame.Stop()
	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		case ev := <-resize:
			a.logger.Printf("resize %dx%d", ev.Width, ev.Height)
			term.Erase()
			term.Resize(ev.Width, ev.Height)
			view.Resize(ev.Width, ev.Height)
			a.exchange.Resize(render.FramebufferSize(ev.Width, ev.Height))
		case <-frame.C:
			term.Draw(view)
			if err := term.Display(); err != nil {
				cleanup()
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}

// runTcell presents frames on a tcell screen.
func (a *app) runTcell(ctx context.Context, cancel context.CancelFunc) error {
	view, err := tcellview.New()
	if err != nil {
		return err
	}
	defer view.Close()

	a.exchange.Resize(view.FrameSize())
	go a.renderLoop(ctx)

	quit := make(chan struct{})
	defer close(quit)
	events := view.Events(quit)

	frame := time.NewTicker(time.Second / time.Duration(a.fps))
	defer frame.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				w, h := view.Resize()
				a.logger.Printf("resize %dx%d", w, h)
				a.exchange.Resize(w, h)
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					cancel()
					return nil
				}
				a.input.press(tcellKeyName(ev))
			}
		case <-frame.C:
			view.Present(a.exchange, a.statusLine())
		}
	}
}

// tcellKeyName maps a key event to the names used by inputState.
func tcellKeyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "space"
		}
		return strings.ToLower(string(ev.Rune()))
	}
	return ""
}

// ebitenKeys maps held ebiten keys to inputState names.
var ebitenKeys = []struct {
	key  ebiten.Key
	name string
}{
	{ebiten.KeyW, "w"}, {ebiten.KeyS, "s"}, {ebiten.KeyA, "a"}, {ebiten.KeyD, "d"},
	{ebiten.KeyQ, "q"}, {ebiten.KeyE, "e"}, {ebiten.KeyR, "r"}, {ebiten.KeyF, "f"},
	{ebiten.KeyArrowUp, "up"}, {ebiten.KeyArrowDown, "down"},
	{ebiten.KeyArrowLeft, "left"}, {ebiten.KeyArrowRight, "right"},
}

// runEbiten presents frames in a window. Windows report key state, so
// held keys are pressed every tick and one-shot keys on the first tick.
func (a *app) runEbiten(ctx context.Context, cancel context.CancelFunc, title string, scale int) error {
	go a.renderLoop(ctx)
	defer cancel()

	ticks := 0
	input := func() error {
		if ctx.Err() != nil {
			return ebiten.Termination
		}
		for _, k := range ebitenKeys {
			if ebiten.IsKeyPressed(k.key) {
				a.input.press(k.name)
			}
		}
		for key, name := range map[ebiten.Key]string{ebiten.KeySpace: "space", ebiten.KeyTab: "tab", ebiten.KeyM: "m"} {
			if inpututil.IsKeyJustPressed(key) {
				a.input.press(name)
			}
		}
		if ticks++; ticks%ebiten.TPS() == 0 {
			ebiten.SetWindowTitle(title + " |" + a.statusLine())
		}
		return nil
	}
	if err := ebitenview.Run(a.exchange, title, scale, input); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}
