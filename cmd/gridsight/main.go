// gridsight - first-person grid world renderer
// Walk a wall map, a voxel landscape or a stacked-cell dungeon in your
// terminal or in a window.
//
// Controls:
//
//	W/S, Up/Down     - Move forward/back
//	A/D, Left/Right  - Turn
//	Q/E              - Strafe left/right
//	R/F              - Look up/down
//	Space            - Jump (dungeon)
//	M                - Toggle minimap
//	Tab              - Cycle render mode
//	Esc              - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/taigrr/gridsight/internal/config"
	"github.com/taigrr/gridsight/pkg/render"
)

var (
	configPath = flag.String("config", "", "Path to YAML config")
	worldName  = flag.String("mode", "raycast", "World: raycast, cells, voxel or dungeon")
	backend    = flag.String("backend", "uv", "Presenter: uv, tcell or ebiten")
	targetFPS  = flag.Int("fps", 0, "Target FPS (0 uses the config)")
	bgColor    = flag.String("bg", "", "Background color (R,G,B)")
	logPath    = flag.String("log", "", "Write a debug log to this file")
	snapshot   = flag.String("snapshot", "", "Render one frame to this PNG and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gridsight - first-person grid world renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: gridsight [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/S A/D     - Move and turn (arrows work too)\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Strafe\n")
		fmt.Fprintf(os.Stderr, "  R/F         - Look up/down\n")
		fmt.Fprintf(os.Stderr, "  Space       - Jump (dungeon)\n")
		fmt.Fprintf(os.Stderr, "  M           - Toggle minimap\n")
		fmt.Fprintf(os.Stderr, "  Tab         - Cycle render mode\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if *targetFPS > 0 {
		cfg.Display.FPS = *targetFPS
	}

	logger, closeLog, err := newLogger(*logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	w, err := newWorld(*worldName, cfg)
	if err != nil {
		return err
	}
	if *bgColor != "" {
		bg, err := parseColor(*bgColor)
		if err != nil {
			return err
		}
		w.SetBackground(bg)
	}
	logger.Printf("world %s, backend %s, %d fps", *worldName, *backend, cfg.Display.FPS)

	if *snapshot != "" {
		return saveSnapshot(w, cfg.Display.Width, cfg.Display.Height, *snapshot)
	}

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	ex := render.NewFrameExchange(cfg.Display.Width, cfg.Display.Height)
	a := &app{
		world:    w,
		exchange: ex,
		input:    &inputState{},
		hud:      newHUD(),
		fps:      cfg.Display.FPS,
		logger:   logger,
	}

	switch *backend {
	case "uv":
		return a.runUV(ctx, cancel)
	case "tcell":
		return a.runTcell(ctx, cancel)
	case "ebiten":
		return a.runEbiten(ctx, cancel, cfg.Display.WindowTitle, cfg.Display.WindowScale)
	default:
		return fmt.Errorf("unknown backend %q (use uv, tcell or ebiten)", *backend)
	}
}

// newLogger opens the debug log. The terminal backends own the screen, so
// without a path everything is discarded.
func newLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return log.New(f, "gridsight ", log.LstdFlags|log.Lmicroseconds), func() { f.Close() }, nil
}

func parseColor(s string) (render.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return render.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return render.RGB(r, g, b), nil
}

func saveSnapshot(w world, width, height int, path string) error {
	fb := render.NewFramebuffer(width, height)
	w.Update(0, controls{})
	w.Render(fb)
	if err := fb.SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
