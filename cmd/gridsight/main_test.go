package main

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/taigrr/gridsight/internal/config"
	"github.com/taigrr/gridsight/pkg/render"
)

func TestWorldsRender(t *testing.T) {
	for _, name := range []string{"raycast", "cells", "voxel", "dungeon"} {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Voxel.Size = 64
			w, err := newWorld(name, cfg)
			if err != nil {
				t.Fatalf("newWorld(%q): %v", name, err)
			}

			fb := render.NewFramebuffer(64, 40)
			w.Update(1.0/30, controls{Forward: 1, Turn: 0.5})
			w.Render(fb)

			first := fb.Pixels[0]
			uniform := true
			for _, p := range fb.Pixels {
				if p != first {
					uniform = false
					break
				}
			}
			if uniform {
				t.Error("rendered frame is a single color")
			}
			if w.Status() == "" {
				t.Error("empty status line")
			}
		})
	}
}

func TestUnknownWorld(t *testing.T) {
	if _, err := newWorld("maze", config.Default()); err == nil {
		t.Error("newWorld accepted unknown name")
	}
}

func TestSnapshot(t *testing.T) {
	w, err := newWorld("raycast", config.Default())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := saveSnapshot(w, 32, 20, path); err != nil {
		t.Fatalf("saveSnapshot: %v", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    render.Color
		wantErr bool
	}{
		{"10,20,30", render.RGB(10, 20, 30), false},
		{"0,0,0", render.RGB(0, 0, 0), false},
		{"red", render.Color{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseColor(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseColor(%q) err = %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("parseColor(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestInputDecayAndOneShots(t *testing.T) {
	var in inputState
	if in.press("x") {
		t.Error("unbound key reported as bound")
	}
	in.press("w")
	in.press("left")
	in.press("space")

	c := in.take(0.5)
	if c.Forward != 1 || c.Turn != -1 || !c.Jump {
		t.Fatalf("first take = %+v", c)
	}

	c = in.take(0.5)
	if math.Abs(c.Forward-0.5) > 1e-9 || math.Abs(c.Turn+0.5) > 1e-9 {
		t.Errorf("decayed axes = %v, %v, want 0.5, -0.5", c.Forward, c.Turn)
	}
	if c.Jump {
		t.Error("jump repeated on second take")
	}

	in.release("w")
	if c = in.take(0.5); c.Forward != 0 {
		t.Errorf("forward after release = %v", c.Forward)
	}
}

func TestTurnAxisSettles(t *testing.T) {
	a := newTurnAxis(30)
	var rate float64
	for range 120 {
		rate = a.Update(1)
	}
	if math.Abs(rate-1) > 0.01 {
		t.Errorf("turn rate after 4s = %v, want 1", rate)
	}
	if first := newTurnAxis(30); first.Update(1) >= 1 {
		t.Error("turn rate jumped straight to target")
	}
}
