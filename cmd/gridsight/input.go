package main

import (
	"sync"

	"github.com/charmbracelet/harmonica"
)

// controls is one frame of player intent. Axes run from -1 to 1; Turn is
// positive to the right and Look positive up.
type controls struct {
	Forward, Strafe float64
	Turn, Look      float64

	Jump  bool
	Cycle bool
	Map   bool
}

// inputState collects key presses from the presenter and hands them to the
// render loop. Terminals rarely report key releases, so held axes decay
// each frame instead of waiting for a release.
type inputState struct {
	mu sync.Mutex
	c  controls
}

// keyNames lists every key name press understands.
var keyNames = []string{
	"w", "s", "a", "d", "q", "e", "r", "f",
	"up", "down", "left", "right", "space", "tab", "m",
}

// press records a key by name and reports whether it is bound.
func (s *inputState) press(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch key {
	case "w", "up":
		s.c.Forward = 1
	case "s", "down":
		s.c.Forward = -1
	case "a", "left":
		s.c.Turn = -1
	case "d", "right":
		s.c.Turn = 1
	case "q":
		s.c.Strafe = -1
	case "e":
		s.c.Strafe = 1
	case "r":
		s.c.Look = 1
	case "f":
		s.c.Look = -1
	case "space":
		s.c.Jump = true
	case "tab":
		s.c.Cycle = true
	case "m":
		s.c.Map = true
	default:
		return false
	}
	return true
}

// release stops the axis driven by key.
func (s *inputState) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch key {
	case "w", "up", "s", "down":
		s.c.Forward = 0
	case "a", "left", "d", "right":
		s.c.Turn = 0
	case "q", "e":
		s.c.Strafe = 0
	case "r", "f":
		s.c.Look = 0
	}
}

// take returns the current controls, clears one-shot actions and decays
// the axes by decay.
func (s *inputState) take(decay float64) controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.c
	s.c.Forward *= decay
	s.c.Strafe *= decay
	s.c.Turn *= decay
	s.c.Look *= decay
	s.c.Jump, s.c.Cycle, s.c.Map = false, false, false
	return out
}

// turnAxis eases the turn rate toward the requested rate with a critically
// damped spring, so tapping a key in a terminal still turns smoothly.
type turnAxis struct {
	rate   float64
	accel  float64
	spring harmonica.Spring
}

func newTurnAxis(fps int) turnAxis {
	// Frequency 8.0 = quick response, damping 1.0 = no overshoot
	return turnAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0)}
}

func (a *turnAxis) Update(target float64) float64 {
	a.rate, a.accel = a.spring.Update(a.rate, a.accel, target)
	return a.rate
}
