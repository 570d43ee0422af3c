package main

import (
	"image"
	"math"
	"time"

	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/raycast"
	"github.com/taigrr/gridsight/pkg/render"
)

// HUD tracks the frame rate shown on the status line.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func newHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// minimap is a top-down view of a wall map drawn in a corner of the frame.
type minimap struct {
	walls *render.Framebuffer
	scale int
}

// newMinimap pre-renders the walls of m at scale pixels per cell. Open
// cells stay transparent.
func newMinimap(m *raycast.GridMap, scale int) *minimap {
	fb := render.NewFramebuffer(m.Width()*scale, m.Height()*scale)
	for row := range m.Height() {
		for col := range m.Width() {
			id, _ := m.At(row, col)
			if id == 0 {
				continue
			}
			fb.DrawRect(col*scale, row*scale, scale, scale, render.PaletteColor(id))
		}
	}
	return &minimap{walls: fb, scale: scale}
}

// Draw places the map in the top right corner with the player at pos
// (in cells) looking along yaw.
func (mm *minimap) Draw(c render.Canvas, pos math3d.Vec2, yaw math3d.Angle) {
	w, _ := c.Size()
	size := image.Rect(0, 0, mm.walls.Width, mm.walls.Height)
	if size.Dx()+4 > w {
		return
	}
	at := image.Pt(w-size.Dx()-2, 2)

	c.BlendRect(size.Add(at).Inset(-1), render.RGBA(0, 0, 0, 140))
	c.BlitRegion(mm.walls, size, at)

	s := float64(mm.scale)
	px := at.X + int(pos.X*s)
	py := at.Y + int(pos.Y*s)
	dir := yaw.Dir().Scale(s * 1.5)
	c.DrawLine(px, py, px+int(math.Round(dir.X)), py+int(math.Round(dir.Y)), render.ColorYellow)
	c.BlendRect(image.Rect(px-1, py-1, px+1, py+1), render.ColorRed)
}
