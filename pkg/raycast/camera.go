package raycast

import (
	"math"

	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/render"
)

// Camera is the 2D first-person camera. Positions are in grid units with X
// along columns and Y along rows. Renderers copy the camera when a frame
// starts.
type Camera struct {
	Pos math3d.Vec2
	// Z is the eye height inside a cell, 0 at the floor and 1 at the top of
	// a wall.
	Z     float64
	Yaw   math3d.Angle
	Pitch float64 // radians, positive looks up
	FOV   float64 // horizontal, radians

	MaxDistance float64 // rays beyond this are left as background; <= 0 disables
	Horizon     float64 // extra horizon offset in pixels

	Background render.Color
}

// NewCamera returns a camera at pos facing yaw with default settings.
func NewCamera(pos math3d.Vec2, yaw math3d.Angle) Camera {
	return Camera{
		Pos:         pos,
		Z:           0.5,
		Yaw:         yaw,
		FOV:         math.Pi / 3,
		MaxDistance: 24,
		Background:  render.ColorFog,
	}
}

// RayAngle returns the heading of the ray for screen column col.
func (c Camera) RayAngle(col, width int) math3d.Angle {
	return c.Yaw - math3d.Angle(c.FOV/2) + math3d.Angle(float64(col)*c.FOV/float64(width))
}

// HorizonY returns the screen row of the horizon.
func (c Camera) HorizonY(height int) float64 {
	h := float64(height)
	return h/2 + c.Horizon + math.Tan(c.Pitch)*h/2
}

// Turn rotates the camera by delta radians.
func (c *Camera) Turn(delta float64) {
	c.Yaw = (c.Yaw + math3d.Angle(delta)).Normalize()
}

// Look tilts the camera, clamped short of straight up or down.
func (c *Camera) Look(delta float64) {
	const limit = math.Pi/2 - 0.2
	c.Pitch = math.Max(-limit, math.Min(limit, c.Pitch+delta))
}

// Move walks forward by distance and strafes right by strafe, sliding
// along walls of m. Each axis is tested on its own so the camera slides
// instead of stopping dead.
func (c *Camera) Move(m *GridMap, distance, strafe float64) {
	const radius = 0.2
	fwd := c.Yaw.Dir()
	right := fwd.Perp()
	delta := fwd.Scale(distance).Add(right.Scale(strafe))

	nx := c.Pos.X + delta.X
	if !blocked(m, nx+math.Copysign(radius, delta.X), c.Pos.Y) {
		c.Pos.X = nx
	}
	ny := c.Pos.Y + delta.Y
	if !blocked(m, c.Pos.X, ny+math.Copysign(radius, delta.Y)) {
		c.Pos.Y = ny
	}
}

func blocked(m *GridMap, x, y float64) bool {
	if m == nil {
		return false
	}
	col, row := math3d.V2(x, y).Cell()
	return m.Solid(row, col)
}
