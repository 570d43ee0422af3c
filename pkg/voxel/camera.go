package voxel

import (
	"math"

	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/render"
)

// Camera looks across the terrain. X and Y are map coordinates and Yaw
// grows from +X toward +Y, like the raycast camera.
type Camera struct {
	X, Y   float64
	Height float64 // eye elevation in height-map units
	Yaw    math3d.Angle
	Pitch  float64 // radians, positive looks up

	Horizon   float64 // extra horizon offset in pixels
	Distance  float64 // far plane
	Scale     float64 // vertical pixels per height unit at depth 1; 0 uses the screen height
	StepStart float64 // depth step of the first slice
	FOV       float64 // horizontal, radians

	Background render.Color
}

// DefaultCamera returns a camera at (x, y) with default settings.
func DefaultCamera(x, y float64) Camera {
	return Camera{
		X:          x,
		Y:          y,
		Height:     120,
		Distance:   400,
		StepStart:  1,
		FOV:        math.Pi / 2,
		Background: render.ColorSky,
	}
}

// HorizonY returns the screen row of the horizon.
func (c Camera) HorizonY(height int) float64 {
	return float64(height)/2 + c.Horizon + math.Sin(c.Pitch)*c.scale(height)
}

func (c Camera) scale(height int) float64 {
	if c.Scale > 0 {
		return c.Scale
	}
	return float64(height)
}

// Move walks forward by distance and strafes right by strafe.
func (c *Camera) Move(distance, strafe float64) {
	fwd := c.Yaw.Dir()
	d := fwd.Scale(distance).Add(fwd.Perp().Scale(strafe))
	c.X += d.X
	c.Y += d.Y
}

// Turn rotates the camera by delta radians.
func (c *Camera) Turn(delta float64) {
	c.Yaw = (c.Yaw + math3d.Angle(delta)).Normalize()
}

// Follow keeps the camera at least clearance above the terrain below it.
func (c *Camera) Follow(m *HeightmapPair, clearance float64) {
	c.Height = math.Max(c.Height, m.HeightUnder(c.X, c.Y)+clearance)
}
