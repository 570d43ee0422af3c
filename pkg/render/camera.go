package render

import (
	"math"

	"github.com/taigrr/gridsight/pkg/math3d"
)

// Camera is the matrix camera used by the scene renderer. It is a plain
// value: renderers copy it when a frame starts and derive their matrices
// from that copy, so input handling can mutate the original between frames.
type Camera struct {
	Position math3d.Vec3

	Yaw   float64 // Rotation around Y; zero looks down -Z
	Pitch float64 // Rotation around the camera's right axis; positive looks up

	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64
	Far         float64

	Background Color
}

// NewCamera creates a camera with default settings.
func NewCamera() Camera {
	return Camera{
		FOV:         math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.05,
		Far:         64,
		Background:  ColorFog,
	}
}

// Forward returns the view direction.
func (c Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the horizontal right vector.
func (c Camera) Right() math3d.Vec3 {
	return math3d.V3(math.Cos(c.Yaw), 0, -math.Sin(c.Yaw))
}

// ViewMatrix returns the world-to-view transform.
func (c Camera) ViewMatrix() math3d.Mat4 {
	return math3d.FirstPerson(c.Position, c.Yaw, c.Pitch)
}

// ProjectionMatrix returns the perspective projection.
func (c Camera) ProjectionMatrix() math3d.Mat4 {
	return math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
}

// ViewProjectionMatrix returns the combined transform, view applied first.
func (c Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// MoveForward walks along the horizontal view direction.
func (c *Camera) MoveForward(distance float64) {
	c.Position.X -= math.Sin(c.Yaw) * distance
	c.Position.Z -= math.Cos(c.Yaw) * distance
}

// MoveRight strafes right (or left if negative).
func (c *Camera) MoveRight(distance float64) {
	c.Position = c.Position.Add(c.Right().Scale(distance))
}

// MoveUp moves along world up.
func (c *Camera) MoveUp(distance float64) {
	c.Position.Y += distance
}

// Rotate turns the camera, clamping pitch short of straight up or down.
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	const maxPitch = math.Pi/2 - 0.01
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, c.Pitch+deltaPitch))
	c.Yaw += deltaYaw
}

// LookAt points the camera at a target.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
}

// ToScreen maps a clip-space position to pixel coordinates. The caller is
// responsible for rejecting w <= 0.
func ToScreen(clip math3d.Vec4, width, height int) ScreenPoint {
	ndc := clip.PerspectiveDivide()
	return ScreenPoint{
		X: (ndc.X + 1) * 0.5 * float64(width),
		Y: (1 - ndc.Y) * 0.5 * float64(height),
		W: clip.W,
	}
}

// Project transforms a world point with vp. ok is false when the point is
// behind the eye (clip w <= 0).
func Project(vp math3d.Mat4, world math3d.Vec3, width, height int) (ScreenPoint, math3d.Vec4, bool) {
	clip := vp.MulVec4(math3d.Point4(world))
	if clip.W <= 0 {
		return ScreenPoint{}, clip, false
	}
	return ToScreen(clip, width, height), clip, true
}

// PixelsPerUnit returns how many pixels one world unit spans vertically at
// view distance 1.
func (c Camera) PixelsPerUnit(height int) float64 {
	return float64(height) / 2 / math.Tan(c.FOV/2)
}
