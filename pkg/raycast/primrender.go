package raycast

import (
	"math"

	"github.com/taigrr/gridsight/pkg/render"
)

// Stats counts the work done by one PrimitiveRenderer frame.
type Stats struct {
	Rays   int
	Hits   int
	Faults int
}

// PrimitiveRenderer casts one ray per pixel through a CellMap. Unlike
// Renderer it can show floors, ceilings, ramps and objects at any height.
type PrimitiveRenderer struct {
	Textures  render.TextureProvider
	SideShade float64
}

// NewPrimitiveRenderer creates a renderer drawing textures from tp.
func NewPrimitiveRenderer(tp render.TextureProvider) *PrimitiveRenderer {
	return &PrimitiveRenderer{Textures: tp, SideShade: 0.75}
}

// RayFor returns the ray through the center of pixel (x, y).
func RayFor(cam Camera, x, y, width, height int) Ray {
	angle := cam.RayAngle(x, width)
	cosOff := math.Cos(float64(angle.Sub(cam.Yaw)))
	horizon := cam.HorizonY(height)
	return Ray{
		Origin: cam.Pos,
		Dir:    angle.Dir(),
		EyeZ:   cam.Z,
		Slope:  (horizon - (float64(y) + 0.5)) * cosOff / float64(height),
	}
}

// Render draws m into fb. Pixels whose ray hits nothing show the camera
// background.
func (r *PrimitiveRenderer) Render(fb *render.Framebuffer, m *CellMap, cam Camera) Stats {
	var st Stats
	w, h := fb.Size()
	for x := range w {
		for y := range h {
			ray := RayFor(cam, x, y, w, h)
			hit, faults := CastCells(m, ray, cam.MaxDistance)
			st.Rays++
			st.Faults += faults
			if !hit.OK() {
				fb.Pixels[y*w+x] = cam.Background
				continue
			}
			st.Hits++
			fb.Pixels[y*w+x] = r.shade(hit, cam)
		}
	}
	return st
}

func (r *PrimitiveRenderer) shade(hit Hit, cam Camera) render.Color {
	tex := hit.Texture
	if tex == nil && r.Textures != nil && hit.TextureID != 0 {
		tex, _ = r.Textures.Texture(hit.TextureID)
	}

	var c render.Color
	switch {
	case tex != nil:
		c = tex.Sample(hit.U, hit.V)
	case hit.Color.A != 0:
		c = hit.Color
	default:
		c = render.PaletteColor(hit.TextureID)
	}
	if hit.Axis == AxisY && r.SideShade > 0 {
		c = render.MultiplyColor(c, r.SideShade)
	}
	c.A = 255
	return render.Fog(c, cam.Background, hit.Dist, cam.MaxDistance)
}
