package raycast

import (
	"math"

	"github.com/taigrr/gridsight/pkg/render"
)

// Column describes the wall strip drawn for one screen column. Dist is the
// fisheye-corrected distance and is +Inf where nothing was hit.
type Column struct {
	Dist   float64
	Top    float64 // unclipped strip top in pixels
	Bottom float64 // unclipped strip bottom in pixels
	WallID int
	Side   Side
}

// Height returns the unclipped strip height.
func (c Column) Height() float64 { return c.Bottom - c.Top }

// Renderer draws a GridMap as textured, fogged wall columns over a flat
// floor and ceiling.
type Renderer struct {
	Textures     render.TextureProvider // optional; walls fall back to palette colors
	FloorColor   render.Color
	CeilingColor render.Color
	SideShade    float64 // brightness of SideY faces

	columns []Column
}

// NewRenderer creates a renderer drawing textures from tp.
func NewRenderer(tp render.TextureProvider) *Renderer {
	return &Renderer{
		Textures:     tp,
		FloorColor:   render.RGB(70, 62, 54),
		CeilingColor: render.RGB(46, 46, 58),
		SideShade:    0.75,
	}
}

// Render draws one frame into fb and returns the per-column strips. The
// returned slice is reused by the next call.
func (r *Renderer) Render(fb *render.Framebuffer, m *GridMap, cam Camera) []Column {
	w, h := fb.Size()
	if cap(r.columns) < w {
		r.columns = make([]Column, w)
	}
	r.columns = r.columns[:w]

	horizon := cam.HorizonY(h)
	r.drawFloorCeiling(fb, cam, horizon)

	for col := range w {
		angle := cam.RayAngle(col, w)
		hit := Cast(m, cam.Pos, angle, cam.MaxDistance)
		if !hit.Hit {
			r.columns[col] = Column{Dist: math.Inf(1)}
			continue
		}

		// Fisheye correction: project onto the view direction.
		dist := hit.Dist * math.Cos(float64(angle.Sub(cam.Yaw)))
		dist = math.Max(dist, 1e-6)
		stripH := float64(h) / dist
		top := horizon - (1-cam.Z)*stripH
		bottom := horizon + cam.Z*stripH

		r.columns[col] = Column{Dist: dist, Top: top, Bottom: bottom, WallID: hit.WallID, Side: hit.Side}
		r.drawStrip(fb, col, hit, top, stripH, cam)
	}
	return r.columns
}

func (r *Renderer) drawStrip(fb *render.Framebuffer, col int, hit RayHit, top, stripH float64, cam Camera) {
	h := fb.Height
	y0 := max(0, int(math.Ceil(top-0.5)))
	y1 := min(h, int(math.Ceil(top+stripH-0.5)))
	if y0 >= y1 {
		return
	}

	shade := 1.0
	if hit.Side == SideY && r.SideShade > 0 {
		shade = r.SideShade
	}

	var tex *render.Texture
	if r.Textures != nil {
		tex, _ = r.Textures.Texture(hit.WallID)
	}
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		c := render.Fog(render.MultiplyColor(render.PaletteColor(hit.WallID), shade), cam.Background, hit.Dist, cam.MaxDistance)
		fb.DrawVLine(col, y0, y1, c)
		return
	}

	tx := tex.Column(hit.TexU)
	for y := y0; y < y1; y++ {
		v := (float64(y) + 0.5 - top) / stripH
		ty := min(int(v*float64(tex.Height)), tex.Height-1)
		c := tex.At(tx, ty)
		if shade != 1 {
			c = render.MultiplyColor(c, shade)
		}
		fb.Pixels[y*fb.Width+col] = render.Fog(c, cam.Background, hit.Dist, cam.MaxDistance)
	}
}

// drawFloorCeiling fills each row with the floor or ceiling color fogged
// by the distance at which that row meets the floor or ceiling plane.
func (r *Renderer) drawFloorCeiling(fb *render.Framebuffer, cam Camera, horizon float64) {
	w, h := fb.Size()
	for y := range h {
		dy := float64(y) + 0.5 - horizon
		var c render.Color
		var dist float64
		switch {
		case dy > 0:
			c, dist = r.FloorColor, cam.Z*float64(h)/dy
		case dy < 0:
			c, dist = r.CeilingColor, (1-cam.Z)*float64(h)/-dy
		default:
			c, dist = cam.Background, math.Inf(1)
		}
		c = render.Fog(c, cam.Background, dist, cam.MaxDistance)
		row := fb.Pixels[y*w : (y+1)*w]
		for x := range row {
			row[x] = c
		}
	}
}
