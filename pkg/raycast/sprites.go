package raycast

import (
	"cmp"
	"math"
	"slices"

	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/render"
)

// Sprite is a camera-facing billboard standing on the floor.
type Sprite struct {
	Pos     math3d.Vec2
	Scale   float64 // height relative to a wall; 0 means 1
	Texture *render.Texture
	Color   render.Color // drawn when Texture is nil
}

// DrawSprites draws sprites far to near, hiding every sprite column that
// lies behind the wall strip in the same screen column. columns must be
// the result of the Render call that drew fb.
func (r *Renderer) DrawSprites(fb *render.Framebuffer, cam Camera, columns []Column, sprites []Sprite) int {
	type visible struct {
		s    Sprite
		perp float64
		off  float64
		dist float64
	}

	w, h := fb.Size()
	fwd := cam.Yaw.Dir()
	list := make([]visible, 0, len(sprites))
	for _, s := range sprites {
		rel := s.Pos.Sub(cam.Pos)
		perp := rel.Dot(fwd)
		if perp <= 0.05 {
			continue
		}
		off := math.Atan2(fwd.Cross(rel), perp)
		if math.Abs(off) > cam.FOV {
			continue
		}
		list = append(list, visible{s: s, perp: perp, off: off, dist: rel.Len()})
	}
	slices.SortFunc(list, func(a, b visible) int { return cmp.Compare(b.perp, a.perp) })

	horizon := cam.HorizonY(h)
	drawn := 0
	for _, v := range list {
		scale := v.s.Scale
		if scale <= 0 {
			scale = 1
		}
		size := float64(h) / v.perp * scale
		centerX := (v.off/cam.FOV + 0.5) * float64(w)
		bottom := horizon + cam.Z*float64(h)/v.perp
		top := bottom - size
		left := centerX - size/2

		x0 := max(0, int(math.Ceil(left-0.5)))
		x1 := min(w, int(math.Ceil(left+size-0.5)))
		y0 := max(0, int(math.Ceil(top-0.5)))
		y1 := min(h, int(math.Ceil(bottom-0.5)))

		drewAny := false
		for x := x0; x < x1; x++ {
			if x < len(columns) && v.perp >= columns[x].Dist {
				continue
			}
			u := (float64(x) + 0.5 - left) / size
			for y := y0; y < y1; y++ {
				c := v.s.Color
				if v.s.Texture != nil {
					t := (float64(y) + 0.5 - top) / size
					c = v.s.Texture.At(int(u*float64(v.s.Texture.Width)), int(t*float64(v.s.Texture.Height)))
				}
				if c.A == 0 {
					continue
				}
				fb.BlendPixel(x, y, render.Fog(c, cam.Background, v.dist, cam.MaxDistance))
				drewAny = true
			}
		}
		if drewAny {
			drawn++
		}
	}
	return drawn
}
