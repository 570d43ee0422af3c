package voxel

import (
	"fmt"
	"math"

	"github.com/taigrr/gridsight/pkg/render"
)

// Occlusion selects how the renderer hides terrain behind nearer terrain.
// All strategies produce the same frame for the same camera.
type Occlusion int

const (
	// OcclusionYBuffer keeps the topmost row drawn so far per column and
	// only draws the part of a strip above it.
	OcclusionYBuffer Occlusion = iota
	// OcclusionDepthBuffer keeps a depth per pixel and writes a pixel only
	// when the slice is nearer than what is stored.
	OcclusionDepthBuffer
	// OcclusionBatched clips like OcclusionYBuffer but queues the strips
	// and writes them all once the slices are done.
	OcclusionBatched
)

func (o Occlusion) String() string {
	switch o {
	case OcclusionYBuffer:
		return "ybuffer"
	case OcclusionDepthBuffer:
		return "depth"
	case OcclusionBatched:
		return "batched"
	}
	return "unknown"
}

// ParseOcclusion parses the name of an Occlusion strategy.
func ParseOcclusion(s string) (Occlusion, error) {
	for _, o := range []Occlusion{OcclusionYBuffer, OcclusionDepthBuffer, OcclusionBatched} {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown occlusion strategy %q", s)
}

// dzGrowth is added to the depth step after every slice so far slices
// thin out.
const dzGrowth = 0.005

// Stats counts the work done by one frame.
type Stats struct {
	Slices  int
	Columns int // column samples, Slices x screen width
	Spans   int // strips that wrote at least one pixel
	Pixels  int
}

type span struct {
	x, y0, y1 int
	c         render.Color
}

// Renderer draws a HeightmapPair. Buffers are kept between frames.
type Renderer struct {
	Occlusion Occlusion

	ybuf  []int
	depth []float64
	spans []span
}

// NewRenderer creates a renderer using occlusion strategy o.
func NewRenderer(o Occlusion) *Renderer {
	return &Renderer{Occlusion: o}
}

func (r *Renderer) reset(w, h int) {
	if cap(r.ybuf) < w {
		r.ybuf = make([]int, w)
	}
	r.ybuf = r.ybuf[:w]
	for i := range r.ybuf {
		r.ybuf[i] = h
	}
	if r.Occlusion == OcclusionDepthBuffer {
		if cap(r.depth) < w*h {
			r.depth = make([]float64, w*h)
		}
		r.depth = r.depth[:w*h]
		for i := range r.depth {
			r.depth[i] = math.Inf(1)
		}
	}
	r.spans = r.spans[:0]
}

// Render clears fb to the camera background and draws the terrain.
func (r *Renderer) Render(fb *render.Framebuffer, m *HeightmapPair, cam Camera) Stats {
	var st Stats
	w, h := fb.Size()
	fb.Clear(cam.Background)
	if w == 0 || h == 0 || cam.Distance <= 1 {
		return st
	}
	r.reset(w, h)

	fwd := cam.Yaw.Dir()
	right := fwd.Perp()
	halfWidth := math.Tan(cam.FOV / 2)
	cosPitch := math.Cos(cam.Pitch)
	scale := cam.scale(h)
	horizon := cam.HorizonY(h)

	dz := cam.StepStart
	if dz <= 0 {
		dz = 1
	}
	for z := 1.0; z < cam.Distance; z += dz {
		st.Slices++
		// Scan line across the view at depth z, left to right.
		center := fwd.Scale(z)
		left := center.Sub(right.Scale(z * halfWidth))
		step := right.Scale(2 * z * halfWidth / float64(w))
		px := cam.X + left.X + step.X/2
		py := cam.Y + left.Y + step.Y/2

		invZ := 1 / z
		for x := range w {
			ix, iy := int(math.Floor(px)), int(math.Floor(py))
			px += step.X
			py += step.Y
			st.Columns++

			y := (cam.Height-float64(m.HeightAt(ix, iy)))*cosPitch*invZ*scale + horizon
			top := max(0, min(h, int(math.Ceil(y-0.5))))
			c := render.Fog(m.ColorAt(ix, iy), cam.Background, z, cam.Distance)

			var n int
			switch r.Occlusion {
			case OcclusionDepthBuffer:
				n = r.depthSpan(fb, x, top, h, z, c)
			case OcclusionBatched:
				if top < r.ybuf[x] {
					r.spans = append(r.spans, span{x: x, y0: top, y1: r.ybuf[x], c: c})
					n = r.ybuf[x] - top
					r.ybuf[x] = top
				}
			default:
				if top < r.ybuf[x] {
					fb.DrawVLine(x, top, r.ybuf[x], c)
					n = r.ybuf[x] - top
					r.ybuf[x] = top
				}
			}
			if n > 0 {
				st.Spans++
				st.Pixels += n
			}
		}
		dz += dzGrowth
	}

	for _, s := range r.spans {
		fb.DrawVLine(s.x, s.y0, s.y1, s.c)
	}
	return st
}

// depthSpan writes rows [y0, y1) of column x wherever z is nearer than the
// stored depth and returns the number of pixels written.
func (r *Renderer) depthSpan(fb *render.Framebuffer, x, y0, y1 int, z float64, c render.Color) int {
	n := 0
	for y := y0; y < y1; y++ {
		i := y*fb.Width + x
		if z < r.depth[i] {
			r.depth[i] = z
			fb.Pixels[i] = c
			n++
		}
	}
	return n
}
