package render

import "math"

// ScreenPoint is a projected vertex. X and Y are pixel coordinates, W is
// the clip-space w used for perspective-correct texture coordinates (zero
// or negative means affine), and U, V address the texture with V=0 at the
// bottom edge.
type ScreenPoint struct {
	X, Y float64
	W    float64
	U, V float64
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

// triangleSetup holds the per-triangle state of the edge-function walker.
type triangleSetup struct {
	v                      [3]ScreenPoint
	a0, b0, c0             float64
	a1, b1, c1             float64
	a2, b2, c2             float64
	tl0, tl1, tl2          bool
	invArea                float64
	minX, maxX, minY, maxY int
}

// setupTriangle orders the vertices counter-clockwise in screen space and
// computes a clipped bounding box. ok is false for degenerate or fully
// off-screen triangles.
func setupTriangle(a, b, c ScreenPoint, width, height int) (s triangleSetup, ok bool) {
	area := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if area == 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		return s, false
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}
	s.v = [3]ScreenPoint{a, b, c}

	s.minX = max(0, int(math.Floor(min(a.X, b.X, c.X))))
	s.maxX = min(width-1, int(math.Ceil(max(a.X, b.X, c.X))))
	s.minY = max(0, int(math.Floor(min(a.Y, b.Y, c.Y))))
	s.maxY = min(height-1, int(math.Ceil(max(a.Y, b.Y, c.Y))))
	if s.minX > s.maxX || s.minY > s.maxY {
		return s, false
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	s.a0, s.b0, s.c0 = edgeCoeffs(b.X, b.Y, c.X, c.Y)
	s.a1, s.b1, s.c1 = edgeCoeffs(c.X, c.Y, a.X, a.Y)
	s.a2, s.b2, s.c2 = edgeCoeffs(a.X, a.Y, b.X, b.Y)
	s.tl0 = topLeft(s.a0, s.b0)
	s.tl1 = topLeft(s.a1, s.b1)
	s.tl2 = topLeft(s.a2, s.b2)
	s.invArea = 1.0 / area
	return s, true
}

// topLeft reports whether an edge with coefficients A, B is a left edge
// (interior toward +x) or a horizontal top edge (interior toward +y).
func topLeft(a, b float64) bool {
	return a > 0 || (a == 0 && b > 0)
}

// covers applies the top-left fill rule: a pixel center exactly on an edge
// belongs to the triangle only when that edge is top or left, so triangles
// sharing an edge never both claim it.
func covers(e float64, topLeft bool) bool {
	return e > 0 || (e == 0 && topLeft)
}

// walk calls fn for every pixel center inside the triangle with its
// barycentric weights. Edge functions are evaluated directly per pixel so
// the two triangles of a shared edge see exactly negated values.
func (s *triangleSetup) walk(fn func(x, y int, w0, w1, w2 float64)) {
	for y := s.minY; y <= s.maxY; y++ {
		py := float64(y) + 0.5
		for x := s.minX; x <= s.maxX; x++ {
			px := float64(x) + 0.5
			e0 := s.a0*px + s.b0*py + s.c0
			e1 := s.a1*px + s.b1*py + s.c1
			e2 := s.a2*px + s.b2*py + s.c2
			if covers(e0, s.tl0) && covers(e1, s.tl1) && covers(e2, s.tl2) {
				fn(x, y, e0*s.invArea, e1*s.invArea, e2*s.invArea)
			}
		}
	}
}

// FillTriangle fills a triangle with a flat color. Either winding is
// accepted; translucent colors are alpha blended.
func (fb *Framebuffer) FillTriangle(a, b, c ScreenPoint, col Color) {
	s, ok := setupTriangle(a, b, c, fb.Width, fb.Height)
	if !ok || col.A == 0 {
		return
	}
	pixels, width := fb.Pixels, fb.Width
	s.walk(func(x, y int, _, _, _ float64) {
		i := y*width + x
		if col.A == 255 {
			pixels[i] = col
		} else {
			pixels[i] = BlendOver(pixels[i], col)
		}
	})
}

// FillTriangleTextured maps tex across the triangle with perspective-correct
// interpolation. Texels with zero alpha are skipped so masks stay see-through.
func (fb *Framebuffer) FillTriangleTextured(a, b, c ScreenPoint, tex *Texture) {
	if tex == nil {
		return
	}
	s, ok := setupTriangle(a, b, c, fb.Width, fb.Height)
	if !ok {
		return
	}

	var invW [3]float64
	for i, v := range s.v {
		if v.W > 0 {
			invW[i] = 1.0 / v.W
		} else {
			invW[i] = 1
		}
	}
	v0, v1, v2 := s.v[0], s.v[1], s.v[2]
	pixels, width := fb.Pixels, fb.Width

	s.walk(func(x, y int, w0, w1, w2 float64) {
		p0, p1, p2 := w0*invW[0], w1*invW[1], w2*invW[2]
		oneOverW := p0 + p1 + p2
		if oneOverW == 0 {
			return
		}
		u := (p0*v0.U + p1*v1.U + p2*v2.U) / oneOverW
		v := (p0*v0.V + p1*v1.V + p2*v2.V) / oneOverW

		texel := tex.Sample(u, v)
		switch texel.A {
		case 0:
			return
		case 255:
			pixels[y*width+x] = texel
		default:
			pixels[y*width+x] = BlendOver(pixels[y*width+x], texel)
		}
	})
}

// FillQuad fills a convex quad given in perimeter order.
func (fb *Framebuffer) FillQuad(q [4]ScreenPoint, col Color) {
	fb.FillTriangle(q[0], q[1], q[2], col)
	fb.FillTriangle(q[0], q[2], q[3], col)
}

// FillQuadTextured maps tex across a convex quad given in perimeter order.
func (fb *Framebuffer) FillQuadTextured(q [4]ScreenPoint, tex *Texture) {
	fb.FillTriangleTextured(q[0], q[1], q[2], tex)
	fb.FillTriangleTextured(q[0], q[2], q[3], tex)
}
