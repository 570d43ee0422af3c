package scene

import (
	"cmp"
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/render"
)

// Mode selects how faces are drawn.
type Mode int

const (
	ModeWireframe Mode = iota
	ModeSolid
	// ModeTextured draws faces with their resolved texture and falls back
	// to solid color when the id does not resolve.
	ModeTextured
)

func (m Mode) String() string {
	switch m {
	case ModeWireframe:
		return "wireframe"
	case ModeSolid:
		return "solid"
	case ModeTextured:
		return "textured"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses the name of a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeWireframe, ModeSolid, ModeTextured} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown render mode %q", s)
}

// Stats describes one rendered frame. LevelDraws holds the number of
// canvas draw calls issued for each level.
type Stats struct {
	CellsTested    int
	CellsCulled    int
	FacesDrawn     int
	FacesCulled    int
	LayersDrawn    int
	PropsDrawn     int
	ActorsDrawn    int
	ActorsCulled   int
	ActorsOccluded int
	LevelDraws     []int
}

// DefaultLight points toward a light above and slightly behind the
// default camera.
var DefaultLight = math3d.V3(0.3, 1, 0.5).Normalize()

// Renderer draws a Grid and its actors onto a render.Canvas. All geometry
// is collected first and drawn back to front, so the canvas needs no depth
// buffer.
type Renderer struct {
	Mode      Mode
	Textures  render.TextureProvider
	LightDir  math3d.Vec3 // toward the light
	Ambient   float64
	WireColor render.Color
	// LayerBias pulls layers toward the camera in the draw order so they
	// land on top of the floor they decorate.
	LayerBias float64

	gen   uint64
	items []item
	stats Stats
}

// NewRenderer creates a textured renderer.
func NewRenderer(tp render.TextureProvider) *Renderer {
	return &Renderer{
		Mode:      ModeTextured,
		Textures:  tp,
		LightDir:  DefaultLight,
		Ambient:   0.35,
		WireColor: render.ColorGreen,
		LayerBias: 0.05,
	}
}

type itemKind int

const (
	itemPoly itemKind = iota
	itemMask
	itemHook
	itemActor
)

// maxPoly bounds the vertex count of a quad clipped by the near plane.
const maxPoly = 8

type item struct {
	kind  itemKind
	depth float64
	level int
	poly  [maxPoly]render.ScreenPoint
	n     int
	color render.Color
	tex   *render.Texture
	hook  func(render.Canvas, [4]render.ScreenPoint)
	rect  image.Rectangle
}

// frame is the per-call state derived from the camera snapshot.
type frame struct {
	cam     render.Camera
	vp      math3d.Mat4
	frustum render.Frustum
	w, h    int
	near    float64
}

type quad struct {
	pts    [4]math3d.Vec3
	uv     [4][2]float64
	normal math3d.Vec3
}

var quadUV = [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// Render clears c and draws the grid and actors seen from cam.
func (r *Renderer) Render(c render.Canvas, cam render.Camera, g *Grid, actors []Actor) Stats {
	f := r.begin(c, cam, g.Levels)
	c.Clear(cam.Background)

	for level := range g.Levels {
		for y := range g.H {
			for x := range g.W {
				r.addCell(&f, g, x, y, level)
			}
		}
	}
	for i := range actors {
		r.addActor(&f, g, &actors[i])
	}

	r.flush(c)
	return r.stats
}

func (r *Renderer) begin(c render.Canvas, cam render.Camera, levels int) frame {
	w, h := c.Size()
	r.gen++
	r.items = r.items[:0]
	r.stats = Stats{LevelDraws: make([]int, levels)}
	vp := cam.ViewProjectionMatrix()
	return frame{
		cam:     cam,
		vp:      vp,
		frustum: render.NewFrustum(vp),
		w:       w,
		h:       h,
		near:    math.Max(cam.Near, 1e-4),
	}
}

func (r *Renderer) addCell(f *frame, g *Grid, x, y, level int) {
	cell := g.At(x, y, level)
	if cell.Empty() {
		return
	}
	r.stats.CellsTested++

	floorY, ceilY := g.Surfaces(cell, level)
	o := g.Origin(x, y, level)
	cn := cell.Corners(r.gen, o, g.CellSize, floorY, ceilY)

	// The corner test misses boxes the eye is inside of, so those are
	// always kept.
	box := render.AABB{Min: cn[0], Max: cn[7]}
	box.Min.Y -= max(0, cell.Floor.Thickness)
	box.Max.Y += max(0, cell.Ceiling.Thickness)
	if !box.ContainsPoint(f.cam.Position) && !f.frustum.BoxVisible(box) {
		r.stats.CellsCulled++
		return
	}

	for face := FaceNorth; face <= FaceCeiling; face++ {
		var present bool
		var thick float64
		switch face {
		case FaceFloor:
			present, thick = cell.Floor.Present, cell.Floor.Thickness
		case FaceCeiling:
			present, thick = cell.Ceiling.Present, cell.Ceiling.Thickness
		default:
			present, thick = cell.Walls[face].Present, cell.Walls[face].Thickness
		}
		if !present {
			continue
		}
		inner, outer := faceQuads(cn, face, max(0, thick))
		col := cell.color(face)
		tex := r.texture(cell.Textures[face])
		r.addQuad(f, inner, level, col, tex)
		r.addQuad(f, outer, level, col, tex)
	}

	for i := range cell.Layers {
		r.addLayer(f, &cell.Layers[i], cn, level)
	}
	if cell.Prop != nil {
		r.addProp(f, cell.Prop, o, floorY, g.CellSize, level)
	}
}

// faceQuads returns the two sides of a surface. Walls grow into the cell
// from its boundary; floors grow down and ceilings up.
func faceQuads(cn [8]math3d.Vec3, face Face, thick float64) (inner, outer quad) {
	var idx [4]int
	switch face {
	case FaceNorth:
		idx = [4]int{0, 1, 3, 2}
	case FaceSouth:
		idx = [4]int{5, 4, 6, 7}
	case FaceEast:
		idx = [4]int{1, 5, 7, 3}
	case FaceWest:
		idx = [4]int{4, 0, 2, 6}
	case FaceFloor:
		idx = [4]int{4, 5, 1, 0}
	case FaceCeiling:
		idx = [4]int{2, 3, 7, 6}
	}
	out := face.Outward()
	for i, k := range idx {
		inner.pts[i] = cn[k]
		outer.pts[i] = cn[k]
	}
	inner.uv, outer.uv = quadUV, quadUV
	inner.normal, outer.normal = out.Negate(), out

	var shift *quad
	var by math3d.Vec3
	if face == FaceFloor || face == FaceCeiling {
		shift, by = &outer, out.Scale(thick)
	} else {
		shift, by = &inner, out.Scale(-thick)
	}
	for i := range shift.pts {
		shift.pts[i] = shift.pts[i].Add(by)
	}
	return inner, outer
}

func (r *Renderer) texture(id int) *render.Texture {
	if id == 0 || r.Textures == nil {
		return nil
	}
	tex, ok := r.Textures.Texture(id)
	if !ok {
		return nil
	}
	return tex
}

func (r *Renderer) shade(f *frame, col render.Color, normal math3d.Vec3, dist float64) render.Color {
	light := r.LightDir
	if light == (math3d.Vec3{}) {
		light = DefaultLight
	}
	diffuse := math.Max(0, normal.Dot(light))
	col = render.MultiplyColor(col, r.Ambient+(1-r.Ambient)*diffuse)
	return render.Fog(col, f.cam.Background, dist, f.cam.Far)
}

func center(pts []math3d.Vec3) math3d.Vec3 {
	var c math3d.Vec3
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}

// addQuad backface-culls, clips and queues one face. It reports whether
// the face was queued.
func (r *Renderer) addQuad(f *frame, q quad, level int, col render.Color, tex *render.Texture) bool {
	mid := center(q.pts[:])
	if q.normal.Dot(f.cam.Position.Sub(mid)) <= 0 {
		r.stats.FacesCulled++
		return false
	}
	it := item{kind: itemPoly, level: level, depth: mid.Distance(f.cam.Position)}
	it.n = f.clip(q.pts[:], q.uv[:], &it.poly)
	if it.n < 3 {
		r.stats.FacesCulled++
		return false
	}
	it.color = r.shade(f, col, q.normal, it.depth)
	if r.Mode == ModeTextured {
		it.tex = tex
	}
	r.items = append(r.items, it)
	r.stats.FacesDrawn++
	return true
}

type clipVert struct {
	p    math3d.Vec4
	u, v float64
}

// clip transforms a convex polygon to clip space, cuts it at w = near and
// projects the remainder into out. It returns the vertex count.
func (f *frame) clip(pts []math3d.Vec3, uv [][2]float64, out *[maxPoly]render.ScreenPoint) int {
	var in [maxPoly]clipVert
	m := min(len(pts), maxPoly/2)
	for i := range m {
		in[i] = clipVert{p: f.vp.MulVec4(math3d.Point4(pts[i])), u: uv[i][0], v: uv[i][1]}
	}

	var kept [maxPoly]clipVert
	n := 0
	for i := range m {
		a, b := in[i], in[(i+1)%m]
		aIn, bIn := a.p.W >= f.near, b.p.W >= f.near
		if aIn {
			kept[n] = a
			n++
		}
		if aIn != bIn {
			t := (f.near - a.p.W) / (b.p.W - a.p.W)
			kept[n] = clipVert{p: a.p.Lerp(b.p, t), u: a.u + (b.u-a.u)*t, v: a.v + (b.v-a.v)*t}
			n++
		}
	}
	for i := range n {
		sp := render.ToScreen(kept[i].p, f.w, f.h)
		sp.U, sp.V = kept[i].u, kept[i].v
		out[i] = sp
	}
	return n
}

// addLayer queues a decoration layer as a horizontal quad above the floor.
// Layers only face up, so a camera at or below the layer culls it.
func (r *Renderer) addLayer(f *frame, l *CellLayer, cn [8]math3d.Vec3, level int) {
	y := cn[0].Y + l.Height
	if f.cam.Position.Y <= y {
		return
	}
	pts := []math3d.Vec3{
		math3d.V3(cn[4].X, y, cn[4].Z),
		math3d.V3(cn[5].X, y, cn[5].Z),
		math3d.V3(cn[1].X, y, cn[1].Z),
		math3d.V3(cn[0].X, y, cn[0].Z),
	}
	mid := center(pts)
	it := item{level: level, depth: mid.Distance(f.cam.Position) - r.LayerBias}
	it.n = f.clip(pts, quadUV[:], &it.poly)
	if it.n < 3 {
		return
	}

	switch {
	case l.Draw != nil && it.n == 4:
		it.kind, it.hook = itemHook, l.Draw
	case l.Mask != nil:
		it.kind, it.tex = itemMask, l.Mask
	default:
		it.kind = itemPoly
		it.color = l.Color
		if l.Blend {
			fade := l.Fade
			if fade <= 0 {
				fade = 1
			}
			opacity := math.Max(0, math.Min(1, (f.cam.Position.Y-y)/fade))
			it.color.A = uint8(float64(l.Color.A) * opacity)
		}
		if it.color.A == 0 {
			return
		}
	}
	r.items = append(r.items, it)
	r.stats.LayersDrawn++
}

// addProp queues the front-facing triangles of a prop standing on the
// floor in the middle of its cell.
func (r *Renderer) addProp(f *frame, p *Prop, origin math3d.Vec3, floorY, size float64, level int) {
	m := p.Mesh
	if m == nil || m.TriangleCount() == 0 {
		return
	}
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	base := math3d.V3(origin.X+size/2, floorY, origin.Z+size/2)
	model := math3d.Model(base, p.Yaw, scale)

	lo, hi := m.GetBounds()
	if !f.frustum.BoxVisible(render.NewAABB(lo, hi).Transform(model)) {
		return
	}

	fallback := p.Color
	if fallback.A == 0 {
		fallback = render.ColorGray
	}
	queued := false
	for i := range m.TriangleCount() {
		face := m.GetFace(i)
		var pts [3]math3d.Vec3
		var uv [3][2]float64
		for k, vi := range face {
			pos, _, tc := m.GetVertex(vi)
			pts[k] = model.MulVec3(pos)
			uv[k] = [2]float64{tc.X, tc.Y}
		}
		normal := pts[1].Sub(pts[0]).Cross(pts[2].Sub(pts[0])).Normalize()
		mid := center(pts[:])
		if normal.Dot(f.cam.Position.Sub(mid)) <= 0 {
			continue
		}
		it := item{kind: itemPoly, level: level, depth: mid.Distance(f.cam.Position)}
		it.n = f.clip(pts[:], uv[:], &it.poly)
		if it.n < 3 {
			continue
		}
		it.color = r.shade(f, m.FaceColor(i, fallback), normal, it.depth)
		if r.Mode == ModeTextured {
			it.tex = m.FaceTexture(i)
		}
		r.items = append(r.items, it)
		queued = true
	}
	if queued {
		r.stats.PropsDrawn++
	}
}

// addActor queues an actor's sprite unless it is off screen, behind the
// camera or hidden by the cell it stands in.
func (r *Renderer) addActor(f *frame, g *Grid, a *Actor) {
	mid := a.Pos.Add(math3d.V3(0, a.Height/2, 0))
	if !f.frustum.SphereVisible(mid, math.Max(a.Radius, a.Height/2)) {
		r.stats.ActorsCulled++
		return
	}
	sp, clip, ok := render.Project(f.vp, mid, f.w, f.h)
	if !ok || clip.W <= 0 {
		r.stats.ActorsCulled++
		return
	}

	_, _, level, _ := g.CellAt(a.Pos)
	if r.occluded(g, a) {
		r.stats.ActorsOccluded++
		return
	}

	ppu := f.cam.PixelsPerUnit(f.h) / clip.W
	hPix := a.Height * ppu
	wPix := 2 * a.Radius * ppu
	if a.Sprite != nil && a.Sprite.Height > 0 {
		wPix = hPix * float64(a.Sprite.Width) / float64(a.Sprite.Height)
	}
	rect := image.Rect(
		int(math.Round(sp.X-wPix/2)), int(math.Round(sp.Y-hPix/2)),
		int(math.Round(sp.X+wPix/2)), int(math.Round(sp.Y+hPix/2)),
	)
	if rect.Empty() {
		r.stats.ActorsCulled++
		return
	}

	it := item{kind: itemActor, level: level, depth: mid.Distance(f.cam.Position), rect: rect, tex: a.Sprite}
	it.color = render.Fog(a.Color, f.cam.Background, it.depth, f.cam.Far)
	it.n = 4
	it.poly = [maxPoly]render.ScreenPoint{
		{X: float64(rect.Min.X), Y: float64(rect.Min.Y), W: clip.W},
		{X: float64(rect.Max.X), Y: float64(rect.Min.Y), W: clip.W},
		{X: float64(rect.Max.X), Y: float64(rect.Max.Y), W: clip.W},
		{X: float64(rect.Min.X), Y: float64(rect.Max.Y), W: clip.W},
	}
	r.items = append(r.items, it)
	r.stats.ActorsDrawn++
}

// occluded reports whether the actor stands strictly between the floor
// and ceiling of its cell, the approximation for "behind a wall or under a
// roof". An actor on the floor surface or outside the grid is drawn.
func (r *Renderer) occluded(g *Grid, a *Actor) bool {
	x, y, level, ok := g.CellAt(a.Pos)
	if !ok {
		return false
	}
	floorY, ceilY := g.Surfaces(g.At(x, y, level), level)
	return a.Pos.Y > floorY && a.Pos.Y < ceilY
}

// flush draws the queued items far to near.
func (r *Renderer) flush(c render.Canvas) {
	slices.SortStableFunc(r.items, func(a, b item) int { return cmp.Compare(b.depth, a.depth) })
	for i := range r.items {
		n := r.draw(c, &r.items[i])
		if lv := r.items[i].level; lv >= 0 && lv < len(r.stats.LevelDraws) {
			r.stats.LevelDraws[lv] += n
		}
	}
}

// draw issues the canvas calls for one item and returns how many it made.
func (r *Renderer) draw(c render.Canvas, it *item) int {
	pts := it.poly[:it.n]
	switch it.kind {
	case itemActor:
		if it.tex != nil {
			c.DrawSpriteScaled(it.rect, it.tex)
		} else {
			c.DrawSolidQuad([4]render.ScreenPoint(pts), it.color)
		}
		return 1
	case itemHook:
		it.hook(c, [4]render.ScreenPoint(pts))
		return 1
	}

	if r.Mode == ModeWireframe {
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			c.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), r.WireColor)
		}
		return len(pts)
	}

	if it.tex != nil {
		if len(pts) == 4 {
			c.DrawTexturedQuad([4]render.ScreenPoint(pts), it.tex)
			return 1
		}
		for i := 1; i+1 < len(pts); i++ {
			c.DrawTexturedTriangle(pts[0], pts[i], pts[i+1], it.tex)
		}
		return len(pts) - 2
	}
	if len(pts) == 4 {
		c.DrawSolidQuad([4]render.ScreenPoint(pts), it.color)
		return 1
	}
	for i := 1; i+1 < len(pts); i++ {
		c.DrawSolidTriangle(pts[0], pts[i], pts[i+1], it.color)
	}
	return len(pts) - 2
}
