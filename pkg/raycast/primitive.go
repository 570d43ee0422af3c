package raycast

import (
	"fmt"
	"math"

	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/render"
)

// Kind selects which surface a Primitive describes.
type Kind int

const (
	KindWall Kind = iota
	KindFloor
	KindCeiling
	KindRamp
	KindCube
	KindDecoration
)

func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindFloor:
		return "floor"
	case KindCeiling:
		return "ceiling"
	case KindRamp:
		return "ramp"
	case KindCube:
		return "cube"
	case KindDecoration:
		return "decoration"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Edge names a side of a cell. North is the low-row side.
type Edge int

const (
	EdgeNorth Edge = iota // y = 0
	EdgeSouth             // y = 1
	EdgeEast              // x = 1
	EdgeWest              // x = 0
)

// Status is the outcome of one intersection test.
type Status int

const (
	StatusMiss Status = iota
	StatusHit
	// StatusFault marks a primitive whose geometry could not be
	// intersected. It counts as a miss for that primitive only.
	StatusFault
)

// Axis is the orientation of the surface that was hit.
type Axis int

const (
	AxisX Axis = iota // vertical surface facing east or west
	AxisY             // vertical surface facing north or south
	AxisZ             // horizontal or sloped surface
)

// Ray is a 3D ray expressed as a ground ray plus a vertical slope.
// Distances are measured along the ground.
type Ray struct {
	Origin math3d.Vec2
	Dir    math3d.Vec2 // unit length
	EyeZ   float64     // origin height; 0 is the floor and 1 a wall top
	Slope  float64     // rise per unit of ground distance
}

// At returns the ground point at distance t.
func (r Ray) At(t float64) math3d.Vec2 { return r.Origin.Add(r.Dir.Scale(t)) }

// ZAt returns the ray height at distance t.
func (r Ray) ZAt(t float64) float64 { return r.EyeZ + r.Slope*t }

// Hit is the result of intersecting a ray with a primitive.
type Hit struct {
	Status    Status
	Dist      float64
	U, V      float64 // texture coordinates, V = 0 at the bottom
	Axis      Axis
	Kind      Kind
	TextureID int
	Texture   *render.Texture
	Color     render.Color
}

// OK reports whether the hit is a valid intersection.
func (h Hit) OK() bool { return h.Status == StatusHit }

// Primitive is one surface inside a cell. Which fields apply depends on
// Kind; coordinates are cell-local with the cell spanning [0,1] on both
// ground axes.
type Primitive struct {
	Kind      Kind
	TextureID int
	Texture   *render.Texture // bound texture, used before TextureID
	Color     render.Color

	// Wall: the edge it stands on and how far it reaches into the cell.
	// Ramp: the edge at which it reaches Z1.
	Edge      Edge
	Thickness float64

	// Vertical span for walls, cubes and decorations. Floors and
	// ceilings sit at Z0. Ramps rise from Z0 to Z1.
	Z0, Z1 float64

	// Cube footprint.
	Min, Max math3d.Vec2

	// Decoration billboard position and width.
	Center math3d.Vec2
	Width  float64
}

// Wall returns a wall primitive on edge e spanning the full cell height.
func Wall(e Edge, thickness float64, textureID int) Primitive {
	return Primitive{Kind: KindWall, Edge: e, Thickness: thickness, Z0: 0, Z1: 1, TextureID: textureID}
}

// Floor returns a floor at height z.
func Floor(z float64, textureID int) Primitive {
	return Primitive{Kind: KindFloor, Z0: z, TextureID: textureID}
}

// Ceiling returns a ceiling at height z.
func Ceiling(z float64, textureID int) Primitive {
	return Primitive{Kind: KindCeiling, Z0: z, TextureID: textureID}
}

// Ramp returns a slope rising from z0 to z1 toward edge e.
func Ramp(e Edge, z0, z1 float64, textureID int) Primitive {
	return Primitive{Kind: KindRamp, Edge: e, Z0: z0, Z1: z1, TextureID: textureID}
}

// Cube returns a box with the given footprint and vertical span.
func Cube(lo, hi math3d.Vec2, z0, z1 float64, textureID int) Primitive {
	return Primitive{Kind: KindCube, Min: lo, Max: hi, Z0: z0, Z1: z1, TextureID: textureID}
}

// Decoration returns a camera-facing billboard.
func Decoration(center math3d.Vec2, width, z0, z1 float64, tex *render.Texture) Primitive {
	return Primitive{Kind: KindDecoration, Center: center, Width: width, Z0: z0, Z1: z1, Texture: tex}
}

// Intersect tests ray against the primitive placed in cell (cellX, cellY).
// Only hits with tEnter <= t <= tExit count, where the interval is the
// part of the ray inside the cell.
func (p *Primitive) Intersect(ray Ray, cellX, cellY int, tEnter, tExit float64) Hit {
	if !p.valid() || !finite(ray.Origin.X, ray.Origin.Y, ray.Dir.X, ray.Dir.Y, ray.EyeZ, ray.Slope) {
		return Hit{Status: StatusFault}
	}

	local := ray
	local.Origin = ray.Origin.Sub(math3d.V2(float64(cellX), float64(cellY)))

	var h Hit
	switch p.Kind {
	case KindWall:
		h = p.intersectWall(local)
	case KindFloor:
		h = p.intersectFloor(local)
	case KindCeiling:
		h = p.intersectCeiling(local)
	case KindRamp:
		h = p.intersectRamp(local)
	case KindCube:
		h = p.intersectCube(local)
	case KindDecoration:
		h = p.intersectDecoration(local)
	default:
		return Hit{Status: StatusFault}
	}

	if h.Status != StatusHit {
		return h
	}
	if !finite(h.Dist, h.U, h.V) {
		return Hit{Status: StatusFault}
	}
	const eps = 1e-9
	if h.Dist <= 0 || h.Dist < tEnter-eps || h.Dist > tExit+eps {
		return Hit{}
	}
	h.Kind = p.Kind
	h.TextureID = p.TextureID
	h.Texture = p.Texture
	h.Color = p.Color
	return h
}

func (p *Primitive) valid() bool {
	if t := p.Texture; t != nil && (t.Width <= 0 || t.Height <= 0 || len(t.Pixels) < t.Width*t.Height) {
		return false
	}
	if !finite(p.Thickness, p.Z0, p.Z1, p.Min.X, p.Min.Y, p.Max.X, p.Max.Y, p.Center.X, p.Center.Y, p.Width) {
		return false
	}
	switch p.Kind {
	case KindWall:
		return p.Thickness >= 0 && p.Thickness <= 1 && p.Z1 >= p.Z0 && p.Edge >= EdgeNorth && p.Edge <= EdgeWest
	case KindRamp:
		return p.Edge >= EdgeNorth && p.Edge <= EdgeWest
	case KindCube:
		return p.Max.X >= p.Min.X && p.Max.Y >= p.Min.Y && p.Z1 >= p.Z0
	case KindDecoration:
		return p.Width > 0 && p.Z1 > p.Z0
	}
	return true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p *Primitive) intersectWall(r Ray) Hit {
	lo, hi := math3d.V2(0, 0), math3d.V2(1, 1)
	switch p.Edge {
	case EdgeNorth:
		hi.Y = p.Thickness
	case EdgeSouth:
		lo.Y = 1 - p.Thickness
	case EdgeWest:
		hi.X = p.Thickness
	case EdgeEast:
		lo.X = 1 - p.Thickness
	}
	return slab(r, lo, hi, p.Z0, p.Z1)
}

func (p *Primitive) intersectCube(r Ray) Hit {
	return slab(r, p.Min, p.Max, p.Z0, p.Z1)
}

// slab intersects r with the box [lo,hi] x [z0,z1] and reports the entry
// point. Rays starting inside the box miss.
func slab(r Ray, lo, hi math3d.Vec2, z0, z1 float64) Hit {
	o := [3]float64{r.Origin.X, r.Origin.Y, r.EyeZ}
	d := [3]float64{r.Dir.X, r.Dir.Y, r.Slope}
	bmin := [3]float64{lo.X, lo.Y, z0}
	bmax := [3]float64{hi.X, hi.Y, z1}

	tNear, tFar := math.Inf(-1), math.Inf(1)
	axis := -1
	for i := range 3 {
		if d[i] == 0 {
			if o[i] < bmin[i] || o[i] > bmax[i] {
				return Hit{}
			}
			continue
		}
		t0 := (bmin[i] - o[i]) / d[i]
		t1 := (bmax[i] - o[i]) / d[i]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear, axis = t0, i
		}
		tFar = math.Min(tFar, t1)
	}
	if axis < 0 || tNear > tFar || tNear <= 0 {
		return Hit{}
	}

	p := r.At(tNear)
	z := r.ZAt(tNear)
	h := Hit{Status: StatusHit, Dist: tNear}
	switch axis {
	case 0:
		h.Axis = AxisX
		h.U = frac(p.Y)
		h.V = span(z, z0, z1)
	case 1:
		h.Axis = AxisY
		h.U = frac(p.X)
		h.V = span(z, z0, z1)
	default:
		h.Axis = AxisZ
		h.U, h.V = frac(p.X), frac(p.Y)
	}
	return h
}

func (p *Primitive) intersectFloor(r Ray) Hit {
	if r.Slope >= 0 || r.EyeZ <= p.Z0 {
		return Hit{}
	}
	return plane(r, p.Z0)
}

func (p *Primitive) intersectCeiling(r Ray) Hit {
	if r.Slope <= 0 || r.EyeZ >= p.Z0 {
		return Hit{}
	}
	return plane(r, p.Z0)
}

func plane(r Ray, z float64) Hit {
	t := (z - r.EyeZ) / r.Slope
	pt := r.At(t)
	if !inCell(pt) {
		return Hit{}
	}
	return Hit{Status: StatusHit, Dist: t, Axis: AxisZ, U: frac(pt.X), V: frac(pt.Y)}
}

// intersectRamp solves for the point where the ray meets the sloped plane
// z = Z0 + (Z1-Z0)*s, s running 0..1 across the cell toward Edge.
func (p *Primitive) intersectRamp(r Ray) Hit {
	s0, ds := rampCoord(p.Edge, r.Origin), rampCoord(p.Edge, r.Origin.Add(r.Dir))
	ds -= s0
	k := p.Z1 - p.Z0

	denom := r.Slope - k*ds
	if denom == 0 {
		return Hit{}
	}
	t := (p.Z0 + k*s0 - r.EyeZ) / denom
	pt := r.At(t)
	if !inCell(pt) {
		return Hit{}
	}
	s := rampCoord(p.Edge, pt)
	u := pt.X
	if p.Edge == EdgeEast || p.Edge == EdgeWest {
		u = pt.Y
	}
	return Hit{Status: StatusHit, Dist: t, Axis: AxisZ, U: frac(u), V: s}
}

func rampCoord(e Edge, p math3d.Vec2) float64 {
	switch e {
	case EdgeNorth:
		return 1 - p.Y
	case EdgeSouth:
		return p.Y
	case EdgeEast:
		return p.X
	default:
		return 1 - p.X
	}
}

// intersectDecoration treats the decoration as a vertical quad that always
// faces the ray origin. Transparent texels are holes.
func (p *Primitive) intersectDecoration(r Ray) Hit {
	toCenter := p.Center.Sub(r.Origin)
	n := toCenter.Normalize()
	if n == (math3d.Vec2{}) {
		return Hit{}
	}
	denom := r.Dir.Dot(n)
	if denom <= 0 {
		return Hit{}
	}
	t := toCenter.Dot(n) / denom
	lateral := r.At(t).Sub(p.Center).Dot(n.Perp())
	if math.Abs(lateral) > p.Width/2 {
		return Hit{}
	}
	z := r.ZAt(t)
	if z < p.Z0 || z > p.Z1 {
		return Hit{}
	}

	h := Hit{Status: StatusHit, Dist: t, Axis: AxisX, U: lateral/p.Width + 0.5, V: span(z, p.Z0, p.Z1)}
	if p.Texture != nil && p.Texture.Sample(h.U, h.V).A == 0 {
		return Hit{}
	}
	return h
}

func inCell(p math3d.Vec2) bool {
	const eps = 1e-9
	return p.X >= -eps && p.X <= 1+eps && p.Y >= -eps && p.Y <= 1+eps
}

func frac(v float64) float64 { return v - math.Floor(v) }

func span(z, z0, z1 float64) float64 {
	if z1 == z0 {
		return 0
	}
	return (z - z0) / (z1 - z0)
}
