package raycast

import (
	"math"

	"github.com/taigrr/gridsight/pkg/math3d"
)

// Side is the axis of the grid line a ray crossed to reach its hit cell.
type Side int

const (
	SideX Side = iota // crossed a vertical grid line (east or west face)
	SideY             // crossed a horizontal grid line (north or south face)
)

// unreachable stands in for the distance between grid lines along an axis
// the ray never moves on.
const unreachable = 1e30

// RayHit is the result of casting one ray through a GridMap.
type RayHit struct {
	Hit    bool
	Dist   float64     // distance along the ray; +Inf without a hit
	Point  math3d.Vec2 // world-space hit point
	Row    int
	Col    int
	WallID int
	Side   Side
	TexU   float64 // horizontal texture coordinate in [0,1)
}

// traversal holds DDA state for a ray starting at pos.
type traversal struct {
	dir          math3d.Vec2
	col, row     int
	stepX, stepY int
	sideX, sideY float64 // ray distance to the next vertical / horizontal grid line
	deltaX       float64
	deltaY       float64
	side         Side
	dist         float64 // distance at which the ray entered the current cell
}

func newTraversal(pos, dir math3d.Vec2) traversal {
	t := traversal{dir: dir}
	t.col, t.row = pos.Cell()

	t.deltaX, t.deltaY = unreachable, unreachable
	if dir.X != 0 {
		t.deltaX = math.Abs(1 / dir.X)
	}
	if dir.Y != 0 {
		t.deltaY = math.Abs(1 / dir.Y)
	}

	fx := pos.X - float64(t.col)
	fy := pos.Y - float64(t.row)
	if dir.X < 0 {
		t.stepX = -1
		t.sideX = fx * t.deltaX
	} else {
		t.stepX = 1
		t.sideX = (1 - fx) * t.deltaX
	}
	if dir.Y < 0 {
		t.stepY = -1
		t.sideY = fy * t.deltaY
	} else {
		t.stepY = 1
		t.sideY = (1 - fy) * t.deltaY
	}
	return t
}

// exit returns the distance at which the ray leaves the current cell.
func (t *traversal) exit() float64 {
	return math.Min(t.sideX, t.sideY)
}

// step advances to the next cell along whichever axis is nearer.
func (t *traversal) step() {
	if t.sideX < t.sideY {
		t.dist = t.sideX
		t.sideX += t.deltaX
		t.col += t.stepX
		t.side = SideX
	} else {
		t.dist = t.sideY
		t.sideY += t.deltaY
		t.row += t.stepY
		t.side = SideY
	}
}

// Cast marches a ray from pos along angle and returns the first wall it
// enters. The starting cell is never reported. Leaving the map, or going
// further than maxDist when maxDist > 0, ends the cast without a hit.
func Cast(m *GridMap, pos math3d.Vec2, angle math3d.Angle, maxDist float64) RayHit {
	miss := RayHit{Dist: math.Inf(1)}
	dir := angle.Dir()
	t := newTraversal(pos, dir)

	for {
		t.step()
		if maxDist > 0 && t.dist > maxDist {
			return miss
		}
		id, ok := m.At(t.row, t.col)
		if !ok {
			return miss
		}
		if id == 0 {
			continue
		}

		hit := RayHit{
			Hit:    true,
			Dist:   t.dist,
			Point:  pos.Add(dir.Scale(t.dist)),
			Row:    t.row,
			Col:    t.col,
			WallID: id,
			Side:   t.side,
		}
		hit.TexU = faceU(hit.Point, dir, t.side)
		return hit
	}
}

// faceU returns the texture coordinate across the face that was hit,
// mirrored so textures read left to right from the viewer's side.
func faceU(p, dir math3d.Vec2, side Side) float64 {
	var u float64
	if side == SideX {
		u = p.Y - math.Floor(p.Y)
		if dir.X > 0 {
			u = 1 - u
		}
	} else {
		u = p.X - math.Floor(p.X)
		if dir.Y < 0 {
			u = 1 - u
		}
	}
	return u
}
