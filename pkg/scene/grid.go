package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/raycast"
)

// ErrBadGrid is returned for a grid with a non-positive dimension, cell
// size or level stride.
var ErrBadGrid = errors.New("invalid grid dimensions")

// Grid is a W x H x Levels block of cells.
type Grid struct {
	W, H, Levels int
	CellSize     float64

	// Default floor and ceiling heights above each level base. The level
	// stride is CeilingHeight - FloorHeight.
	FloorHeight   float64
	CeilingHeight float64

	cells []Cell
}

// NewGrid creates an empty grid with floors at 0 and ceilings at height.
func NewGrid(w, h, levels int, cellSize, height float64) (*Grid, error) {
	if w <= 0 || h <= 0 || levels <= 0 || cellSize <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid %dx%dx%d cell %v height %v: %w", w, h, levels, cellSize, height, ErrBadGrid)
	}
	return &Grid{
		W: w, H: h, Levels: levels,
		CellSize:      cellSize,
		CeilingHeight: height,
		cells:         make([]Cell, w*h*levels),
	}, nil
}

// Stride returns the vertical distance between levels.
func (g *Grid) Stride() float64 { return g.CeilingHeight - g.FloorHeight }

// LevelBase returns the world Y of a level's base.
func (g *Grid) LevelBase(level int) float64 { return float64(level) * g.Stride() }

// At returns the cell at (x, y, level), or nil outside the grid.
func (g *Grid) At(x, y, level int) *Cell {
	if x < 0 || x >= g.W || y < 0 || y >= g.H || level < 0 || level >= g.Levels {
		return nil
	}
	return &g.cells[(level*g.H+y)*g.W+x]
}

// Set validates c and stores it at (x, y, level).
func (g *Grid) Set(x, y, level int, c Cell) error {
	dst := g.At(x, y, level)
	if dst == nil {
		return fmt.Errorf("set cell (%d, %d, %d): outside %dx%dx%d grid", x, y, level, g.W, g.H, g.Levels)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("set cell (%d, %d, %d): %w", x, y, level, err)
	}
	*dst = c
	return nil
}

// CellAt returns the grid coordinates containing a world position. ok is
// false outside the grid, for a non-finite position, or when the level
// stride is not positive. Coordinates beyond the grid are clamped to one
// past its edge.
func (g *Grid) CellAt(p math3d.Vec3) (x, y, level int, ok bool) {
	stride := g.Stride()
	if stride <= 0 || g.CellSize <= 0 {
		return 0, 0, 0, false
	}
	fx := math.Floor(p.X / g.CellSize)
	fy := math.Floor(p.Z / g.CellSize)
	fl := math.Floor(p.Y / stride)
	if math.IsNaN(fx) || math.IsNaN(fy) || math.IsNaN(fl) {
		return 0, 0, 0, false
	}
	x = int(math.Max(-1, math.Min(fx, float64(g.W))))
	y = int(math.Max(-1, math.Min(fy, float64(g.H))))
	level = int(math.Max(-1, math.Min(fl, float64(g.Levels))))
	return x, y, level, g.At(x, y, level) != nil
}

// Origin returns the world position of a cell's base corner with the
// smallest coordinates.
func (g *Grid) Origin(x, y, level int) math3d.Vec3 {
	return math3d.V3(float64(x)*g.CellSize, g.LevelBase(level), float64(y)*g.CellSize)
}

// Surfaces returns the world Y of a cell's floor and ceiling surfaces.
func (g *Grid) Surfaces(c *Cell, level int) (floorY, ceilY float64) {
	base := g.LevelBase(level)
	floorY, ceilY = base+g.FloorHeight, base+g.CeilingHeight
	if c.Floor.Present {
		floorY = base + c.Floor.Height
	}
	if c.Ceiling.Present {
		ceilY = base + c.Ceiling.Height
	}
	return floorY, ceilY
}

// FloorAt returns the floor surface below p, searching down from the
// level containing p. ok is false over a hole or outside the grid.
func (g *Grid) FloorAt(p math3d.Vec3) (float64, bool) {
	x, y, level, ok := g.CellAt(p)
	if !ok && level >= g.Levels {
		level = g.Levels - 1
		ok = g.At(x, y, level) != nil
	}
	if !ok {
		return 0, false
	}
	for l := level; l >= 0; l-- {
		c := g.At(x, y, l)
		if !c.Floor.Present {
			continue
		}
		floorY, _ := g.Surfaces(c, l)
		if floorY <= p.Y+1e-9 {
			return floorY, true
		}
	}
	return 0, false
}

// FromWallMap builds a one-level grid from a wall map. Open map cells get
// a floor, a ceiling and a wall on every side that borders a wall cell or
// the map edge, textured with the neighbour's wall id.
func FromWallMap(m *raycast.GridMap, cellSize, height, thickness float64, floorID, ceilingID int) (*Grid, error) {
	g, err := NewGrid(m.Width(), m.Height(), 1, cellSize, height)
	if err != nil {
		return nil, err
	}
	neighbours := [4]struct {
		face   Face
		dx, dy int
	}{
		{FaceNorth, 0, -1},
		{FaceSouth, 0, 1},
		{FaceEast, 1, 0},
		{FaceWest, -1, 0},
	}

	for row := range m.Height() {
		for col := range m.Width() {
			if m.Solid(row, col) {
				continue
			}
			c := g.At(col, row, 0)
			c.Floor = Slab{Present: true}
			c.Ceiling = Slab{Present: true, Height: height}
			c.Textures[FaceFloor] = floorID
			c.Textures[FaceCeiling] = ceilingID
			for _, n := range neighbours {
				if !m.Solid(row+n.dy, col+n.dx) {
					continue
				}
				id, _ := m.At(row+n.dy, col+n.dx)
				c.SetWall(n.face, thickness, id)
			}
		}
	}
	return g, nil
}
