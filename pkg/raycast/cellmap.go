package raycast

import (
	"fmt"
	"math"

	"github.com/taigrr/gridsight/pkg/math3d"
)

// CellMap stores the primitives of every cell in a bounded grid.
type CellMap struct {
	width  int
	height int
	cells  [][]Primitive
}

// NewCellMap creates an empty width x height map.
func NewCellMap(width, height int) (*CellMap, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyMap
	}
	return &CellMap{width: width, height: height, cells: make([][]Primitive, width*height)}, nil
}

// CellMapFromGrid builds a CellMap from a wall grid: wall cells become a
// full-height cube textured with the wall id, open cells get a floor and a
// ceiling.
func CellMapFromGrid(g *GridMap, floorID, ceilingID int) *CellMap {
	m := &CellMap{width: g.Width(), height: g.Height(), cells: make([][]Primitive, g.Width()*g.Height())}
	for row := range g.Height() {
		for col := range g.Width() {
			id, _ := g.At(row, col)
			if id > 0 {
				m.cells[row*m.width+col] = []Primitive{Cube(math3d.V2(0, 0), math3d.V2(1, 1), 0, 1, id)}
				continue
			}
			m.cells[row*m.width+col] = []Primitive{Floor(0, floorID), Ceiling(1, ceilingID)}
		}
	}
	return m
}

// Width returns the number of columns.
func (m *CellMap) Width() int { return m.width }

// Height returns the number of rows.
func (m *CellMap) Height() int { return m.height }

// Add appends a primitive to cell (col, row).
func (m *CellMap) Add(col, row int, p Primitive) error {
	if col < 0 || col >= m.width || row < 0 || row >= m.height {
		return fmt.Errorf("add %s at (%d, %d): outside %dx%d map", p.Kind, col, row, m.width, m.height)
	}
	i := row*m.width + col
	m.cells[i] = append(m.cells[i], p)
	return nil
}

// At returns the primitives of cell (col, row). ok is false outside the map.
func (m *CellMap) At(col, row int) (prims []Primitive, ok bool) {
	if col < 0 || col >= m.width || row < 0 || row >= m.height {
		return nil, false
	}
	return m.cells[row*m.width+col], true
}

// NearestInCell intersects ray with every primitive of one cell and
// returns the closest hit. Faulting primitives are skipped and counted.
func NearestInCell(prims []Primitive, ray Ray, col, row int, tEnter, tExit float64) (best Hit, faults int) {
	for i := range prims {
		h := prims[i].Intersect(ray, col, row, tEnter, tExit)
		switch h.Status {
		case StatusFault:
			faults++
		case StatusHit:
			if !best.OK() || h.Dist < best.Dist {
				best = h
			}
		}
	}
	return best, faults
}

// CastCells walks ray through m cell by cell, starting with the cell that
// contains the origin, and returns the first hit. maxDist <= 0 means no
// limit.
func CastCells(m *CellMap, ray Ray, maxDist float64) (Hit, int) {
	t := newTraversal(ray.Origin, ray.Dir)
	faults := 0
	enter := 0.0
	for {
		prims, ok := m.At(t.col, t.row)
		if !ok {
			return Hit{}, faults
		}
		exit := t.exit()
		if maxDist > 0 {
			exit = math.Min(exit, maxDist)
		}
		hit, n := NearestInCell(prims, ray, t.col, t.row, enter, exit)
		faults += n
		if hit.OK() {
			return hit, faults
		}
		if maxDist > 0 && t.exit() >= maxDist {
			return Hit{}, faults
		}
		t.step()
		enter = t.dist
	}
}
