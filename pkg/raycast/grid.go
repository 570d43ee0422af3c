// Package raycast renders a first-person view of a grid world by casting
// rays through it with a DDA traversal. Renderer draws Wolfenstein-style
// wall columns from a GridMap; PrimitiveRenderer casts one ray per pixel
// against the surfaces stored in a CellMap.
package raycast

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyMap is returned for a map with no rows or no columns.
	ErrEmptyMap = errors.New("empty map")
	// ErrRaggedMap is returned when rows differ in length.
	ErrRaggedMap = errors.New("rows differ in length")
)

// GridMap is an immutable 2D array of wall ids indexed [row, col]. Zero is
// empty space; any positive id is a wall whose id selects its texture.
type GridMap struct {
	width  int
	height int
	cells  []int
}

// NewGridMap copies rows into a new map.
func NewGridMap(rows [][]int) (*GridMap, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMap
	}
	w := len(rows[0])
	m := &GridMap{width: w, height: len(rows), cells: make([]int, 0, w*len(rows))}
	for i, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), w, ErrRaggedMap)
		}
		m.cells = append(m.cells, row...)
	}
	return m, nil
}

// ParseGridMap reads a map drawn as text, one row per line. '.' and ' '
// are empty, '#' is wall id 1 and the digits 1-9 are wall ids. Blank lines
// are skipped.
func ParseGridMap(text string) (*GridMap, error) {
	var rows [][]int
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		row := make([]int, 0, len(line))
		for _, r := range line {
			switch {
			case r == '.' || r == ' ':
				row = append(row, 0)
			case r == '#':
				row = append(row, 1)
			case r >= '1' && r <= '9':
				row = append(row, int(r-'0'))
			default:
				return nil, fmt.Errorf("line %d: unexpected %q", n+1, r)
			}
		}
		rows = append(rows, row)
	}
	return NewGridMap(rows)
}

// MustParseGridMap is like ParseGridMap but panics on error. It is meant
// for maps embedded in source.
func MustParseGridMap(text string) *GridMap {
	m, err := ParseGridMap(text)
	if err != nil {
		panic(err)
	}
	return m
}

// Width returns the number of columns.
func (m *GridMap) Width() int { return m.width }

// Height returns the number of rows.
func (m *GridMap) Height() int { return m.height }

// At returns the wall id at (row, col). ok is false outside the map.
func (m *GridMap) At(row, col int) (id int, ok bool) {
	if row < 0 || row >= m.height || col < 0 || col >= m.width {
		return 0, false
	}
	return m.cells[row*m.width+col], true
}

// Solid reports whether (row, col) blocks movement. Cells outside the map
// are solid.
func (m *GridMap) Solid(row, col int) bool {
	id, ok := m.At(row, col)
	return !ok || id > 0
}
