// Package scene draws a dungeon of stacked grid cells as projected quads.
// Every cell is an axis-aligned box that may carry walls on its four
// sides, a floor and a ceiling, flat decoration layers, a mesh prop, and
// the actors standing in it.
//
// World space is Y-up. Grid column x runs along +X, grid row y along +Z
// and level l sits l strides above level 0.
package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/models"
	"github.com/taigrr/gridsight/pkg/render"
)

// ErrNegativeThickness is reported by Validate for surfaces thinner than
// zero.
var ErrNegativeThickness = errors.New("negative thickness")

// Face identifies one of the six sides of a cell.
type Face int

const (
	FaceNorth Face = iota // -Z
	FaceSouth             // +Z
	FaceEast              // +X
	FaceWest              // -X
	FaceFloor
	FaceCeiling
)

var faceNames = [...]string{"north", "south", "east", "west", "floor", "ceiling"}

func (f Face) String() string {
	if f < 0 || int(f) >= len(faceNames) {
		return fmt.Sprintf("Face(%d)", int(f))
	}
	return faceNames[f]
}

// Outward returns the unit normal pointing out of the cell through f.
func (f Face) Outward() math3d.Vec3 {
	switch f {
	case FaceNorth:
		return math3d.V3(0, 0, -1)
	case FaceSouth:
		return math3d.V3(0, 0, 1)
	case FaceEast:
		return math3d.V3(1, 0, 0)
	case FaceWest:
		return math3d.V3(-1, 0, 0)
	case FaceFloor:
		return math3d.V3(0, -1, 0)
	default:
		return math3d.V3(0, 1, 0)
	}
}

// Wall is one side wall of a cell.
type Wall struct {
	Present   bool
	Thickness float64 // how far the wall reaches into the cell
}

// Slab is a floor or a ceiling. Height is measured from the level base.
type Slab struct {
	Present   bool
	Height    float64
	Thickness float64 // floors grow down, ceilings grow up
}

// CellLayer is a thin horizontal decoration such as water or grass,
// drawn above the floor after the cell's faces.
type CellLayer struct {
	Name   string
	Height float64 // above the floor surface
	Color  render.Color

	// Mask is drawn as a textured quad when set. Texels with zero alpha
	// are holes.
	Mask *render.Texture
	// Draw replaces the default drawing when set. It receives the
	// projected quad corners.
	Draw func(c render.Canvas, quad [4]render.ScreenPoint)

	// Blend fades the flat color as the camera comes down to the layer,
	// reaching full opacity Fade units above it.
	Blend bool
	Fade  float64
}

// Prop places a mesh in a cell. The mesh is in cell-local units with its
// base at y = 0 and is centered on the cell.
type Prop struct {
	Mesh  *models.Mesh
	Yaw   float64
	Scale float64 // 0 means 1
	Color render.Color
}

// Cell is one box of the grid.
type Cell struct {
	Walls   [4]Wall // indexed by FaceNorth..FaceWest
	Floor   Slab
	Ceiling Slab

	// Textures holds an optional texture id per face, 0 for none.
	Textures [6]int
	// Colors holds the solid color per face. A zero color uses a default.
	Colors [6]render.Color

	Layers []CellLayer
	Prop   *Prop

	corners [8]math3d.Vec3
	gen     uint64
}

// Empty reports whether the cell has nothing to draw.
func (c *Cell) Empty() bool {
	for _, w := range c.Walls {
		if w.Present {
			return false
		}
	}
	return !c.Floor.Present && !c.Ceiling.Present && len(c.Layers) == 0 && c.Prop == nil
}

// Validate reports surfaces with a negative thickness.
func (c *Cell) Validate() error {
	var errs []error
	for i, w := range c.Walls {
		if w.Thickness < 0 {
			errs = append(errs, fmt.Errorf("%s wall: %w", Face(i), ErrNegativeThickness))
		}
	}
	if c.Floor.Thickness < 0 {
		errs = append(errs, fmt.Errorf("floor: %w", ErrNegativeThickness))
	}
	if c.Ceiling.Thickness < 0 {
		errs = append(errs, fmt.Errorf("ceiling: %w", ErrNegativeThickness))
	}
	return errors.Join(errs...)
}

// Sanitize clamps negative thicknesses to zero.
func (c *Cell) Sanitize() {
	for i := range c.Walls {
		c.Walls[i].Thickness = max(0, c.Walls[i].Thickness)
	}
	c.Floor.Thickness = max(0, c.Floor.Thickness)
	c.Ceiling.Thickness = max(0, c.Ceiling.Thickness)
}

// SetWall sets the wall on side f.
func (c *Cell) SetWall(f Face, thickness float64, textureID int) {
	if f < FaceNorth || f > FaceWest {
		return
	}
	c.Walls[f] = Wall{Present: true, Thickness: max(0, thickness)}
	c.Textures[f] = textureID
}

// Corners returns the eight corners of the cell box, from the floor
// surface to the ceiling surface, in the bit order of render.AABB.Corners.
// They are recomputed only when gen differs from the previous call.
func (c *Cell) Corners(gen uint64, origin math3d.Vec3, size, floorY, ceilY float64) [8]math3d.Vec3 {
	if c.gen == gen && gen != 0 {
		return c.corners
	}
	box := render.AABB{
		Min: math3d.V3(origin.X, floorY, origin.Z),
		Max: math3d.V3(origin.X+size, ceilY, origin.Z+size),
	}
	c.corners = box.Corners()
	c.gen = gen
	return c.corners
}

func (c *Cell) color(f Face) render.Color {
	if col := c.Colors[f]; col.A != 0 {
		return col
	}
	switch f {
	case FaceFloor:
		return render.RGB(92, 84, 72)
	case FaceCeiling:
		return render.RGB(64, 64, 76)
	case FaceNorth, FaceSouth:
		return render.RGB(150, 140, 128)
	default:
		return render.RGB(124, 116, 106)
	}
}
