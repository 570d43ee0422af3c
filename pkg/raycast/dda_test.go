package raycast

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/render"
)

const roomMap = `
#####
#...#
#...#
#...#
#####
`

const gapMap = `
#####
#...#
#....
#...#
#####
`

const mazeMap = `
##########
#....#...#
#.##.#.#.#
#.#....#.#
#.#.##.#.#
#...#..#.#
###.#.##.#
#.....#..#
#.###....#
##########
`

// bruteForce sorts every grid line crossing along the ray and returns the
// distance of the first crossing that enters a wall.
func bruteForce(m *GridMap, pos math3d.Vec2, angle math3d.Angle) float64 {
	dir := angle.Dir()
	var ts []float64
	for k := 0; k <= m.Width(); k++ {
		if t := (float64(k) - pos.X) / dir.X; dir.X != 0 && t > 0 {
			ts = append(ts, t)
		}
	}
	for k := 0; k <= m.Height(); k++ {
		if t := (float64(k) - pos.Y) / dir.Y; dir.Y != 0 && t > 0 {
			ts = append(ts, t)
		}
	}
	slices.Sort(ts)
	for _, t := range ts {
		col, row := pos.Add(dir.Scale(t + 1e-9)).Cell()
		id, ok := m.At(row, col)
		if !ok {
			return math.Inf(1)
		}
		if id > 0 {
			return t
		}
	}
	return math.Inf(1)
}

func TestCastMatchesBruteForce(t *testing.T) {
	m := MustParseGridMap(mazeMap)
	starts := []math3d.Vec2{
		math3d.V2(1.37, 1.61),
		math3d.V2(3.3, 3.7),
		math3d.V2(7.5, 7.2),
		math3d.V2(8.52, 1.13),
	}

	for _, pos := range starts {
		for deg := 0.37; deg < 360; deg += 7.5 {
			angle := math3d.Deg(deg)
			want := bruteForce(m, pos, angle)
			got := Cast(m, pos, angle, 0)
			if !got.Hit {
				t.Fatalf("pos %v angle %v: no hit in a closed map", pos, deg)
			}
			if math.Abs(got.Dist-want) > 1e-6 {
				t.Errorf("pos %v angle %v: DDA %.6f, brute force %.6f", pos, deg, got.Dist, want)
			}
		}
	}
}

func TestCastRoomCardinals(t *testing.T) {
	m := MustParseGridMap(roomMap)
	center := math3d.V2(2.5, 2.5)

	tests := []struct {
		name     string
		angle    math3d.Angle
		row, col int
		side     Side
	}{
		{"east", 0, 2, 4, SideX},
		{"south", math3d.Angle(math.Pi / 2), 4, 2, SideY},
		{"west", math3d.Angle(math.Pi), 2, 0, SideX},
		{"north", math3d.Angle(3 * math.Pi / 2), 0, 2, SideY},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hit := Cast(m, center, tc.angle, 0)
			if !hit.Hit {
				t.Fatal("expected a hit")
			}
			if math.Abs(hit.Dist-1.5) > 1e-9 {
				t.Errorf("Dist = %v, want 1.5 (half the room width)", hit.Dist)
			}
			if hit.Row != tc.row || hit.Col != tc.col || hit.Side != tc.side {
				t.Errorf("hit (%d,%d) side %v, want (%d,%d) side %v", hit.Row, hit.Col, hit.Side, tc.row, tc.col, tc.side)
			}
			if hit.TexU < 0 || hit.TexU >= 1 {
				t.Errorf("TexU = %v out of [0,1)", hit.TexU)
			}
		})
	}
}

func TestCastThroughGapIsLonger(t *testing.T) {
	m := MustParseGridMap(gapMap)
	center := math3d.V2(2.5, 2.5)

	direct := Cast(m, center, math3d.Angle(math.Pi), 0)
	gap := Cast(m, center, 0, 0)
	if !(gap.Dist > direct.Dist) {
		t.Errorf("gap distance %v should exceed direct hit %v", gap.Dist, direct.Dist)
	}
	if gap.Hit || !math.IsInf(gap.Dist, 1) {
		t.Errorf("ray leaving the map should miss with +Inf, got %+v", gap)
	}
}

func TestCastMaxDistance(t *testing.T) {
	m := MustParseGridMap(roomMap)
	hit := Cast(m, math3d.V2(2.5, 2.5), 0, 1)
	if hit.Hit || !math.IsInf(hit.Dist, 1) {
		t.Errorf("wall beyond max distance reported: %+v", hit)
	}
}

func TestCastStartOutsideMap(t *testing.T) {
	m := MustParseGridMap(roomMap)
	if hit := Cast(m, math3d.V2(-3, -3), math3d.Deg(45), 0); hit.Hit {
		t.Errorf("ray starting outside the map hit %+v", hit)
	}
}

func TestGridMapErrors(t *testing.T) {
	if _, err := NewGridMap(nil); !errors.Is(err, ErrEmptyMap) {
		t.Errorf("nil rows: err = %v", err)
	}
	if _, err := NewGridMap([][]int{{1, 1}, {1}}); !errors.Is(err, ErrRaggedMap) {
		t.Errorf("ragged rows: err = %v", err)
	}
	if _, err := ParseGridMap("#x#"); err == nil {
		t.Error("unexpected rune accepted")
	}
}

func TestGridMapIsCopied(t *testing.T) {
	rows := [][]int{{1, 0}, {0, 1}}
	m, err := NewGridMap(rows)
	if err != nil {
		t.Fatal(err)
	}
	rows[0][1] = 7
	if id, _ := m.At(0, 1); id != 0 {
		t.Errorf("map changed with its input: %d", id)
	}
	if !m.Solid(-1, 0) {
		t.Error("outside the map should be solid")
	}
}

func TestCameraMoveSlidesAlongWalls(t *testing.T) {
	m := MustParseGridMap(roomMap)
	cam := NewCamera(math3d.V2(3.5, 2.5), math3d.Deg(45))
	for range 20 {
		cam.Move(m, 0.1, 0)
	}
	if cam.Pos.X >= 4 || cam.Pos.Y >= 4 {
		t.Errorf("camera walked into a wall: %v", cam.Pos)
	}
	if cam.Pos.Y <= 2.5 {
		t.Errorf("camera did not slide along the wall: %v", cam.Pos)
	}
}

func TestRendererStraightWall(t *testing.T) {
	m := MustParseGridMap(roomMap)
	cam := NewCamera(math3d.V2(2.5, 2.5), 0)
	fb := render.NewFramebuffer(40, 30)
	r := NewRenderer(nil)

	cols := r.Render(fb, m, cam)
	if len(cols) != 40 {
		t.Fatalf("got %d columns", len(cols))
	}
	mid := cols[20]
	if math.Abs(mid.Dist-1.5) > 1e-9 {
		t.Errorf("center column Dist = %v, want 1.5", mid.Dist)
	}
	if math.Abs(mid.Height()-30/1.5) > 1e-9 {
		t.Errorf("strip height = %v, want %v", mid.Height(), 30/1.5)
	}

	wall := render.Fog(render.PaletteColor(1), cam.Background, 1.5, cam.MaxDistance)
	if got := fb.GetPixel(20, 15); got != wall {
		t.Errorf("center pixel = %v, want wall color %v", got, wall)
	}
}

func TestRendererBeyondMaxDistanceIsBackground(t *testing.T) {
	m := MustParseGridMap(roomMap)
	cam := NewCamera(math3d.V2(2.5, 2.5), 0)
	cam.MaxDistance = 1
	fb := render.NewFramebuffer(20, 20)
	r := NewRenderer(nil)

	cols := r.Render(fb, m, cam)
	for i, c := range cols {
		if !math.IsInf(c.Dist, 1) {
			t.Fatalf("column %d drew a wall past max distance", i)
		}
	}
	// Rows near the horizon are fogged all the way to the background.
	if got := fb.GetPixel(10, 10); got != cam.Background {
		t.Errorf("horizon pixel = %v, want background", got)
	}
}

func TestRendererUsesTextures(t *testing.T) {
	m := MustParseGridMap(roomMap)
	cam := NewCamera(math3d.V2(2.5, 2.5), 0)
	cam.MaxDistance = 0
	set := render.NewTextureSet()
	set.Add(1, render.NewSolidTexture(8, 8, render.ColorGreen))

	fb := render.NewFramebuffer(40, 30)
	NewRenderer(set).Render(fb, m, cam)
	if got := fb.GetPixel(20, 15); got != render.ColorGreen {
		t.Errorf("center pixel = %v, want texture color", got)
	}
}

func TestDrawSpritesDepthTest(t *testing.T) {
	m := MustParseGridMap(`
#######
#.....#
#.....#
#.....#
#######
`)
	cam := NewCamera(math3d.V2(1.5, 2.5), 0)
	cam.MaxDistance = 0
	fb := render.NewFramebuffer(40, 30)
	r := NewRenderer(nil)
	cols := r.Render(fb, m, cam)

	sprites := []Sprite{
		{Pos: math3d.V2(3.5, 2.5), Color: render.ColorYellow},
		{Pos: math3d.V2(9.5, 2.5), Color: render.ColorMagenta}, // behind the east wall
	}
	if n := r.DrawSprites(fb, cam, cols, sprites); n != 1 {
		t.Errorf("drew %d sprites, want 1", n)
	}
	if got := fb.GetPixel(20, 16); got != render.ColorYellow {
		t.Errorf("sprite pixel = %v, want yellow", got)
	}
}
