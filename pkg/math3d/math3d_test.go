package math3d

import (
	"math"
	"testing"
)

func TestAngleNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Angle
		want float64
	}{
		{"zero", 0, 0},
		{"full turn", Angle(2 * math.Pi), 0},
		{"negative quarter", Angle(-math.Pi / 2), 3 * math.Pi / 2},
		{"two and a half turns", Angle(5 * math.Pi), math.Pi},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := float64(tc.in.Normalize())
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAngleSubWraps(t *testing.T) {
	d := Deg(350).Sub(Deg(10))
	if math.Abs(d.Degrees()+20) > 1e-9 {
		t.Errorf("350-10 = %v degrees, want -20", d.Degrees())
	}
}

func TestAngleDir(t *testing.T) {
	tests := []struct {
		deg  float64
		x, y float64
	}{
		{0, 1, 0},
		{90, 0, 1},
		{180, -1, 0},
		{270, 0, -1},
	}

	for _, tc := range tests {
		d := Deg(tc.deg).Dir()
		if math.Abs(d.X-tc.x) > 1e-9 || math.Abs(d.Y-tc.y) > 1e-9 {
			t.Errorf("Deg(%v).Dir() = %v, want (%v, %v)", tc.deg, d, tc.x, tc.y)
		}
	}
}

func TestVec2Cell(t *testing.T) {
	col, row := V2(2.7, -0.2).Cell()
	if col != 2 || row != -1 {
		t.Errorf("Cell() = (%d, %d), want (2, -1)", col, row)
	}
}

func TestFirstPersonLooksDownNegativeZ(t *testing.T) {
	eye := V3(1, 2, 3)
	view := FirstPerson(eye, 0, 0)

	// A point straight ahead ends up on the -Z axis in view space.
	p := view.MulVec3(V3(1, 2, -2))
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y) > 1e-9 || math.Abs(p.Z+5) > 1e-9 {
		t.Errorf("view-space point = %v, want (0, 0, -5)", p)
	}
}

func TestPerspectiveClipW(t *testing.T) {
	proj := Perspective(math.Pi/2, 1, 0.1, 100)
	clip := proj.MulVec4(V4(0, 0, -7, 1))
	if math.Abs(clip.W-7) > 1e-9 {
		t.Errorf("clip.W = %v, want 7", clip.W)
	}
}

func TestModelPlacement(t *testing.T) {
	m := Model(V3(10, 0, 0), math.Pi/2, 2)
	p := m.MulVec3(V3(1, 0, 0))
	// Scale to 2, yaw a quarter turn (X -> -Z), then translate.
	if math.Abs(p.X-10) > 1e-9 || math.Abs(p.Z+2) > 1e-9 {
		t.Errorf("placed point = %v, want (10, 0, -2)", p)
	}
}
