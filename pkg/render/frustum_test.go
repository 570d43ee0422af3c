package render

import (
	"math"
	"testing"

	"github.com/taigrr/gridsight/pkg/math3d"
)

func testCamera() Camera {
	cam := NewCamera()
	cam.AspectRatio = 1
	cam.FOV = math.Pi / 2
	return cam
}

func TestFrustumPointVisible(t *testing.T) {
	f := testCamera().Frustum()

	tests := []struct {
		name  string
		point math3d.Vec3
		want  bool
	}{
		{"straight ahead", math3d.V3(0, 0, -5), true},
		{"behind", math3d.V3(0, 0, 5), false},
		{"at the eye", math3d.V3(0, 0, 0), false},
		{"right edge inside", math3d.V3(4.9, 0, -5), true},
		{"right of view", math3d.V3(5.1, 0, -5), false},
		{"above view", math3d.V3(0, 6, -5), false},
		// Depth is not tested: points past the far plane still pass.
		{"past far plane", math3d.V3(0, 0, -500), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.PointVisible(tc.point); got != tc.want {
				t.Errorf("PointVisible(%v) = %v, want %v", tc.point, got, tc.want)
			}
		})
	}
}

func TestFrustumBoxVisible(t *testing.T) {
	f := testCamera().Frustum()

	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"in front", NewAABB(math3d.V3(-1, -1, -6), math3d.V3(1, 1, -4)), true},
		{"behind", NewAABB(math3d.V3(-1, -1, 4), math3d.V3(1, 1, 6)), false},
		{"one corner inside", NewAABB(math3d.V3(4, -1, -6), math3d.V3(20, 1, -5)), true},
		// No corner is inside even though the box covers the view.
		{"straddling with no corner inside", NewAABB(math3d.V3(-100, -100, -6), math3d.V3(100, 100, -4)), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.BoxVisible(tc.box); got != tc.want {
				t.Errorf("BoxVisible = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFrustumSphereVisible(t *testing.T) {
	f := testCamera().Frustum()
	if !f.SphereVisible(math3d.V3(0, 0, -5), 0.5) {
		t.Error("sphere ahead should be visible")
	}
	if f.SphereVisible(math3d.V3(0, 0, 10), 1) {
		t.Error("sphere behind should not be visible")
	}
}

func TestInClipRequiresPositiveW(t *testing.T) {
	if InClip(math3d.V4(0, 0, 0, 0)) {
		t.Error("w = 0 should not be inside")
	}
	if InClip(math3d.V4(0, 0, 0, -1)) {
		t.Error("negative w should not be inside")
	}
	if !InClip(math3d.V4(1, -1, 0, 1)) {
		t.Error("point on the side planes should be inside")
	}
}

func TestAABBBasics(t *testing.T) {
	box := NewAABB(math3d.V3(1, 2, 3), math3d.V3(-1, -2, -3))

	if c := box.Center(); c.X != 0 || c.Y != 0 || c.Z != 0 {
		t.Errorf("center = %v, want (0, 0, 0)", c)
	}
	if s := box.Size(); s.X != 2 || s.Y != 4 || s.Z != 6 {
		t.Errorf("size = %v, want (2, 4, 6)", s)
	}
	if !box.ContainsPoint(math3d.V3(0.5, -1, 2)) {
		t.Error("ContainsPoint rejected interior point")
	}
	if box.ContainsPoint(math3d.V3(0, 0, 4)) {
		t.Error("ContainsPoint accepted exterior point")
	}
}

func TestAABBCorners(t *testing.T) {
	box := NewAABB(math3d.V3(0, 0, 0), math3d.V3(1, 2, 3))
	corners := box.Corners()
	if corners[0] != math3d.V3(0, 0, 0) || corners[7] != math3d.V3(1, 2, 3) {
		t.Errorf("corners[0] = %v, corners[7] = %v", corners[0], corners[7])
	}
	if corners[5] != math3d.V3(1, 0, 3) {
		t.Errorf("corners[5] = %v, want (1, 0, 3)", corners[5])
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	moved := box.Transform(math3d.Translate(math3d.V3(10, 0, 0)))
	if math.Abs(moved.Min.X-9) > 1e-9 || math.Abs(moved.Max.X-11) > 1e-9 {
		t.Errorf("translated box = %v", moved)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	vp := testCamera().ViewProjectionMatrix()
	if _, _, ok := Project(vp, math3d.V3(0, 0, 3), 100, 100); ok {
		t.Error("Project accepted point behind the camera")
	}
	sp, _, ok := Project(vp, math3d.V3(0, 0, -3), 100, 100)
	if !ok {
		t.Fatal("Project rejected point ahead")
	}
	if math.Abs(sp.X-50) > 1e-6 || math.Abs(sp.Y-50) > 1e-6 {
		t.Errorf("centered point projected to (%v, %v), want (50, 50)", sp.X, sp.Y)
	}
	if math.Abs(sp.W-3) > 1e-9 {
		t.Errorf("W = %v, want view distance 3", sp.W)
	}
}

func TestCameraMoveForward(t *testing.T) {
	cam := testCamera()
	cam.MoveForward(2)
	if math.Abs(cam.Position.Z+2) > 1e-9 || math.Abs(cam.Position.X) > 1e-9 {
		t.Errorf("position after MoveForward = %v, want (0, 0, -2)", cam.Position)
	}

	cam.Rotate(10, 0)
	if cam.Pitch >= math.Pi/2 {
		t.Errorf("pitch not clamped: %v", cam.Pitch)
	}
}

func TestCameraLookAt(t *testing.T) {
	cam := testCamera()
	cam.LookAt(math3d.V3(5, 0, 0))
	fwd := cam.Forward()
	if math.Abs(fwd.X-1) > 1e-9 || math.Abs(fwd.Z) > 1e-9 {
		t.Errorf("forward after LookAt = %v, want +X", fwd)
	}
}
