package render

import (
	"math/rand"
	"testing"

	"github.com/taigrr/gridsight/pkg/math3d"
)

// BenchmarkBoxVisible measures the per-cell culling test.
func BenchmarkBoxVisible(b *testing.B) {
	f := testCamera().Frustum()
	box := NewAABB(math3d.V3(-1, -1, -6), math3d.V3(1, 1, -4))

	for b.Loop() {
		_ = f.BoxVisible(box)
	}
}

// BenchmarkBoxVisibleCulled measures the worst case, where all eight
// corners are tested and rejected.
func BenchmarkBoxVisibleCulled(b *testing.B) {
	f := testCamera().Frustum()
	box := NewAABB(math3d.V3(-1, -1, 4), math3d.V3(1, 1, 6))

	for b.Loop() {
		_ = f.BoxVisible(box)
	}
}

// BenchmarkCullGrid culls a 32x32 field of unit cells around the camera.
func BenchmarkCullGrid(b *testing.B) {
	f := testCamera().Frustum()
	rng := rand.New(rand.NewSource(42))

	boxes := make([]AABB, 0, 32*32)
	for z := range 32 {
		for x := range 32 {
			y := rng.Float64()
			boxes = append(boxes, NewAABB(
				math3d.V3(float64(x-16), y-1, float64(z-16)),
				math3d.V3(float64(x-15), y+1, float64(z-15)),
			))
		}
	}

	for b.Loop() {
		visible := 0
		for _, box := range boxes {
			if f.BoxVisible(box) {
				visible++
			}
		}
		_ = visible
	}
}
