package render

import (
	"github.com/taigrr/gridsight/pkg/math3d"
)

// Frustum performs the cheap clip-space visibility test used to skip cells,
// props and actors before rasterization.
//
// A shape is visible when at least one of its representative points
// satisfies |x| <= w, |y| <= w and w > 0 in clip space. This is a per-point
// test, not a six-plane test: a large box straddling the view with no corner
// inside reports false. Depth is not tested; the far plane is left to fog.
type Frustum struct {
	VP math3d.Mat4
}

// NewFrustum creates a frustum from a view-projection matrix.
func NewFrustum(vp math3d.Mat4) Frustum {
	return Frustum{VP: vp}
}

// Frustum returns the camera's culling frustum.
func (c Camera) Frustum() Frustum {
	return NewFrustum(c.ViewProjectionMatrix())
}

// InClip reports whether a clip-space point lies inside the side planes.
func InClip(v math3d.Vec4) bool {
	return v.W > 0 &&
		v.X <= v.W && -v.X <= v.W &&
		v.Y <= v.W && -v.Y <= v.W
}

// PointVisible tests a single world point.
func (f Frustum) PointVisible(p math3d.Vec3) bool {
	return InClip(f.VP.MulVec4(math3d.Point4(p)))
}

// BoxVisible tests the eight corners of a box.
func (f Frustum) BoxVisible(box AABB) bool {
	for _, c := range box.Corners() {
		if f.PointVisible(c) {
			return true
		}
	}
	return false
}

// SphereVisible approximates a sphere by the box spanning center ± radius.
func (f Frustum) SphereVisible(center math3d.Vec3, radius float64) bool {
	if f.PointVisible(center) {
		return true
	}
	r := math3d.V3(radius, radius, radius)
	return f.BoxVisible(AABB{Min: center.Sub(r), Max: center.Add(r)})
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from two opposite corners in any order.
func NewAABB(a, b math3d.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the eight corners. Bit 0 of the index selects max X,
// bit 1 max Y and bit 2 max Z.
func (b AABB) Corners() [8]math3d.Vec3 {
	var out [8]math3d.Vec3
	for i := range out {
		p := b.Min
		if i&1 != 0 {
			p.X = b.Max.X
		}
		if i&2 != 0 {
			p.Y = b.Max.Y
		}
		if i&4 != 0 {
			p.Z = b.Max.Z
		}
		out[i] = p
	}
	return out
}

// Transform returns the AABB bounding all eight transformed corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := b.Corners()
	first := m.MulVec3(corners[0])
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := m.MulVec3(c)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
