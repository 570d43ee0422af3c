package math3d

// Vec4 is a homogeneous coordinate, usually a clip-space position.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// Point4 lifts a position to homogeneous form with w = 1.
func Point4(v Vec3) Vec4 {
	return Vec4{v.X, v.Y, v.Z, 1}
}

// XYZ drops the w component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide returns normalized device coordinates.
// A zero w leaves the components undivided.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return Vec3{v.X, v.Y, v.Z}
	}
	inv := 1 / v.W
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Lerp interpolates between two homogeneous points. Used when clipping
// edges against the near plane, where interpolation must happen before
// the divide.
func (v Vec4) Lerp(b Vec4, t float64) Vec4 {
	return Vec4{
		v.X + (b.X-v.X)*t,
		v.Y + (b.Y-v.Y)*t,
		v.Z + (b.Z-v.Z)*t,
		v.W + (b.W-v.W)*t,
	}
}
