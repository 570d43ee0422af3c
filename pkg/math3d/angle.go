package math3d

import "math"

// Angle is a heading in radians. Zero points along +X and angles grow
// toward +Y, which is "down" on a row-major grid.
type Angle float64

// Deg converts degrees to an Angle.
func Deg(degrees float64) Angle {
	return Angle(degrees * math.Pi / 180)
}

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180 / math.Pi
}

// Normalize wraps the angle into [0, 2π).
func (a Angle) Normalize() Angle {
	r := math.Mod(float64(a), 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return Angle(r)
}

// Dir returns the unit direction vector for the angle.
func (a Angle) Dir() Vec2 {
	s, c := math.Sincos(float64(a))
	return Vec2{c, s}
}

// Sub returns the signed difference a-b wrapped into (-π, π].
func (a Angle) Sub(b Angle) Angle {
	d := math.Mod(float64(a-b), 2*math.Pi)
	if d <= -math.Pi {
		d += 2 * math.Pi
	} else if d > math.Pi {
		d -= 2 * math.Pi
	}
	return Angle(d)
}

func (a Angle) Cos() float64 { return math.Cos(float64(a)) }
func (a Angle) Sin() float64 { return math.Sin(float64(a)) }
