package scene

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/render"
)

// Actor is a paper doll: a camera-facing sprite standing at Pos, the
// middle of its feet.
type Actor struct {
	Name   string
	Pos    math3d.Vec3
	Radius float64 // bounding radius used for culling
	Height float64
	Sprite *render.Texture // nil draws a placeholder quad in Color
	Color  render.Color

	Grounded  bool
	VelocityY float64
}

// NewActor returns a grounded actor at pos.
func NewActor(name string, pos math3d.Vec3) Actor {
	return Actor{
		Name:     name,
		Pos:      pos,
		Radius:   0.4,
		Height:   1,
		Color:    render.ColorYellow,
		Grounded: true,
	}
}

// Jump launches a grounded actor upward at speed v.
func (a *Actor) Jump(v float64) {
	if !a.Grounded {
		return
	}
	a.Grounded = false
	a.VelocityY = v
}

// Step advances the actor by dt seconds of gravity. groundY is the floor
// below the actor; landing on it stops the fall. A grounded actor whose
// floor drops away starts falling.
func (a *Actor) Step(dt, groundY float64) {
	if dt <= 0 {
		return
	}
	if a.Grounded {
		if a.Pos.Y <= groundY+1e-9 {
			a.Pos.Y = groundY
			return
		}
		a.Grounded = false
	}

	p := harmonica.NewProjectile(dt,
		harmonica.Point{X: a.Pos.X, Y: a.Pos.Y, Z: a.Pos.Z},
		harmonica.Vector{Y: a.VelocityY},
		harmonica.Gravity,
	)
	pos := p.Update()
	a.Pos.Y = pos.Y
	a.VelocityY = p.Velocity().Y

	if a.Pos.Y <= groundY && a.VelocityY <= 0 {
		a.Pos.Y = groundY
		a.VelocityY = 0
		a.Grounded = true
	}
}

// Bounds returns the actor's bounding box.
func (a *Actor) Bounds() render.AABB {
	r := math3d.V3(a.Radius, 0, a.Radius)
	return render.AABB{
		Min: a.Pos.Sub(r),
		Max: a.Pos.Add(r).Add(math3d.V3(0, a.Height, 0)),
	}
}
