package turret

import (
	"math"

	"zappem.net/pub/math/geom"
)

// Vec2 is a point or direction in the plane the pitch is solved
// in. Which frame it belongs to is up to the caller.
type Vec2 struct {
	X, Y float64
}

// Add returns a+b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns a-b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns a scaled by s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Dot returns the dot product of a and b.
func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Len returns the length of a.
func (a Vec2) Len() float64 {
	return math.Hypot(a.X, a.Y)
}

// SafeNormal returns a scaled to unit length. A vector that is
// zero, or too short to normalize, yields the zero vector.
func (a Vec2) SafeNormal() Vec2 {
	r := a.Len()
	if geom.Zeroish(r) {
		return Vec2{}
	}
	return Vec2{a.X / r, a.Y / r}
}

// Rotate returns a rotated counter-clockwise by deg degrees.
func (a Vec2) Rotate(deg float64) Vec2 {
	t := geom.Degrees(deg)
	s, c := t.S(), t.C()
	return Vec2{a.X*c - a.Y*s, a.X*s + a.Y*c}
}

// xz projects a 3D vector onto the vertical X-Z plane.
func xz(v geom.Vector) Vec2 {
	return Vec2{v[0], v[2]}
}

