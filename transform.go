package turret

import (
	"zappem.net/pub/math/geom"
)

// Rotation holds a pitch, yaw and roll in degrees. Yaw turns +X
// toward +Y about the +Z (up) axis, pitch raises +X toward +Z and
// roll turns +Z toward +Y about +X. Angles are not normalized.
type Rotation struct {
	Pitch, Yaw, Roll float64
}

// Matrix returns the rotation matrix of r. It applies roll, then
// pitch, then yaw. Pitch and roll turn against the right-hand sense
// of their axes.
func (r Rotation) Matrix() geom.Matrix {
	return geom.RZ(geom.Degrees(r.Yaw)).
		XM(geom.RY(geom.Degrees(-r.Pitch))).
		XM(geom.RX(geom.Degrees(-r.Roll)))
}

// Inverse returns the matrix that undoes r.
func (r Rotation) Inverse() geom.Matrix {
	return r.Matrix().Transpose()
}

// Transform maps a point from a local frame to its parent. The
// point is scaled, then rotated, then translated. Rot must be
// orthonormal.
type Transform struct {
	Rot   geom.Matrix
	Trans geom.Vector
	Scale geom.Vector
}

// Identity returns the transform that leaves every point alone.
func Identity() Transform {
	return Transform{
		Rot:   geom.M(geom.I...),
		Trans: geom.V(0, 0, 0),
		Scale: geom.V(1, 1, 1),
	}
}

// Translation returns a transform that only translates by v.
func Translation(v geom.Vector) Transform {
	t := Identity()
	t.Trans = geom.V(v[0], v[1], v[2])
	return t
}

// NewTransform builds a transform from a rotation, a location and a
// per-axis scale.
func NewTransform(r Rotation, location, scale geom.Vector) Transform {
	return Transform{
		Rot:   r.Matrix(),
		Trans: geom.V(location[0], location[1], location[2]),
		Scale: geom.V(scale[0], scale[1], scale[2]),
	}
}

// Apply maps the point p into the parent frame of t.
func (t Transform) Apply(p geom.Vector) geom.Vector {
	return t.Rot.XV(mulV(t.Scale, p)).Add(t.Trans)
}

// Compose returns the transform that applies t and then parent.
// The result is exact when t carries no rotation or parent has a
// uniform scale.
func (t Transform) Compose(parent Transform) Transform {
	return Transform{
		Rot:   parent.Rot.XM(t.Rot),
		Trans: parent.Apply(t.Trans),
		Scale: mulV(t.Scale, parent.Scale),
	}
}

// Inverse returns the transform mapping parent frame points back
// into the local frame of t. It is exact for uniformly scaled
// transforms. A zero scale component inverts to zero.
func (t Transform) Inverse() Transform {
	rot := t.Rot.Transpose()
	inv := geom.V(recip(t.Scale[0]), recip(t.Scale[1]), recip(t.Scale[2]))
	return Transform{
		Rot:   rot,
		Trans: mulV(inv, rot.XV(t.Trans.Scale(-1))),
		Scale: inv,
	}
}

// ScaleOnly returns a transform that keeps only the scale of t.
func (t Transform) ScaleOnly() Transform {
	s := Identity()
	s.Scale = geom.V(t.Scale[0], t.Scale[1], t.Scale[2])
	return s
}

// WithoutScale returns t with its scale reset to one.
func (t Transform) WithoutScale() Transform {
	return Transform{
		Rot:   t.Rot,
		Trans: t.Trans,
		Scale: geom.V(1, 1, 1),
	}
}

func mulV(a, b geom.Vector) geom.Vector {
	return geom.V(a[0]*b[0], a[1]*b[1], a[2]*b[2])
}

func recip(x float64) float64 {
	if x == 0 {
		return 0
	}
	return 1 / x
}

