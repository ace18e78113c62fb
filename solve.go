package turret

import (
	"math"

	"zappem.net/pub/math/geom"
)

// SolveQuadratic returns the two real roots of a*x^2 + b*x + c = 0 as
// (-b-sqrt(disc))/2a and (-b+sqrt(disc))/2a. It reports false when a
// is zeroish or the discriminant is negative.
func SolveQuadratic(a, b, c float64) (x1, x2 float64, ok bool) {
	den := 2 * a
	if geom.Zeroish(den) {
		return 0, 0, false
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	rt := math.Sqrt(disc)
	return (-b - rt) / den, (-b + rt) / den, true
}

// RayDistance finds how far along the barrel ray, from start s in
// the direction of end e, a point lies at the same distance from
// joint j as the target t does. That is, d solves
//
//	|s + r*d - j| = |t - j|, r = unit(e - s)
//
// which expands to a*d^2 + b*d + c = 0 with
//
//	a = rx^2 + ry^2
//	b = 2*sx*rx - 2*jx*rx + 2*sy*ry - 2*jy*ry
//	c = (jx-sx)^2 + (jy-sy)^2 - (tx-jx)^2 - (ty-jy)^2
//
// Of the two roots the larger is returned: it is in front of the
// barrel start when either root is, and the one closer to the start
// when both are behind it. False is returned when there is no real
// root, which happens for a zero length barrel.
func RayDistance(j, s, e, t Vec2) (float64, bool) {
	r := e.Sub(s).SafeNormal()

	a := r.X*r.X + r.Y*r.Y
	b := (2*s.X*r.X - 2*j.X*r.X) + (2*s.Y*r.Y - 2*j.Y*r.Y)
	c := sq(j.X-s.X) + sq(j.Y-s.Y) - sq(t.X-j.X) - sq(t.Y-j.Y)

	d1, d2, ok := SolveQuadratic(a, b, c)
	if !ok {
		return 0, false
	}
	return bestRayDistance(d1, d2), true
}

// bestRayDistance prefers a root in front of the barrel start. When
// both are behind it the less negative root is the least behind, so
// either way the larger root wins.
func bestRayDistance(d1, d2 float64) float64 {
	return math.Max(d1, d2)
}

// MinReach returns the padded radius inside which the barrel cannot
// point at anything: the smaller of the joint's distances to the
// barrel start and end, pushed out by min(3, 1%) of itself.
func MinReach(j, s, e Vec2) float64 {
	m := math.Min(s.Sub(j).Len(), e.Sub(j).Len())
	return m + math.Min(3, 0.01*m)
}

// NearestValidTarget returns t when it is far enough from the joint
// for the barrel to point at it. A target inside MinReach is replaced
// by the point at MinReach from j in the direction of t (or j itself
// when t coincides with j).
func NearestValidTarget(j, s, e, t Vec2) Vec2 {
	toTarget := t.Sub(j)
	reach := MinReach(j, s, e)
	if toTarget.Len() < reach {
		return j.Add(toTarget.SafeNormal().Scale(reach))
	}
	return t
}

// SignedAngle returns the angle in degrees that rotates u onto v
// along the shorter way round: positive is counter-clockwise.
func SignedAngle(u, v Vec2) float64 {
	un, vn := u.SafeNormal(), v.SafeNormal()
	dot := math.Max(-1, math.Min(1, un.Dot(vn)))
	angle := geom.Radians(math.Acos(dot)).Deg()
	if un.Rotate(90).Dot(vn) >= 0 {
		return angle
	}
	return -angle
}

// Yaw returns the bearing in degrees of target as seen from joint in
// the horizontal X-Y plane. For a target directly above or below the
// joint the bearing is arbitrary but deterministic.
func Yaw(joint, target geom.Vector) float64 {
	d := target.Sub(joint)
	return geom.Radians(math.Atan2(d[1], d[0])).Deg()
}

// Pitch returns the angle in degrees, about the joint and in the
// vertical X-Z plane, that brings the barrel line through the
// target. All four points are expected to lie in that plane already,
// see ForJoint. Targets too close to the joint are replaced by
// NearestValidTarget. Geometry without a solution has pitch 0.
func Pitch(joint, barrelStart, barrelEnd, target geom.Vector) float64 {
	j, s, e := xz(joint), xz(barrelStart), xz(barrelEnd)
	t := NearestValidTarget(j, s, e, xz(target))

	d, ok := RayDistance(j, s, e, t)
	if !ok {
		return 0
	}

	// The point on the barrel ray that is as far from the joint as
	// the target. Rotating it onto the target aims the barrel.
	scaledEnd := s.Add(e.Sub(s).SafeNormal().Scale(d))
	return SignedAngle(scaledEnd.Sub(j), t.Sub(j))
}

func sq(x float64) float64 {
	return x * x
}
