// Package turret computes the rotation a turret's aim joint must
// adopt so that its barrel points at a target. The barrel is a rigid
// segment offset from the joint, so simply looking at the target from
// the joint is not enough.
//
// Coordinates follow a Z-up convention with the X-Y plane horizontal.
// The turret at rest points its barrel along +X:
//
//	actor  --actorToJoint-->  joint  --jointToStart-->  barrel start
//	barrel start  --startToEnd-->  barrel end
//
// All offsets are expressed in the actor's unrotated, unscaled frame.
// The solution is a Rotation with a yaw about the joint's Z axis and a
// pitch in the joint's vertical plane. Roll is always zero.
//
// Every function in this package is a pure function of its arguments.
// None fail: degenerate geometry degrades to a finite best effort
// rotation instead.
package turret

import (
	"zappem.net/pub/math/geom"
)

// ForActor computes the joint rotation, relative to the actor, that
// aims the barrel at the world location target. The actor's scale
// stretches the barrel offsets, while its rotation and translation
// only place the joint.
func ForActor(actor Transform, actorToJoint, jointToStart, startToEnd, target geom.Vector) Rotation {
	scale := actor.ScaleOnly()
	jointToStartScaled := scale.Apply(jointToStart)
	startToEndScaled := scale.Apply(startToEnd)

	joint := Translation(actorToJoint).Compose(actor)
	return ForJoint(joint, jointToStartScaled, startToEndScaled, target)
}

// ForJoint computes the joint rotation for a joint whose world
// transform is already known. The barrel offsets must already carry
// the actor's scale. The joint's own scale is ignored.
func ForJoint(joint Transform, jointToStart, startToEnd, target geom.Vector) Rotation {
	toJoint := joint.WithoutScale().Inverse()

	j := geom.V(0, 0, 0)
	s := geom.V(jointToStart[0], jointToStart[1], jointToStart[2])
	e := s.Add(startToEnd)
	t := toJoint.Apply(target)

	yaw := Yaw(j, t)

	// Turning the target back by the yaw lays it on the X-Z plane
	// with the barrel, leaving a 2D problem for the pitch.
	aligned := Rotation{Yaw: yaw}.Inverse().XV(t)

	return Rotation{
		Pitch: Pitch(j, s, e, aligned),
		Yaw:   yaw,
	}
}
