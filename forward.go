package turret

import (
	"zappem.net/pub/math/geom"
)

// Forward evaluates where the barrel sits in world space once the
// joint adopts rotation r. The arguments match ForJoint, so the
// barrel offsets are expected to be scaled already. It does not
// alter any of its inputs.
func Forward(joint Transform, jointToStart, startToEnd geom.Vector, r Rotation) (start, end geom.Vector) {
	m := r.Matrix()
	w := joint.WithoutScale()
	start = w.Apply(m.XV(jointToStart))
	end = w.Apply(m.XV(jointToStart.Add(startToEnd)))
	return start, end
}

// Miss returns the distance between target and the infinite line
// through the barrel start and end. A zero length barrel measures
// from its start.
func Miss(start, end, target geom.Vector) float64 {
	along := end.Sub(start)
	off := target.Sub(start)
	n := along.R()
	if geom.Zeroish(n) {
		return off.R()
	}
	return along.Cross(off).R() / n
}

// Aim solves the turret for an actor and reports both the rotation
// and how far the resulting barrel line passes from the target. A
// miss above zero means the target was out of reach and was
// substituted.
func Aim(actor Transform, actorToJoint, jointToStart, startToEnd, target geom.Vector) (Rotation, float64) {
	r := ForActor(actor, actorToJoint, jointToStart, startToEnd, target)

	scale := actor.ScaleOnly()
	joint := Translation(actorToJoint).Compose(actor)
	start, end := Forward(joint, scale.Apply(jointToStart), scale.Apply(startToEnd), r)
	return r, Miss(start, end, target)
}
