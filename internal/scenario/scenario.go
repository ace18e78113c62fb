// Package scenario describes turret solve requests ("shots") in YAML
// or JSON, and turns them into solver inputs.
//
// A scenario file looks like:
//
//	shots:
//	  - id: tower-1
//	    object: tower-1
//	    actor:
//	      location: [0, 0, 0]
//	      rotator: {pitch: 0, yaw: 30, roll: 0}
//	      scale: [1, 1, 1]
//	    joint: [0, 0, 50]
//	    barrel_start: [10, 0, 5]
//	    barrel_end: [100, 0, 0]
//	    target: [500, 300, 80]
//
// The actor's rotation may instead be given as a quaternion with
// quat: [w, x, y, z]. Joint, barrel_start and barrel_end are the
// actor-to-joint, joint-to-barrel-start and barrel-start-to-barrel-end
// offsets in the actor's unrotated, unscaled frame.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/num/quat"
	"gopkg.in/yaml.v3"
	"zappem.net/pub/math/geom"

	"zappem.net/pub/kinematics/turret"
)

// Err* are the errors exported by this package.
var (
	ErrBadVector   = errors.New("vector needs three finite components")
	ErrBadRotation = errors.New("invalid actor rotation")
	ErrNoShots     = errors.New("scenario has no shots")
)

// Rotator is an actor rotation in degrees.
type Rotator struct {
	Pitch float64 `yaml:"pitch" json:"pitch"`
	Yaw   float64 `yaml:"yaw" json:"yaw"`
	Roll  float64 `yaml:"roll" json:"roll"`
}

// Actor places the turret's owner in the world.
type Actor struct {
	Location []float64 `yaml:"location" json:"location"`
	Rotator  *Rotator  `yaml:"rotator,omitempty" json:"rotator,omitempty"`
	Quat     []float64 `yaml:"quat,omitempty" json:"quat,omitempty"`
	Scale    []float64 `yaml:"scale,omitempty" json:"scale,omitempty"`
}

// Shot is a single solve request.
type Shot struct {
	ID          string    `yaml:"id" json:"id"`
	Object      string    `yaml:"object,omitempty" json:"object,omitempty"`
	Actor       Actor     `yaml:"actor" json:"actor"`
	Joint       []float64 `yaml:"joint" json:"joint"`
	BarrelStart []float64 `yaml:"barrel_start" json:"barrel_start"`
	BarrelEnd   []float64 `yaml:"barrel_end" json:"barrel_end"`
	Target      []float64 `yaml:"target" json:"target"`
}

// File is a scenario file.
type File struct {
	Shots []Shot `yaml:"shots" json:"shots"`
}

// Load decodes a scenario. JSON is accepted as well as YAML. Every
// shot without an ID is given a random one.
func Load(r io.Reader) (*File, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if len(f.Shots) == 0 {
		return nil, ErrNoShots
	}
	for i := range f.Shots {
		f.Shots[i].Normalize(i)
	}
	return &f, nil
}

// LoadFile loads the scenario at path, or from stdin when path is "-".
func LoadFile(path string) (*File, error) {
	if path == "-" {
		return Load(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Normalize gives an anonymous shot an ID derived from its position
// seq in the scenario, so reloading a file names its shots the same.
func (s *Shot) Normalize(seq int) {
	if s.ID == "" {
		s.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("shot-%d", seq))).String()
	}
}

// Request holds the solver inputs of a shot.
type Request struct {
	Actor       turret.Transform
	Joint       geom.Vector
	BarrelStart geom.Vector
	BarrelEnd   geom.Vector
	Target      geom.Vector
}

// Request validates s and converts it to solver inputs.
func (s Shot) Request() (Request, error) {
	var (
		req Request
		err error
	)
	if req.Actor, err = s.Actor.Transform(); err != nil {
		return Request{}, fmt.Errorf("shot %q: %w", s.ID, err)
	}
	vs := []struct {
		name string
		in   []float64
		out  *geom.Vector
	}{
		{"joint", s.Joint, &req.Joint},
		{"barrel_start", s.BarrelStart, &req.BarrelStart},
		{"barrel_end", s.BarrelEnd, &req.BarrelEnd},
		{"target", s.Target, &req.Target},
	}
	for _, v := range vs {
		if *v.out, err = vector(v.in, nil); err != nil {
			return Request{}, fmt.Errorf("shot %q: %s: %w", s.ID, v.name, err)
		}
	}
	return req, nil
}

// Solve aims the turret of r and reports the barrel's miss distance.
func (r Request) Solve() (turret.Rotation, float64) {
	return turret.Aim(r.Actor, r.Joint, r.BarrelStart, r.BarrelEnd, r.Target)
}

// Transform converts the actor placement. A missing location is the
// origin and a missing scale is unit scale.
func (a Actor) Transform() (turret.Transform, error) {
	loc, err := vector(a.Location, []float64{0, 0, 0})
	if err != nil {
		return turret.Transform{}, fmt.Errorf("actor location: %w", err)
	}
	scale, err := vector(a.Scale, []float64{1, 1, 1})
	if err != nil {
		return turret.Transform{}, fmt.Errorf("actor scale: %w", err)
	}

	t := turret.Transform{Trans: loc, Scale: scale}
	switch {
	case a.Rotator != nil && a.Quat != nil:
		return turret.Transform{}, fmt.Errorf("%w: both rotator and quat given", ErrBadRotation)
	case a.Quat != nil:
		if len(a.Quat) != 4 {
			return turret.Transform{}, fmt.Errorf("%w: quat needs [w, x, y, z]", ErrBadRotation)
		}
		m, err := quatMatrix(quat.Number{Real: a.Quat[0], Imag: a.Quat[1], Jmag: a.Quat[2], Kmag: a.Quat[3]})
		if err != nil {
			return turret.Transform{}, err
		}
		t.Rot = m
	case a.Rotator != nil:
		t.Rot = turret.Rotation{Pitch: a.Rotator.Pitch, Yaw: a.Rotator.Yaw, Roll: a.Rotator.Roll}.Matrix()
	default:
		t.Rot = turret.Identity().Rot
	}
	return t, nil
}

// quatMatrix returns the rotation matrix of q, which need not be of
// unit length.
func quatMatrix(q quat.Number) (geom.Matrix, error) {
	n := quat.Abs(q)
	if geom.Zeroish(n) || !finite(n) {
		return nil, fmt.Errorf("%w: quat has no direction", ErrBadRotation)
	}
	q = quat.Scale(1/n, q)
	qc := quat.Conj(q)

	// Column i is the image of axis i, computed as q*v*q'.
	img := func(x, y, z float64) quat.Number {
		return quat.Mul(quat.Mul(q, quat.Number{Imag: x, Jmag: y, Kmag: z}), qc)
	}
	ex, ey, ez := img(1, 0, 0), img(0, 1, 0), img(0, 0, 1)
	return geom.M(
		ex.Imag, ey.Imag, ez.Imag,
		ex.Jmag, ey.Jmag, ez.Jmag,
		ex.Kmag, ey.Kmag, ez.Kmag,
	), nil
}

// vector converts v, falling back to def when v is absent.
func vector(v, def []float64) (geom.Vector, error) {
	if v == nil && def != nil {
		v = def
	}
	if len(v) != 3 {
		return nil, ErrBadVector
	}
	for _, x := range v {
		if !finite(x) {
			return nil, ErrBadVector
		}
	}
	return geom.V(v[0], v[1], v[2]), nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
