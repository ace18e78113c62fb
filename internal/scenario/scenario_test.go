package scenario

import (
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zappem.net/pub/math/geom"

	"zappem.net/pub/kinematics/turret"
)

const towerYAML = `
shots:
  - id: tower-1
    object: tower-1
    actor:
      location: [0, 0, 0]
      rotator: {pitch: 0, yaw: 30, roll: 0}
      scale: [1, 1, 1]
    joint: [0, 0, 50]
    barrel_start: [10, 0, 5]
    barrel_end: [100, 0, 0]
    target: [500, 300, 80]
  - actor:
      quat: [1, 0, 0, 0]
    joint: [0, 0, 0]
    barrel_start: [0, 0, 0]
    barrel_end: [1, 0, 0]
    target: [0, 5, 0]
`

func assertVecNear(t *testing.T, want, got geom.Vector) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-9, "component %d: want=%v got=%v", i, want, got)
	}
}

func TestLoadYAML(t *testing.T) {
	f, err := Load(strings.NewReader(towerYAML))
	require.NoError(t, err)
	require.Len(t, f.Shots, 2)

	s := f.Shots[0]
	assert.Equal(t, "tower-1", s.ID)
	assert.Equal(t, "tower-1", s.Object)
	require.NotNil(t, s.Actor.Rotator)
	assert.Equal(t, 30.0, s.Actor.Rotator.Yaw)
	assert.Equal(t, []float64{100, 0, 0}, s.BarrelEnd)

	_, err = uuid.Parse(f.Shots[1].ID)
	assert.NoError(t, err, "anonymous shot gets a uuid")

	again, err := Load(strings.NewReader(towerYAML))
	require.NoError(t, err)
	assert.Equal(t, f.Shots[1].ID, again.Shots[1].ID, "reloading names anonymous shots the same")
}

func TestNormalize(t *testing.T) {
	var a, b, c Shot
	a.Normalize(0)
	b.Normalize(0)
	c.Normalize(1)
	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)

	named := Shot{ID: "keep"}
	named.Normalize(0)
	assert.Equal(t, "keep", named.ID)
}

func TestLoadJSON(t *testing.T) {
	src := `{"shots": [{"id": "j", "joint": [0,0,1], "barrel_start": [1,0,0], "barrel_end": [2,0,0], "target": [9,9,9]}]}`
	f, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, f.Shots, 1)
	assert.Equal(t, "j", f.Shots[0].ID)
	assert.Nil(t, f.Shots[0].Actor.Location)
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoShots)

	_, err = Load(strings.NewReader("shots: {}"))
	assert.Error(t, err)
}

func TestRequest(t *testing.T) {
	f, err := Load(strings.NewReader(towerYAML))
	require.NoError(t, err)

	req, err := f.Shots[0].Request()
	require.NoError(t, err)
	assertVecNear(t, geom.V(0, 0, 50), req.Joint)
	assertVecNear(t, geom.V(500, 300, 80), req.Target)
	assertVecNear(t, geom.V(1, 1, 1), req.Actor.Scale)

	r, miss := req.Solve()
	assert.Less(t, miss, 1e-6)
	want := turret.ForActor(req.Actor, req.Joint, req.BarrelStart, req.BarrelEnd, req.Target)
	assert.Equal(t, want, r)

	req, err = f.Shots[1].Request()
	require.NoError(t, err)
	r, _ = req.Solve()
	assert.InDelta(t, 90, r.Yaw, 1e-9)
}

func TestRequestErrors(t *testing.T) {
	good := Shot{
		ID:          "x",
		Joint:       []float64{0, 0, 0},
		BarrelStart: []float64{0, 0, 0},
		BarrelEnd:   []float64{1, 0, 0},
		Target:      []float64{5, 0, 0},
	}
	_, err := good.Request()
	require.NoError(t, err)

	bad := good
	bad.Target = []float64{1, 2}
	_, err = bad.Request()
	assert.ErrorIs(t, err, ErrBadVector)
	assert.Contains(t, err.Error(), "target")

	bad = good
	bad.Joint = nil
	_, err = bad.Request()
	assert.ErrorIs(t, err, ErrBadVector)

	bad = good
	bad.BarrelEnd = []float64{math.NaN(), 0, 0}
	_, err = bad.Request()
	assert.ErrorIs(t, err, ErrBadVector)

	bad = good
	bad.Actor.Scale = []float64{1}
	_, err = bad.Request()
	assert.ErrorIs(t, err, ErrBadVector)

	bad = good
	bad.Actor.Rotator = &Rotator{}
	bad.Actor.Quat = []float64{1, 0, 0, 0}
	_, err = bad.Request()
	assert.ErrorIs(t, err, ErrBadRotation)

	bad = good
	bad.Actor.Quat = []float64{0, 0, 0, 0}
	_, err = bad.Request()
	assert.ErrorIs(t, err, ErrBadRotation)

	bad = good
	bad.Actor.Quat = []float64{1, 0, 0}
	_, err = bad.Request()
	assert.ErrorIs(t, err, ErrBadRotation)
}

func TestQuatMatchesRotator(t *testing.T) {
	p := geom.V(3, -2, 7)
	h := math.Sqrt(0.5)
	s15, c15 := math.Sin(15*math.Pi/180), math.Cos(15*math.Pi/180)
	vs := []struct {
		q []float64
		r Rotator
	}{
		{[]float64{1, 0, 0, 0}, Rotator{}},
		{[]float64{h, 0, 0, h}, Rotator{Yaw: 90}},
		// A positive pitch raises +X, which is a negative turn
		// about +Y.
		{[]float64{c15, 0, -s15, 0}, Rotator{Pitch: 30}},
		// Unnormalized input.
		{[]float64{2 * h, 0, 0, 2 * h}, Rotator{Yaw: 90}},
	}
	for i, v := range vs {
		q, err := Actor{Quat: v.q}.Transform()
		require.NoError(t, err, "case %d", i)
		r := v.r
		e, err := Actor{Rotator: &r}.Transform()
		require.NoError(t, err, "case %d", i)
		assertVecNear(t, e.Apply(p), q.Apply(p))
	}
}
