package batch

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zappem.net/pub/kinematics/turret/internal/scenario"
)

func ring(n int) []scenario.Shot {
	shots := make([]scenario.Shot, n)
	for i := range shots {
		shots[i] = scenario.Shot{
			ID:          fmt.Sprintf("shot-%d", i),
			Joint:       []float64{0, 0, 50},
			BarrelStart: []float64{10, 0, 5},
			BarrelEnd:   []float64{100, 0, 0},
			Target:      []float64{float64(400 - 10*i), float64(20 * i), 80},
		}
	}
	return shots
}

func TestSolve(t *testing.T) {
	shots := ring(40)
	got, err := Solve(context.Background(), shots, 4)
	require.NoError(t, err)
	require.Len(t, got, len(shots))

	for i, r := range got {
		assert.Equal(t, shots[i].ID, r.ID)
		assert.Less(t, r.Miss, 1e-6, "shot %d", i)

		req, err := shots[i].Request()
		require.NoError(t, err)
		want, _ := req.Solve()
		assert.Equal(t, want, r.Rotation, "shot %d", i)
	}
}

func TestSolveRepeatable(t *testing.T) {
	shots := ring(25)
	a, err := Solve(context.Background(), shots, 8)
	require.NoError(t, err)
	b, err := Solve(context.Background(), shots, 1)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, Digest(a), Digest(b))

	b[3].Rotation.Yaw += 1e-12
	assert.NotEqual(t, Digest(a), Digest(b))
}

func TestSolveBadShot(t *testing.T) {
	shots := ring(5)
	shots[2].Target = []float64{1}
	_, err := Solve(context.Background(), shots, 2)
	assert.ErrorIs(t, err, scenario.ErrBadVector)
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Solve(ctx, ring(5), 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolveEmpty(t *testing.T) {
	got, err := Solve(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

const anonymousYAML = `
shots:
  - joint: [0, 0, 50]
    barrel_start: [10, 0, 5]
    barrel_end: [100, 0, 0]
    target: [400, 300, 80]
  - joint: [0, 0, 50]
    barrel_start: [10, 0, 5]
    barrel_end: [100, 0, 0]
    target: [-200, 50, 10]
`

func TestDigestAnonymousShots(t *testing.T) {
	digest := func() uint64 {
		f, err := scenario.Load(strings.NewReader(anonymousYAML))
		require.NoError(t, err)
		got, err := Solve(context.Background(), f.Shots, 2)
		require.NoError(t, err)
		return Digest(got)
	}
	assert.Equal(t, digest(), digest())
}
