// Package batch solves many scenario shots at once.
package batch

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"zappem.net/pub/kinematics/turret"
	"zappem.net/pub/kinematics/turret/internal/scenario"
)

// Result is the solution of one shot.
type Result struct {
	ID       string
	Object   string
	Rotation turret.Rotation
	// Miss is how far the aimed barrel line passes from the target.
	Miss float64
}

// Solve solves shots on up to workers goroutines and returns the
// results in shot order. The first invalid shot, or cancellation of
// ctx, stops the batch.
func Solve(ctx context.Context, shots []scenario.Shot, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]Result, len(shots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range shots {
		i := i // per-iteration copy (go 1.21 loop semantics)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			req, err := shots[i].Request()
			if err != nil {
				return err
			}
			r, miss := req.Solve()
			out[i] = Result{
				ID:       shots[i].ID,
				Object:   shots[i].Object,
				Rotation: r,
				Miss:     miss,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Digest hashes the IDs and exact rotation bits of results. Two runs
// over the same shots produce the same digest.
func Digest(results []Result) uint64 {
	d := xxhash.New()
	var buf []byte
	for _, r := range results {
		buf = buf[:0]
		buf = append(buf, r.ID...)
		buf = append(buf, 0)
		for _, x := range []float64{r.Rotation.Pitch, r.Rotation.Yaw, r.Rotation.Roll} {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
		}
		d.Write(buf)
	}
	return d.Sum64()
}
