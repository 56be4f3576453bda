package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"qugo"
)

// Sample runs the program for the given number of shots and tallies the
// outputs by their printed form. Each shot traces and compiles the program
// afresh, since promises resolve exactly once. Shots run concurrently,
// bounded by parallelism; zero or negative means one worker per CPU.
func Sample(ctx context.Context, prog *qugo.Program, exec *Executor, shots, parallelism int) (map[string]int, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	outs := make([]string, shots)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := range shots {
		g.Go(func() error {
			out, err := prog.Run(ctx, exec)
			if err != nil {
				return err
			}
			outs[i] = fmt.Sprint(out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(outs))
	for _, o := range outs {
		counts[o]++
	}
	return counts, nil
}
