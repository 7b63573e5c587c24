package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/segalloc/segalloc/internal/config"
	"github.com/segalloc/segalloc/internal/heapprovider"
	"github.com/segalloc/segalloc/internal/segalloc"
)

// runStress launches n independent allocator instances, each with its own
// heapprovider.Simulated and its own goroutine — concurrency of instances,
// never concurrency within one, matching the allocator core's
// single-threaded-per-instance model.
func runStress(args []string) {
	fs := flag.NewFlagSet("stress", flag.ExitOnError)
	opsPerWorker := fs.Int("ops", 20000, "operations per worker")
	seed := fs.Int64("seed", 1, "base random seed")

	if err := fs.Parse(args); err != nil {
		fatalf("parse flags: %v", err)
	}

	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "usage: segalloc-bench stress [flags] <n>")
		os.Exit(2)
	}

	n := mustAtoi(rest[0])

	g, ctx := errgroup.WithContext(context.Background())

	var totalOps int64

	start := time.Now()

	for i := 0; i < n; i++ {
		i := i

		g.Go(func() error {
			return stressWorker(ctx, i, *opsPerWorker, *seed+int64(i), &totalOps)
		})
	}

	if err := g.Wait(); err != nil {
		fatalf("stress run failed: %v", err)
	}

	elapsed := time.Since(start)
	ops := atomic.LoadInt64(&totalOps)

	fmt.Printf("workers=%d total_ops=%d elapsed=%s ops/sec=%.0f\n",
		n, ops, elapsed, float64(ops)/elapsed.Seconds())
}

func stressWorker(ctx context.Context, id, ops int, seed int64, totalOps *int64) error {
	a, err := segalloc.New(heapprovider.NewSimulated(128<<20), config.WithInvariantChecks(true))
	if err != nil {
		return fmt.Errorf("worker %d: construct allocator: %w", id, err)
	}

	rnd := rand.New(rand.NewSource(seed))

	var live []int

	for i := 0; i < ops; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		switch {
		case len(live) == 0 || rnd.Intn(3) != 0:
			size := uint32(8 + rnd.Intn(2048))
			live = append(live, a.Allocate(size))

		case rnd.Intn(2) == 0:
			idx := rnd.Intn(len(live))
			a.Free(live[idx])
			live = append(live[:idx], live[idx+1:]...)

		default:
			idx := rnd.Intn(len(live))
			live[idx] = a.Reallocate(live[idx], uint32(8+rnd.Intn(2048)))
		}

		atomic.AddInt64(totalOps, 1)
	}

	return nil
}
