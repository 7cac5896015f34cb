package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/internal/logger"
)

func init() {
	rootCmd.AddCommand(newStressCmd())
}

type stressConfig struct {
	strategy string
	workers  int
	ops      int
	maxSize  string
	limit    string
	seed     uint64
}

func newStressCmd() *cobra.Command {
	var cfg stressConfig
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run a concurrent alloc/free workload",
		Long: `The stress command runs workers that allocate, fill, verify and free
buffers of random sizes on one shared allocator. When it finishes, every
grant has been freed, so the allocator must report zero bytes in use.

Strategies: tracking, pages (tracking over vmem pages), pool, bump
(a synchronized arena that is cleared whenever it fills up).

Example:
  memctl stress
  memctl stress --strategy pool --workers 16 --ops 100000
  memctl stress --strategy tracking --limit 1M`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.strategy, "strategy", "tracking", "Allocator to stress: tracking, pages, pool or bump")
	cmd.Flags().IntVar(&cfg.workers, "workers", 0, "Concurrent workers (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&cfg.ops, "ops", 10000, "Alloc/free pairs per worker")
	cmd.Flags().StringVar(&cfg.maxSize, "max-size", "4K", "Largest request")
	cmd.Flags().StringVar(&cfg.limit, "limit", "0", "In-use ceiling for tracking and pool (0 = unlimited)")
	cmd.Flags().Uint64Var(&cfg.seed, "seed", 1, "Random seed")
	return cmd
}

type stressReport struct {
	Strategy   string        `json:"strategy"`
	Workers    int           `json:"workers"`
	Ops        int64         `json:"ops"`
	OOMEvents  int64         `json:"oom_events"`
	Duration   time.Duration `json:"duration_ns"`
	OpsPerSec  float64       `json:"ops_per_sec"`
	FinalUsed  int           `json:"final_used"`
	Stats      *alloc.Stats  `json:"stats,omitempty"`
	Mismatches int64         `json:"mismatches"`
}

// newStressAllocator builds the allocator named by strategy.
func newStressAllocator(strategy string, limit int64, maxSize int, onOOM alloc.OOMFunc) (alloc.Allocator, error) {
	opts := alloc.Options{OnOOM: onOOM, Limit: limit}
	switch strategy {
	case "tracking":
		return alloc.NewTracking(opts), nil
	case "pages":
		opts.Backend = alloc.PageBackend{}
		return alloc.NewTracking(opts), nil
	case "pool":
		return alloc.NewPool(alloc.PoolConfig{}, opts), nil
	case "bump":
		// Room for a few hundred of the largest requests.
		return alloc.Synchronized(alloc.NewBump(make([]byte, max(maxSize, alloc.Alignment)*256), alloc.Options{OnOOM: onOOM})), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

func runStress(ctx context.Context, cfg stressConfig) error {
	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))
	if err != nil {
		printVerbose("maxprocs: %v\n", err)
	}
	defer undo()

	maxSize, err := parseSize(cfg.maxSize)
	if err != nil {
		return err
	}
	if maxSize == 0 {
		return fmt.Errorf("max-size must be positive")
	}
	limit, err := parseSize(cfg.limit)
	if err != nil {
		return err
	}
	workers := cfg.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var oomEvents, ops, mismatches atomic.Int64
	a, err := newStressAllocator(cfg.strategy, int64(limit), maxSize, func(alloc.OOMEvent) {
		oomEvents.Add(1)
	})
	if err != nil {
		return err
	}
	if !a.ThreadSafe() {
		return fmt.Errorf("strategy %q is not safe for concurrent use", cfg.strategy)
	}

	printVerbose("Stressing %s with %d workers x %d ops\n", a.Name(), workers, cfg.ops)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		rng := rand.New(rand.NewPCG(cfg.seed, uint64(w)))
		g.Go(func() error {
			for i := range cfg.ops {
				if i%1024 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				b, err := a.Alloc(1 + rng.IntN(maxSize))
				if err != nil {
					if cfg.strategy == "bump" {
						a.Clear()
					}
					continue
				}
				for j := range b {
					b[j] = byte(w + j)
				}
				sum := xxhash.Sum64(b)
				runtime.Gosched()
				// A Clear by another worker legitimately recycles arena bytes.
				if cfg.strategy != "bump" && xxhash.Sum64(b) != sum {
					mismatches.Add(1)
				}
				a.Free(b)
				ops.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	rep := stressReport{
		Strategy:   cfg.strategy,
		Workers:    workers,
		Ops:        ops.Load(),
		OOMEvents:  oomEvents.Load(),
		Duration:   elapsed,
		OpsPerSec:  float64(ops.Load()) / elapsed.Seconds(),
		FinalUsed:  a.Used(),
		Mismatches: mismatches.Load(),
	}
	if s, ok := a.(interface{ Stats() alloc.Stats }); ok {
		st := s.Stats()
		rep.Stats = &st
	}

	if jsonOut {
		return printJSON(rep)
	}

	rows := [][]string{
		{"strategy", rep.Strategy},
		{"workers", strconv.Itoa(rep.Workers)},
		{"alloc/free pairs", printer.Sprintf("%d", rep.Ops)},
		{"oom events", strconv.FormatInt(rep.OOMEvents, 10)},
		{"duration", rep.Duration.Round(time.Microsecond).String()},
		{"ops/sec", printer.Sprintf("%.0f", rep.OpsPerSec)},
		{"final used", formatBytes(rep.FinalUsed)},
	}
	if rep.Stats != nil {
		rows = append(rows,
			[]string{"total allocated", formatBytes(rep.Stats.TotalAllocated)},
			[]string{"failures", strconv.FormatInt(rep.Stats.Failures, 10)},
		)
	}
	printTable([]string{"METRIC", "VALUE"}, rows)

	if rep.FinalUsed != 0 && cfg.strategy != "bump" {
		return fmt.Errorf("allocator reports %d bytes in use after all frees", rep.FinalUsed)
	}
	return nil
}
