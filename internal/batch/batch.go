// Package batch solves every instance of a problems file and aggregates the
// results. Instances are independent, so they solve concurrently on a worker
// pool; per-instance seeds derive from the base seed, which keeps a fixed
// seed reproducible regardless of worker count.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/gitrdm/greenhouse/internal/config"
	"github.com/gitrdm/greenhouse/internal/parallel"
	"github.com/gitrdm/greenhouse/pkg/cover"
)

// Result is the outcome of one instance: either a solution with its
// rendered grid, or the error that stopped it.
type Result struct {
	Index    int
	Field    *cover.Field
	Solution cover.Solution
	Grid     string
	Err      error
}

// Summary aggregates a whole batch run.
type Summary struct {
	Results   []Result
	TotalCost int
	Solved    int
	Failed    int
}

// Runner executes batches under one configuration.
type Runner struct {
	cfg config.Config
	log *zap.Logger
}

// NewRunner creates a batch runner. A nil logger discards all output.
func NewRunner(cfg config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log}
}

// RunFile solves every instance in the named problems file.
func (r *Runner) RunFile(ctx context.Context, path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("batch: open %s: %w", path, err)
	}
	defer f.Close()
	return r.Run(ctx, f)
}

// Run solves every instance read from src and returns the summary. Parse
// and validation failures are recorded per instance rather than aborting
// the batch.
func (r *Runner) Run(ctx context.Context, src io.Reader) (*Summary, error) {
	problems, err := cover.ReadProblems(src)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	baseSeed := r.cfg.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	results := make([]Result, len(problems))
	err = parallel.ForEach(ctx, r.cfg.Workers, len(problems), func(i int) {
		results[i] = r.solve(ctx, i, problems[i], baseSeed+int64(i))
	})
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	summary := &Summary{Results: results}
	for _, res := range results {
		if res.Err != nil {
			summary.Failed++
			continue
		}
		summary.Solved++
		summary.TotalCost += res.Solution.Score
	}
	r.log.Info("batch complete",
		zap.Int("instances", len(results)),
		zap.Int("solved", summary.Solved),
		zap.Int("failed", summary.Failed),
		zap.Int("total_cost", summary.TotalCost))
	return summary, nil
}

// solve handles one instance, applying the bounds policy: strict mode
// rejects out-of-bounds instances, otherwise a warning is logged and the
// solver proceeds, matching the reference behavior.
func (r *Runner) solve(ctx context.Context, index int, lines []string, seed int64) Result {
	res := Result{Index: index}

	field, err := cover.ParseInstance(lines)
	if err != nil {
		res.Err = fmt.Errorf("instance %d: %w", index, err)
		return res
	}
	res.Field = field

	if err := field.Validate(); err != nil {
		if r.cfg.Strict {
			res.Err = fmt.Errorf("instance %d: %w", index, err)
			return res
		}
		r.log.Warn("instance outside documented bounds, solving anyway",
			zap.Int("instance", index),
			zap.Error(err))
	}

	session, err := cover.NewSession(field,
		cover.WithSeed(seed),
		cover.WithGoal(r.cfg.Goal),
		cover.WithMaxSuccessors(r.cfg.MaxSuccessors),
		cover.WithLogger(r.log.Named("solver")))
	if err != nil {
		res.Err = fmt.Errorf("instance %d: %w", index, err)
		return res
	}

	sol, err := session.Solve(ctx)
	if err != nil {
		res.Err = fmt.Errorf("instance %d: %w", index, err)
		return res
	}
	res.Solution = sol
	res.Grid = cover.Render(session.Queries(), sol.Partition)
	return res
}
