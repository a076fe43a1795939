// Package eval evaluates retrieval runs against relevance judgments: one
// pure computation per query, fanned out over a worker pool for large query
// sets, collected into a ScoreTable.
package eval

import (
	"context"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/elshize/eval-metrics/internal/metric"
	"github.com/elshize/eval-metrics/internal/model"
	apperrors "github.com/elshize/eval-metrics/internal/pkg/errors"
	"github.com/elshize/eval-metrics/internal/pkg/logger"
)

// EvaluateQuery computes every requested metric for a single query. A nil
// ranking means the system returned nothing for the query; nil judgments
// mean every document is unjudged. Both are ordinary conditions, handled by
// each metric's own convention, never an error. The computation is pure.
func EvaluateQuery(ranking model.Ranking, judgments model.Judgments, specs []metric.Spec) []metric.Score {
	scores := make([]metric.Score, len(specs))
	for i, spec := range specs {
		scores[i] = spec.Compute(ranking, judgments)
	}
	return scores
}

// Config configures a batch evaluator.
type Config struct {
	// Workers is the number of parallel per-query workers.
	Workers int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.GOMAXPROCS(0),
	}
}

// Evaluator runs a batch of queries against a set of metric specs.
type Evaluator struct {
	workers int
	log     *logger.Logger
}

// New creates a batch evaluator.
func New(cfg Config, log *logger.Logger) *Evaluator {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if log == nil {
		log = logger.Default()
	}
	return &Evaluator{
		workers: cfg.Workers,
		log:     log,
	}
}

// Run evaluates every query present in either the judgment set or the run
// set. A query judged but never retrieved for is scored against an empty
// ranking; a query retrieved for but never judged is scored against empty
// judgments. Both inputs are read-only; queries are independent, so they
// run in parallel. Cancelling ctx aborts between queries and returns the
// context error; no partial table is returned.
func (e *Evaluator) Run(ctx context.Context, judgments *model.JudgmentSet, runs *model.RunSet, specs []metric.Spec) (*ScoreTable, error) {
	if len(specs) == 0 {
		return nil, apperrors.ConfigurationError("no metrics requested")
	}
	if judgments == nil {
		judgments = model.NewJudgmentSet()
	}
	if runs == nil {
		runs = model.NewRunSet()
	}

	queries := unionQueries(judgments, runs)
	table := newScoreTable(specs, queries)

	start := time.Now()
	e.log.Debug("evaluation starting",
		"queries", len(queries),
		"metrics", len(specs),
		"workers", e.workers,
	)

	// Progress lines are throttled so huge batches do not flood the log.
	progress := rate.NewLimiter(rate.Every(time.Second), 1)
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, query := range queries {
		query := query
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			row := table.rows[query]
			copy(row, EvaluateQuery(runs.ForQuery(query), judgments.ForQuery(query), specs))

			if n := done.Add(1); progress.Allow() {
				e.log.Info("evaluation progress",
					"queries_done", n,
					"queries_total", len(queries),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.log.Info("evaluation finished",
		"queries", len(queries),
		"metrics", len(specs),
		"elapsed", time.Since(start),
	)
	return table, nil
}

// unionQueries merges the judged and retrieved query sets, sorted so the
// table layout is deterministic regardless of scheduling.
func unionQueries(judgments *model.JudgmentSet, runs *model.RunSet) []model.QueryID {
	seen := make(map[model.QueryID]struct{}, judgments.Len()+runs.Len())
	queries := make([]model.QueryID, 0, judgments.Len()+runs.Len())
	for _, q := range judgments.Queries() {
		seen[q] = struct{}{}
		queries = append(queries, q)
	}
	for _, q := range runs.Queries() {
		if _, ok := seen[q]; !ok {
			queries = append(queries, q)
		}
	}
	// judgments.Queries and runs.Queries are each sorted; the merge is not.
	sort.Slice(queries, func(i, j int) bool { return queries[i] < queries[j] })
	return queries
}
