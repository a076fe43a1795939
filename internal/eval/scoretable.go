package eval

import (
	"github.com/elshize/eval-metrics/internal/metric"
	"github.com/elshize/eval-metrics/internal/model"
)

// QueryScore pairs a query with its score for one metric.
type QueryScore struct {
	Query model.QueryID
	Score metric.Score
}

// ScoreTable holds one score per (query, metric spec) pair. It is created
// fresh by an evaluation run, populated once, and read-only afterwards;
// the aggregator and the reporting layer consume it without copying.
type ScoreTable struct {
	specs   []metric.Spec
	specIdx map[string]int
	queries []model.QueryID
	rows    map[model.QueryID][]metric.Score
}

func newScoreTable(specs []metric.Spec, queries []model.QueryID) *ScoreTable {
	t := &ScoreTable{
		specs:   specs,
		specIdx: make(map[string]int, len(specs)),
		queries: queries,
		rows:    make(map[model.QueryID][]metric.Score, len(queries)),
	}
	for i, s := range specs {
		t.specIdx[s.Name()] = i
	}
	// Rows are allocated up front so parallel workers only ever write into
	// their own pre-existing slice, never into the map itself.
	for _, q := range queries {
		t.rows[q] = make([]metric.Score, len(specs))
	}
	return t
}

// Specs returns the evaluated metric specs in request order.
func (t *ScoreTable) Specs() []metric.Spec {
	return t.specs
}

// Queries returns the evaluated queries in sorted order.
func (t *ScoreTable) Queries() []model.QueryID {
	return t.queries
}

// Score returns the score for one query and one metric name. The second
// return value is false when the query or metric is not in the table.
func (t *ScoreTable) Score(query model.QueryID, specName string) (metric.Score, bool) {
	idx, ok := t.specIdx[specName]
	if !ok {
		return metric.Undefined(), false
	}
	row, ok := t.rows[query]
	if !ok {
		return metric.Undefined(), false
	}
	return row[idx], true
}

// Vector returns the full per-query score vector for one metric, in query
// order, undisturbed by aggregation. Downstream statistical testing works
// on this. Returns nil for an unknown metric name.
func (t *ScoreTable) Vector(specName string) []QueryScore {
	idx, ok := t.specIdx[specName]
	if !ok {
		return nil
	}
	scores := make([]QueryScore, 0, len(t.queries))
	for _, q := range t.queries {
		scores = append(scores, QueryScore{Query: q, Score: t.rows[q][idx]})
	}
	return scores
}

// Len returns the number of evaluated queries.
func (t *ScoreTable) Len() int {
	return len(t.queries)
}
