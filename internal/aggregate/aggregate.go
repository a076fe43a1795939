// Package aggregate collapses per-query score tables into per-metric
// summaries. Undefined scores are never averaged in: they are counted and
// excluded, so a metric that is undefined for half the queries reports the
// mean over the other half together with how many queries were left out.
package aggregate

import (
	"github.com/elshize/eval-metrics/internal/eval"
	"github.com/elshize/eval-metrics/internal/metric"
)

// Summary is the aggregate of one metric over a batch of queries.
type Summary struct {
	// Name is the metric label, e.g. "P@10" or "RBP:95".
	Name string `json:"name"`
	// Mean is the arithmetic mean over the queries where the metric was
	// defined. It is undefined when no query produced a defined score.
	Mean metric.Score `json:"mean"`
	// Evaluated counts the queries that contributed to the mean.
	Evaluated int `json:"evaluated"`
	// Excluded counts the queries where the metric was undefined.
	Excluded int `json:"excluded"`
}

// HasData reports whether at least one query produced a defined score.
func (s Summary) HasData() bool {
	return s.Evaluated > 0
}

// Summarize computes one Summary per metric in the table, in the order the
// metrics were requested.
func Summarize(t *eval.ScoreTable) []Summary {
	if t == nil {
		return nil
	}
	specs := t.Specs()
	summaries := make([]Summary, 0, len(specs))
	for _, spec := range specs {
		summaries = append(summaries, summarize(spec.Name(), t.Vector(spec.Name())))
	}
	return summaries
}

func summarize(name string, scores []eval.QueryScore) Summary {
	s := Summary{Name: name}
	var sum float64
	for _, qs := range scores {
		if v, ok := qs.Score.Float(); ok {
			sum += v
			s.Evaluated++
		} else {
			s.Excluded++
		}
	}
	if s.Evaluated > 0 {
		s.Mean = metric.Value(sum / float64(s.Evaluated))
	} else {
		s.Mean = metric.Undefined()
	}
	return s
}
