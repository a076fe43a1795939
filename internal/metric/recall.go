package metric

import (
	"github.com/elshize/eval-metrics/internal/model"
)

// recall computes the fraction of all judged-relevant documents that appear
// in the top-k. Undefined when the query has zero judged-relevant
// documents: there is no denominator, and coercing the result to 0 would
// bias the aggregate mean. Unjudged documents never enter the denominator.
func recall(r model.Ranking, j model.Judgments, p Params) Score {
	rel := j.NumRelevant(p.Threshold)
	if rel == 0 {
		return Undefined()
	}
	hits := weightedHits(r, j, p, uniformWeight)
	return Value(hits / float64(rel))
}

// averagePrecision computes AP: the mean of precision@i over every rank i
// holding a relevant document, divided by the total number of judged-
// relevant documents. Undefined when that total is zero, same convention
// as recall. A non-empty judgment set with an empty ranking scores 0.
func averagePrecision(r model.Ranking, j model.Judgments, p Params) Score {
	rel := j.NumRelevant(p.Threshold)
	if rel == 0 {
		return Undefined()
	}
	n := p.cutoff(len(r))
	hits := 0
	var sum float64
	for i := 0; i < n; i++ {
		if g, ok := j.Grade(r[i].Doc); ok && p.relevant(g) {
			hits++
			sum += float64(hits) / float64(i+1)
		}
	}
	return Value(sum / float64(rel))
}
