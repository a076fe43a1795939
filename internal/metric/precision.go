package metric

import (
	"math"

	"github.com/elshize/eval-metrics/internal/model"
)

// weightedHits is the core shared by the precision-style metrics: the inner
// product of a positional weight series with the binarized relevance of the
// ranking, truncated at the cutoff. weight receives the 1-based rank.
// Unjudged documents contribute nothing, the same as judged non-relevant
// ones; only the denominators of the individual metrics treat the two
// states differently.
func weightedHits(r model.Ranking, j model.Judgments, p Params, weight func(rank int) float64) float64 {
	n := p.cutoff(len(r))
	var sum float64
	for i := 0; i < n; i++ {
		if g, ok := j.Grade(r[i].Doc); ok && p.relevant(g) {
			sum += weight(i + 1)
		}
	}
	return sum
}

// precision computes precision at the cutoff: the fraction of the top-k
// documents (or of the whole ranking when it is shorter than k) that are
// relevant. By the common convention a query with no judged-relevant
// documents still scores a defined 0; Params.StrictZeroRelevant switches
// that to undefined.
func precision(r model.Ranking, j model.Judgments, p Params) Score {
	if p.StrictZeroRelevant && j.NumRelevant(p.Threshold) == 0 {
		return Undefined()
	}
	n := p.cutoff(len(r))
	if n == 0 {
		// No results retrieved: nothing relevant was found.
		return Value(0)
	}
	hits := weightedHits(r, j, p, uniformWeight)
	return Value(hits / float64(n))
}

// reciprocalRank computes 1/rank of the first relevant document within the
// cutoff, or 0 when none appears.
func reciprocalRank(r model.Ranking, j model.Judgments, p Params) Score {
	n := p.cutoff(len(r))
	for i := 0; i < n; i++ {
		if g, ok := j.Grade(r[i].Doc); ok && p.relevant(g) {
			return Value(1 / float64(i+1))
		}
	}
	return Value(0)
}

// rankBiasedPrecision computes RBP with continuation probability
// p.Persistence: (1-p) * sum over relevant ranks i of p^(i-1). The series
// runs over the whole ranking unless a cutoff truncates it.
func rankBiasedPrecision(r model.Ranking, j model.Judgments, p Params) Score {
	persistence := p.Persistence
	weight := func(rank int) float64 {
		return (1 - persistence) * math.Pow(persistence, float64(rank-1))
	}
	return Value(weightedHits(r, j, p, weight))
}

func uniformWeight(int) float64 { return 1 }
