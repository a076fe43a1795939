package metric

import (
	"sort"

	"github.com/elshize/eval-metrics/internal/model"
)

// dcg computes discounted cumulative gain to the cutoff: the sum over ranks
// i of gain(grade_i) / log_b(i+1). Unjudged documents carry zero gain.
func dcg(r model.Ranking, j model.Judgments, p Params) Score {
	return Value(dcgValue(r, j, p))
}

// ndcg divides DCG by the DCG of the ideal ranking of the judged documents.
// Undefined when the ideal DCG is zero, which happens exactly when the
// query has no positively graded documents.
func ndcg(r model.Ranking, j model.Judgments, p Params) Score {
	ideal := idealRanking(j)
	idealDCG := dcgValue(ideal, j, p)
	if idealDCG == 0 {
		return Undefined()
	}
	return Value(dcgValue(r, j, p) / idealDCG)
}

func dcgValue(r model.Ranking, j model.Judgments, p Params) float64 {
	n := p.cutoff(len(r))
	var sum float64
	for i := 0; i < n; i++ {
		g, ok := j.Grade(r[i].Doc)
		if !ok || g == 0 {
			continue
		}
		sum += p.gain(g) / p.discount(i+1)
	}
	return sum
}

// idealRanking orders the judged documents by descending grade. Ties within
// a grade are broken by ascending document identifier, so the ideal DCG is
// reproducible across runs and implementations regardless of map iteration
// order.
func idealRanking(j model.Judgments) model.Ranking {
	ideal := make(model.Ranking, 0, len(j))
	for doc, g := range j {
		ideal = append(ideal, model.RankedDocument{Doc: doc, Score: float64(g)})
	}
	sort.Slice(ideal, func(a, b int) bool {
		if ideal[a].Score != ideal[b].Score {
			return ideal[a].Score > ideal[b].Score
		}
		return ideal[a].Doc < ideal[b].Doc
	})
	return ideal
}
