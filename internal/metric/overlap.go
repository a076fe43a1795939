package metric

import (
	"github.com/elshize/eval-metrics/internal/model"
)

// Overlap is the fraction of documents two rankings share:
// |A ∩ B| / max(|A|, |B|). It compares two systems' result lists directly
// and needs no judgments, so it lives outside the registry contract.
// Returns 0 when both rankings are empty.
func Overlap(a, b model.Ranking) float64 {
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 0
	}

	docs := make(map[model.DocID]struct{}, len(a))
	for _, d := range a {
		docs[d.Doc] = struct{}{}
	}
	shared := 0
	for _, d := range b {
		if _, ok := docs[d.Doc]; ok {
			shared++
		}
	}
	return float64(shared) / float64(longer)
}
