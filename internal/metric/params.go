package metric

import (
	"math"

	"github.com/elshize/eval-metrics/internal/model"
)

// GainFunc selects how a relevance grade translates into DCG gain.
type GainFunc string

const (
	// GainLinear uses the grade itself as the gain.
	GainLinear GainFunc = "linear"

	// GainExponential uses 2^grade - 1, which rewards highly relevant
	// documents much more strongly than marginal ones.
	GainExponential GainFunc = "exponential"
)

// Default parameter values.
const (
	DefaultLogBase     = 2.0
	DefaultPersistence = 0.95
)

// Params carries the tunable parameters of a metric. A zero Params is valid
// and selects the defaults: no cutoff, relevance threshold zero (any grade
// above zero counts as relevant), log base 2, linear gain.
type Params struct {
	// K is the rank cutoff; 0 means the whole ranking is considered.
	K int

	// Threshold binarizes graded relevance: a document counts as relevant
	// when its grade is strictly above Threshold.
	Threshold model.Grade

	// LogBase is the base of the DCG discount logarithm; 0 selects
	// DefaultLogBase. Values <= 1 are rejected at registry time.
	LogBase float64

	// Gain selects the DCG gain function; empty selects GainLinear.
	Gain GainFunc

	// Persistence is the RBP continuation probability, in [0, 1]. Zero is a
	// legal value (RBP degenerates to weighting only rank 1); Parse applies
	// DefaultPersistence when the metric name carries no parameter.
	Persistence float64

	// StrictZeroRelevant makes precision-style metrics report undefined
	// instead of zero for queries with no judged-relevant documents. The
	// common convention (and the default) reports zero; recall-style
	// metrics always report undefined in that case regardless of this
	// flag, because their denominator genuinely does not exist.
	StrictZeroRelevant bool
}

// relevant reports whether a grade counts as relevant under the threshold.
func (p Params) relevant(g model.Grade) bool {
	return g > p.Threshold
}

// cutoff clamps the rank depth to the ranking length.
func (p Params) cutoff(rankingLen int) int {
	if p.K > 0 && p.K < rankingLen {
		return p.K
	}
	return rankingLen
}

// gain maps a grade to its DCG gain.
func (p Params) gain(g model.Grade) float64 {
	switch p.Gain {
	case GainExponential:
		return math.Exp2(float64(g)) - 1
	default:
		return float64(g)
	}
}

// discount returns the DCG discount divisor at a 1-based rank:
// log_b(rank + 1).
func (p Params) discount(rank int) float64 {
	base := p.LogBase
	if base == 0 {
		base = DefaultLogBase
	}
	return math.Log(float64(rank+1)) / math.Log(base)
}
