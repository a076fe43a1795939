package metric

import (
	"encoding/json"
	"strconv"
)

// Score is the outcome of one metric on one query: either a defined real
// value or "undefined", meaning the metric has no meaningful value for that
// query (for example recall when the query has zero judged-relevant
// documents). Undefined is a first-class result and is kept distinct from
// the numeric value zero everywhere it flows; coercing it to zero would
// silently bias every aggregate mean.
type Score struct {
	value   float64
	defined bool
}

// Value returns a defined score.
func Value(v float64) Score {
	return Score{value: v, defined: true}
}

// Undefined returns the undefined score.
func Undefined() Score {
	return Score{}
}

// IsDefined reports whether the score carries a value.
func (s Score) IsDefined() bool {
	return s.defined
}

// Float returns the value and whether it is defined. The value is 0 for an
// undefined score; callers must check ok before using it.
func (s Score) Float() (v float64, ok bool) {
	return s.value, s.defined
}

// String renders the score for human-readable output; undefined scores
// render as "n/a".
func (s Score) String() string {
	if !s.defined {
		return "n/a"
	}
	return strconv.FormatFloat(s.value, 'f', 4, 64)
}

// MarshalJSON renders a defined score as a number and an undefined score as
// null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.defined {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}
