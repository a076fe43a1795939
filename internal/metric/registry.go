// Package metric implements the retrieval evaluation metrics and the
// registry that binds metric names and parameters into computable specs.
// Every family follows one contract: given a ranking and the judgments for
// the same query, produce a Score. Ties are never resolved by re-sorting
// the input ranking; where a metric must impose its own order (the ideal
// DCG ranking) ties are broken by document identifier so results are
// reproducible.
package metric

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/elshize/eval-metrics/internal/model"
	apperrors "github.com/elshize/eval-metrics/internal/pkg/errors"
)

// Func computes one metric for one query. It must be pure: no shared
// mutable state, so queries can be evaluated in parallel.
type Func func(model.Ranking, model.Judgments, Params) Score

// Spec is a metric family bound to validated parameters. Distinct
// parameterizations of one family (P@5 vs P@10) are distinct specs.
type Spec struct {
	name   string
	family string
	params Params
	fn     Func
}

// Name returns the canonical spelling, e.g. "P@10", "nDCG@20", "RBP:95".
func (s Spec) Name() string { return s.name }

// Family returns the family display name, e.g. "P" or "nDCG".
func (s Spec) Family() string { return s.family }

// Params returns the bound parameters.
func (s Spec) Params() Params { return s.params }

// Compute evaluates the metric for one query.
func (s Spec) Compute(r model.Ranking, j model.Judgments) Score {
	return s.fn(r, j, s.params)
}

type familyDef struct {
	display     string
	description string
	needsCutoff bool
	fn          Func
}

var families = map[string]familyDef{
	"P": {
		display:     "P",
		description: "precision at cutoff k (P@k)",
		needsCutoff: true,
		fn:          precision,
	},
	"R": {
		display:     "R",
		description: "recall at cutoff k (R@k); undefined without relevant documents",
		needsCutoff: true,
		fn:          recall,
	},
	"AP": {
		display:     "AP",
		description: "average precision; undefined without relevant documents",
		fn:          averagePrecision,
	},
	"RR": {
		display:     "RR",
		description: "reciprocal rank of the first relevant document",
		fn:          reciprocalRank,
	},
	"DCG": {
		display:     "DCG",
		description: "discounted cumulative gain (DCG or DCG@k)",
		fn:          dcg,
	},
	"NDCG": {
		display:     "nDCG",
		description: "DCG normalized by the ideal ranking (nDCG or nDCG@k)",
		fn:          ndcg,
	},
	"RBP": {
		display:     "RBP",
		description: "rank-biased precision with persistence p (RBP:p, p in percent)",
		fn:          rankBiasedPrecision,
	},
}

// New binds a metric family to parameters, validating both before any query
// is evaluated. The family name is matched case-insensitively.
func New(familyName string, p Params) (Spec, error) {
	fam, ok := families[strings.ToUpper(familyName)]
	if !ok {
		return Spec{}, apperrors.ConfigurationErrorf("unknown metric %q", familyName)
	}
	if err := validateParams(fam, p); err != nil {
		return Spec{}, err
	}
	return Spec{
		name:   label(fam, p),
		family: fam.display,
		params: p,
		fn:     fam.fn,
	}, nil
}

func validateParams(fam familyDef, p Params) error {
	if p.K < 0 {
		return apperrors.ConfigurationErrorf("%s: cutoff must be positive, got %d", fam.display, p.K)
	}
	if fam.needsCutoff && p.K == 0 {
		return apperrors.ConfigurationErrorf("%s requires a positive cutoff", fam.display)
	}
	if p.Threshold < 0 {
		return apperrors.ConfigurationErrorf("%s: relevance threshold must be non-negative, got %d", fam.display, p.Threshold)
	}
	if p.LogBase != 0 && p.LogBase <= 1 {
		return apperrors.ConfigurationErrorf("%s: discount log base must be greater than 1, got %g", fam.display, p.LogBase)
	}
	if p.Persistence < 0 || p.Persistence > 1 {
		return apperrors.ConfigurationErrorf("%s: persistence must be in [0, 1], got %g", fam.display, p.Persistence)
	}
	switch p.Gain {
	case "", GainLinear, GainExponential:
	default:
		return apperrors.ConfigurationErrorf("%s: unknown gain function %q", fam.display, p.Gain)
	}
	return nil
}

func label(fam familyDef, p Params) string {
	if fam.display == "RBP" {
		return fmt.Sprintf("RBP:%s", strconv.FormatFloat(p.Persistence*100, 'f', -1, 64))
	}
	if p.K > 0 {
		return fmt.Sprintf("%s@%d", fam.display, p.K)
	}
	return fam.display
}

// Parse resolves a metric name of the forms "P@10", "R@5", "AP", "RR",
// "DCG@20", "nDCG@20" or "RBP:95" (persistence in percent, as in the
// classic tooling) into a bound spec. Unknown names and out-of-range
// parameters are configuration errors reported before evaluation starts.
func Parse(name string) (Spec, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Spec{}, apperrors.ConfigurationError("empty metric name")
	}

	if familyName, arg, found := strings.Cut(trimmed, "@"); found {
		k, err := strconv.Atoi(arg)
		if err != nil {
			return Spec{}, apperrors.ConfigurationErrorf("cannot parse cutoff in %q", trimmed)
		}
		if k <= 0 {
			return Spec{}, apperrors.ConfigurationErrorf("%s: cutoff must be positive, got %d", trimmed, k)
		}
		return New(familyName, Params{K: k})
	}

	if familyName, arg, found := strings.Cut(trimmed, ":"); found {
		if !strings.EqualFold(familyName, "RBP") {
			return Spec{}, apperrors.ConfigurationErrorf("unknown metric %q", trimmed)
		}
		pct, err := strconv.Atoi(arg)
		if err != nil {
			return Spec{}, apperrors.ConfigurationErrorf("cannot parse persistence in %q", trimmed)
		}
		if pct < 0 || pct > 100 {
			return Spec{}, apperrors.ConfigurationErrorf("%s: persistence must be in [0, 100]%%", trimmed)
		}
		return New("RBP", Params{Persistence: float64(pct) / 100})
	}

	if strings.EqualFold(trimmed, "RBP") {
		return New("RBP", Params{Persistence: DefaultPersistence})
	}
	return New(trimmed, Params{})
}

// ParseAll resolves a list of metric names, failing on the first bad one.
func ParseAll(names []string) ([]Spec, error) {
	specs := make([]Spec, 0, len(names))
	for _, name := range names {
		spec, err := Parse(name)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// FamilyInfo describes one registered metric family.
type FamilyInfo struct {
	Name        string
	Description string
}

// Families lists the registered metric families sorted by name.
func Families() []FamilyInfo {
	infos := make([]FamilyInfo, 0, len(families))
	for _, fam := range families {
		infos = append(infos, FamilyInfo{Name: fam.display, Description: fam.description})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
