// Package model defines the in-memory data model for retrieval evaluation:
// query and document identifiers, relevance judgments, and ranked result
// lists. Judgment sets and run sets are built once, validated as they are
// populated, and treated as read-only for the lifetime of an evaluation
// batch, so concurrent per-query evaluation needs no locking.
package model

import (
	"sort"

	apperrors "github.com/elshize/eval-metrics/internal/pkg/errors"
)

// QueryID identifies a query. Opaque; only equality matters.
type QueryID string

// DocID identifies a document. Opaque; only equality matters, except where
// a metric must impose a deterministic order on equal relevance grades, in
// which case byte order of the DocID is the documented secondary key.
type DocID string

// Grade is a relevance judgment for a (query, document) pair. Zero means
// judged non-relevant. The absence of a judgment means "unjudged", which is
// a distinct state from grade zero and is represented by a missing map key,
// never by a zero entry.
type Grade int

// Judgments holds the judged documents for a single query.
type Judgments map[DocID]Grade

// NumRelevant returns the number of judged documents with a grade strictly
// above threshold.
func (j Judgments) NumRelevant(threshold Grade) int {
	n := 0
	for _, g := range j {
		if g > threshold {
			n++
		}
	}
	return n
}

// Grade looks up the judgment for doc. The second return value reports
// whether the document was judged at all.
func (j Judgments) Grade(doc DocID) (Grade, bool) {
	g, ok := j[doc]
	return g, ok
}

// JudgmentSet maps queries to their judgments. Read-only input to the
// evaluator; the evaluator never mutates it.
type JudgmentSet struct {
	queries map[QueryID]Judgments
}

// NewJudgmentSet creates an empty judgment set.
func NewJudgmentSet() *JudgmentSet {
	return &JudgmentSet{
		queries: make(map[QueryID]Judgments),
	}
}

// Add records one judgment. A second judgment for the same (query, document)
// pair is a data error and is rejected: silently keeping either value would
// corrupt scores downstream. Negative grades are rejected as well.
func (s *JudgmentSet) Add(query QueryID, doc DocID, grade Grade) error {
	if grade < 0 {
		return apperrors.DataIntegrityErrorf(
			"negative relevance grade %d for query %q document %q", grade, query, doc)
	}
	judgments, ok := s.queries[query]
	if !ok {
		judgments = make(Judgments)
		s.queries[query] = judgments
	}
	if _, exists := judgments[doc]; exists {
		return apperrors.DataIntegrityErrorf(
			"duplicate judgment for query %q document %q", query, doc)
	}
	judgments[doc] = grade
	return nil
}

// ForQuery returns the judgments for query, or nil when the query has none.
// A nil Judgments behaves as "every document unjudged".
func (s *JudgmentSet) ForQuery(query QueryID) Judgments {
	return s.queries[query]
}

// Queries returns all judged queries in sorted order.
func (s *JudgmentSet) Queries() []QueryID {
	queries := make([]QueryID, 0, len(s.queries))
	for q := range s.queries {
		queries = append(queries, q)
	}
	sortQueries(queries)
	return queries
}

// Len returns the number of judged queries.
func (s *JudgmentSet) Len() int {
	return len(s.queries)
}

// RankedDocument is one entry of a ranking: a document and the retrieval
// score it was returned with.
type RankedDocument struct {
	Doc   DocID
	Score float64
}

// Ranking is one query's retrieved documents in rank order: the first
// element is rank 1. The sequence position is the authoritative rank; Score
// is carried along for metrics that explicitly re-sort, never used to
// reorder here.
type Ranking []RankedDocument

// NewRanking validates and returns a ranking. A duplicate document within
// the list is a data error.
func NewRanking(docs []RankedDocument) (Ranking, error) {
	seen := make(map[DocID]struct{}, len(docs))
	for i, d := range docs {
		if _, ok := seen[d.Doc]; ok {
			return nil, apperrors.DataIntegrityErrorf(
				"duplicate document %q at rank %d", d.Doc, i+1)
		}
		seen[d.Doc] = struct{}{}
	}
	return Ranking(docs), nil
}

// RunSet maps queries to the ranking a retrieval system produced for them.
// Read-only input to the evaluator.
type RunSet struct {
	rankings map[QueryID]Ranking
}

// NewRunSet creates an empty run set.
func NewRunSet() *RunSet {
	return &RunSet{
		rankings: make(map[QueryID]Ranking),
	}
}

// Add records the ranking for a query. A second ranking for the same query
// is a data error.
func (s *RunSet) Add(query QueryID, ranking Ranking) error {
	if _, exists := s.rankings[query]; exists {
		return apperrors.DataIntegrityErrorf("duplicate ranking for query %q", query)
	}
	s.rankings[query] = ranking
	return nil
}

// ForQuery returns the ranking for query, or nil when the system returned
// nothing for it. A nil Ranking behaves as an empty result list.
func (s *RunSet) ForQuery(query QueryID) Ranking {
	return s.rankings[query]
}

// Queries returns all queries with rankings in sorted order.
func (s *RunSet) Queries() []QueryID {
	queries := make([]QueryID, 0, len(s.rankings))
	for q := range s.rankings {
		queries = append(queries, q)
	}
	sortQueries(queries)
	return queries
}

// Len returns the number of queries with rankings.
func (s *RunSet) Len() int {
	return len(s.rankings)
}

func sortQueries(queries []QueryID) {
	sort.Slice(queries, func(i, j int) bool { return queries[i] < queries[j] })
}
