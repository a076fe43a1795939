package trec

import (
	"strings"
	"testing"

	apperrors "github.com/elshize/eval-metrics/internal/pkg/errors"
)

const sampleQrels = `301 0 FBIS3-10082 1
301 0 FBIS3-10169 0
302 0 FBIS3-10243 2

302 0 FBIS3-10245 1
`

const sampleResults = `301 0 FBIS3-10082 1 12.5 bm25
301 0 FBIS3-10169 2 11.0 bm25
302 0 FBIS3-10243 1 9.75 bm25
301 0 FBIS3-10243 1 14.0 dense
302 0 FBIS3-10082 1 8.5 dense
`

func TestReadQrels(t *testing.T) {
	qrels, err := ReadQrels(strings.NewReader(sampleQrels))
	if err != nil {
		t.Fatalf("ReadQrels() error = %v", err)
	}
	if len(qrels) != 4 {
		t.Fatalf("ReadQrels() returned %d qrels, want 4", len(qrels))
	}

	first := qrels[0]
	if first.QueryID != "301" || first.Iteration != "0" ||
		first.DocID != "FBIS3-10082" || first.Relevance != 1 {
		t.Errorf("qrels[0] = %+v", first)
	}
	if qrels[2].Relevance != 2 {
		t.Errorf("qrels[2].Relevance = %d, want 2", qrels[2].Relevance)
	}
}

func TestReadQrels_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"too few fields", "301 0 doc1\n", "too few fields"},
		{"too many fields", "301 0 doc1 1 extra\n", "too many fields"},
		{"bad relevance", "301 0 doc1 high\n", "invalid relevance"},
		{"error carries line number", "301 0 doc1 1\n301 0 doc2\n", "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadQrels(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadQrels() succeeded on malformed input")
			}
			if !apperrors.IsParse(err) {
				t.Errorf("ReadQrels() error = %v, want parse error", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("ReadQrels() error = %q, want substring %q", err, tt.wantMsg)
			}
		})
	}
}

func TestReadResults(t *testing.T) {
	results, err := ReadResults(strings.NewReader(sampleResults))
	if err != nil {
		t.Fatalf("ReadResults() error = %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("ReadResults() returned %d results, want 5", len(results))
	}

	first := results[0]
	if first.QueryID != "301" || first.DocID != "FBIS3-10082" ||
		first.Rank != 1 || first.Score != 12.5 || first.RunID != "bm25" {
		t.Errorf("results[0] = %+v", first)
	}
}

func TestReadResults_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too few fields", "301 0 doc1 1 12.5\n"},
		{"too many fields", "301 0 doc1 1 12.5 bm25 extra\n"},
		{"bad rank", "301 0 doc1 first 12.5 bm25\n"},
		{"bad score", "301 0 doc1 1 high bm25\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadResults(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadResults() succeeded on malformed input")
			}
			if !apperrors.IsParse(err) {
				t.Errorf("ReadResults() error = %v, want parse error", err)
			}
		})
	}
}

func TestBuildJudgments(t *testing.T) {
	qrels, err := ReadQrels(strings.NewReader(sampleQrels))
	if err != nil {
		t.Fatal(err)
	}
	judgments, err := BuildJudgments(qrels)
	if err != nil {
		t.Fatalf("BuildJudgments() error = %v", err)
	}
	if judgments.Len() != 2 {
		t.Errorf("judgments cover %d queries, want 2", judgments.Len())
	}
	if g, ok := judgments.ForQuery("302").Grade("FBIS3-10243"); !ok || g != 2 {
		t.Errorf("grade for (302, FBIS3-10243) = %d (ok=%v), want 2", g, ok)
	}
	// Judged non-relevant stays present, distinct from unjudged.
	if _, ok := judgments.ForQuery("301").Grade("FBIS3-10169"); !ok {
		t.Error("judged non-relevant document missing from judgments")
	}
	if _, ok := judgments.ForQuery("301").Grade("FBIS3-99999"); ok {
		t.Error("unjudged document reported as judged")
	}
}

func TestBuildJudgments_Duplicate(t *testing.T) {
	qrels := []Qrel{
		{QueryID: "301", DocID: "doc1", Relevance: 1},
		{QueryID: "301", DocID: "doc1", Relevance: 0},
	}
	if _, err := BuildJudgments(qrels); !apperrors.IsDataIntegrity(err) {
		t.Errorf("BuildJudgments() error = %v, want data integrity error", err)
	}
}

func TestGroupRuns(t *testing.T) {
	results, err := ReadResults(strings.NewReader(sampleResults))
	if err != nil {
		t.Fatal(err)
	}
	runs, err := GroupRuns(results)
	if err != nil {
		t.Fatalf("GroupRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("GroupRuns() returned %d runs, want 2", len(runs))
	}

	// Sorted by run ID.
	if runs[0].RunID != "bm25" || runs[1].RunID != "dense" {
		t.Errorf("run order = %s, %s; want bm25, dense", runs[0].RunID, runs[1].RunID)
	}

	bm25 := runs[0].Rankings
	if bm25.Len() != 2 {
		t.Errorf("bm25 covers %d queries, want 2", bm25.Len())
	}
	ranking := bm25.ForQuery("301")
	if len(ranking) != 2 {
		t.Fatalf("bm25 query 301 has %d documents, want 2", len(ranking))
	}
	// Input order preserved.
	if ranking[0].Doc != "FBIS3-10082" || ranking[1].Doc != "FBIS3-10169" {
		t.Errorf("bm25 query 301 order = %s, %s", ranking[0].Doc, ranking[1].Doc)
	}

	dense := runs[1].Rankings
	if len(dense.ForQuery("302")) != 1 {
		t.Errorf("dense query 302 has %d documents, want 1", len(dense.ForQuery("302")))
	}
}

func TestGroupRuns_Iterations(t *testing.T) {
	input := `301 1 doc1 1 2.0 sys
301 0 doc1 1 3.0 sys
`
	results, err := ReadResults(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	runs, err := GroupRuns(results)
	if err != nil {
		t.Fatalf("GroupRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("GroupRuns() returned %d runs, want 2 iterations", len(runs))
	}
	if runs[0].Iteration != "0" || runs[1].Iteration != "1" {
		t.Errorf("iteration order = %s, %s; want 0, 1", runs[0].Iteration, runs[1].Iteration)
	}
}

func TestGroupRuns_DuplicateDocument(t *testing.T) {
	results := []Result{
		{QueryID: "301", DocID: "doc1", Score: 2, RunID: "sys"},
		{QueryID: "301", DocID: "doc1", Score: 1, RunID: "sys"},
	}
	if _, err := GroupRuns(results); !apperrors.IsDataIntegrity(err) {
		t.Errorf("GroupRuns() error = %v, want data integrity error", err)
	}
}
