// Package trec reads the whitespace-delimited TREC exchange formats: qrel
// files carrying relevance judgments and result files carrying ranked run
// output. Parsing is strict about field counts so that silently truncated or
// concatenated files fail loudly instead of producing skewed scores.
package trec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/elshize/eval-metrics/internal/model"
	apperrors "github.com/elshize/eval-metrics/internal/pkg/errors"
)

// Qrel is one relevance judgment line: "query iteration doc relevance".
type Qrel struct {
	QueryID   model.QueryID
	Iteration string
	DocID     model.DocID
	Relevance model.Grade
}

// Result is one run output line: "query iteration doc rank score run".
type Result struct {
	QueryID   model.QueryID
	Iteration string
	DocID     model.DocID
	Rank      int
	Score     float64
	RunID     string
}

// Run is the ranked output of a single system for a single iteration,
// grouped out of a flat result list.
type Run struct {
	RunID     string
	Iteration string
	Rankings  *model.RunSet
}

const (
	qrelFields   = 4
	resultFields = 6
)

// ReadQrels parses qrel lines from r. Blank lines are skipped; any other
// malformed line fails with its line number.
func ReadQrels(r io.Reader) ([]Qrel, error) {
	var qrels []Qrel
	err := scanLines(r, func(line int, fields []string) error {
		if err := checkFieldCount(line, len(fields), qrelFields); err != nil {
			return err
		}
		relevance, err := strconv.Atoi(fields[3])
		if err != nil {
			return apperrors.ParseErrorf("line %d: invalid relevance %q", line, fields[3])
		}
		qrels = append(qrels, Qrel{
			QueryID:   model.QueryID(fields[0]),
			Iteration: fields[1],
			DocID:     model.DocID(fields[2]),
			Relevance: model.Grade(relevance),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return qrels, nil
}

// ReadQrelsFile reads and parses the qrel file at path.
func ReadQrelsFile(path string) ([]Qrel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeParse, "opening qrel file", err)
	}
	defer f.Close()

	qrels, err := ReadQrels(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return qrels, nil
}

// ReadResults parses result lines from r.
func ReadResults(r io.Reader) ([]Result, error) {
	var results []Result
	err := scanLines(r, func(line int, fields []string) error {
		if err := checkFieldCount(line, len(fields), resultFields); err != nil {
			return err
		}
		rank, err := strconv.Atoi(fields[3])
		if err != nil {
			return apperrors.ParseErrorf("line %d: invalid rank %q", line, fields[3])
		}
		score, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return apperrors.ParseErrorf("line %d: invalid score %q", line, fields[4])
		}
		results = append(results, Result{
			QueryID:   model.QueryID(fields[0]),
			Iteration: fields[1],
			DocID:     model.DocID(fields[2]),
			Rank:      rank,
			Score:     score,
			RunID:     fields[5],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ReadResultsFile reads and parses the result file at path.
func ReadResultsFile(path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeParse, "opening result file", err)
	}
	defer f.Close()

	results, err := ReadResults(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return results, nil
}

// BuildJudgments folds qrels into a judgment set. Duplicate (query, doc)
// pairs and negative relevance values are rejected by the set itself.
func BuildJudgments(qrels []Qrel) (*model.JudgmentSet, error) {
	judgments := model.NewJudgmentSet()
	for _, q := range qrels {
		if err := judgments.Add(q.QueryID, q.DocID, q.Relevance); err != nil {
			return nil, err
		}
	}
	return judgments, nil
}

// GroupRuns splits a flat result list into one Run per (run, iteration)
// pair, sorted by run ID then iteration. Within each query the documents
// keep the order they appeared in the input.
func GroupRuns(results []Result) ([]Run, error) {
	type runKey struct {
		runID     string
		iteration string
	}
	type queryDocs struct {
		order []model.QueryID
		docs  map[model.QueryID][]model.RankedDocument
	}

	grouped := make(map[runKey]*queryDocs)
	var keys []runKey
	for _, res := range results {
		key := runKey{runID: res.RunID, iteration: res.Iteration}
		qd, ok := grouped[key]
		if !ok {
			qd = &queryDocs{docs: make(map[model.QueryID][]model.RankedDocument)}
			grouped[key] = qd
			keys = append(keys, key)
		}
		if _, seen := qd.docs[res.QueryID]; !seen {
			qd.order = append(qd.order, res.QueryID)
		}
		qd.docs[res.QueryID] = append(qd.docs[res.QueryID], model.RankedDocument{
			Doc:   res.DocID,
			Score: res.Score,
		})
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].runID != keys[j].runID {
			return keys[i].runID < keys[j].runID
		}
		return keys[i].iteration < keys[j].iteration
	})

	runs := make([]Run, 0, len(keys))
	for _, key := range keys {
		qd := grouped[key]
		runSet := model.NewRunSet()
		for _, query := range qd.order {
			ranking, err := model.NewRanking(qd.docs[query])
			if err != nil {
				return nil, apperrors.DataIntegrityErrorf(
					"run %q iteration %q query %q: %v", key.runID, key.iteration, query, err)
			}
			if err := runSet.Add(query, ranking); err != nil {
				return nil, err
			}
		}
		runs = append(runs, Run{RunID: key.runID, Iteration: key.iteration, Rankings: runSet})
	}
	return runs, nil
}

func scanLines(r io.Reader, handle func(line int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := handle(line, fields); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return apperrors.Wrap(apperrors.CodeParse, "reading input", err)
	}
	return nil
}

func checkFieldCount(line, got, want int) error {
	switch {
	case got < want:
		return apperrors.ParseErrorf("line %d: too few fields: got %d, want %d", line, got, want)
	case got > want:
		return apperrors.ParseErrorf("line %d: too many fields: got %d, want %d", line, got, want)
	}
	return nil
}
