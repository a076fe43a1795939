// Package report renders evaluation output as aligned text tables, CSV, or
// JSON. Text goes to people, CSV and JSON go to downstream tooling; all
// three carry the same numbers, with undefined scores rendered as "n/a",
// an empty cell, or null respectively.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/elshize/eval-metrics/internal/aggregate"
	"github.com/elshize/eval-metrics/internal/eval"
	"github.com/elshize/eval-metrics/internal/metric"
	apperrors "github.com/elshize/eval-metrics/internal/pkg/errors"
)

// Report is the rendered output for one run: the per-metric summaries and,
// when per-query output was requested, the full score table.
type Report struct {
	RunID     string
	Iteration string
	Summaries []aggregate.Summary
	// PerQuery is nil unless per-query scores were requested.
	PerQuery *eval.ScoreTable
}

// WriteTable renders the report as aligned text tables.
func (r *Report) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Run %s (iteration %s)\n\n", r.RunID, r.Iteration); err != nil {
		return err
	}

	table := newTable(w, []string{"Metric", "Mean", "Evaluated", "Excluded"})
	for _, s := range r.Summaries {
		_ = table.Append([]string{
			s.Name,
			s.Mean.String(),
			strconv.Itoa(s.Evaluated),
			strconv.Itoa(s.Excluded),
		})
	}
	if err := table.Render(); err != nil {
		return apperrors.InternalError("rendering summary table", err)
	}

	if r.PerQuery == nil {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	specs := r.PerQuery.Specs()
	headers := make([]string, 0, len(specs)+1)
	headers = append(headers, "Query")
	for _, spec := range specs {
		headers = append(headers, spec.Name())
	}
	perQuery := newTable(w, headers)
	for _, query := range r.PerQuery.Queries() {
		row := make([]string, 0, len(headers))
		row = append(row, string(query))
		for _, spec := range specs {
			score, _ := r.PerQuery.Score(query, spec.Name())
			row = append(row, score.String())
		}
		_ = perQuery.Append(row)
	}
	if err := perQuery.Render(); err != nil {
		return apperrors.InternalError("rendering per-query table", err)
	}
	return nil
}

// WriteCSV renders the report in long form, one row per (query, metric)
// value. Aggregate rows use the query label "all", matching the convention
// of other TREC evaluation tools; undefined scores leave the value empty.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"run_id", "iteration", "query", "metric", "value"}); err != nil {
		return err
	}
	for _, s := range r.Summaries {
		if err := cw.Write([]string{r.RunID, r.Iteration, "all", s.Name, csvValue(s.Mean.Float())}); err != nil {
			return err
		}
	}
	if r.PerQuery != nil {
		specs := r.PerQuery.Specs()
		for _, query := range r.PerQuery.Queries() {
			for _, spec := range specs {
				score, _ := r.PerQuery.Score(query, spec.Name())
				row := []string{r.RunID, r.Iteration, string(query), spec.Name(), csvValue(score.Float())}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonReport struct {
	RunID     string              `json:"run_id"`
	Iteration string              `json:"iteration"`
	Metrics   []aggregate.Summary `json:"metrics"`
	Queries   []jsonQuery         `json:"queries,omitempty"`
}

type jsonQuery struct {
	Query  string                  `json:"query"`
	Scores map[string]metric.Score `json:"scores"`
}

// WriteJSON renders the report as a single indented JSON document.
func (r *Report) WriteJSON(w io.Writer) error {
	out := jsonReport{
		RunID:     r.RunID,
		Iteration: r.Iteration,
		Metrics:   r.Summaries,
	}
	if r.PerQuery != nil {
		specs := r.PerQuery.Specs()
		for _, query := range r.PerQuery.Queries() {
			scores := make(map[string]metric.Score, len(specs))
			for _, spec := range specs {
				score, _ := r.PerQuery.Score(query, spec.Name())
				scores[spec.Name()] = score
			}
			out.Queries = append(out.Queries, jsonQuery{Query: string(query), Scores: scores})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

func csvValue(v float64, defined bool) string {
	if !defined {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
