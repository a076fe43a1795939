package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/elshize/eval-metrics/internal/aggregate"
	"github.com/elshize/eval-metrics/internal/config"
	"github.com/elshize/eval-metrics/internal/eval"
	"github.com/elshize/eval-metrics/internal/metric"
	"github.com/elshize/eval-metrics/internal/pkg/logger"
	"github.com/elshize/eval-metrics/internal/report"
	"github.com/elshize/eval-metrics/internal/trec"
)

func evalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval QRELS RESULTS",
		Short: "Evaluate a retrieval run against relevance judgments",
		Long: `Evaluate the runs in a TREC-format result file against the judgments in a
TREC-format qrel file. Each (run, iteration) pair in the result file is
evaluated and reported separately.

Metrics default to the standard precision cutoffs plus RBP:95; override
with repeated -m flags or a config file.

Examples:
  irm eval qrels.txt results.txt
  irm eval -m P@10 -m nDCG@20 -m AP qrels.txt results.txt
  irm eval --per-query --output csv qrels.txt results.txt`,
		Args:         cobra.ExactArgs(2),
		RunE:         runEval,
		SilenceUsage: true,
	}

	cmd.Flags().StringSliceP("metric", "m", nil, "metric to evaluate (repeatable)")
	cmd.Flags().Int("workers", 0, "concurrent query evaluations (0 = one per CPU)")
	cmd.Flags().StringP("output", "o", "", "output format (text, csv, json)")
	cmd.Flags().Bool("per-query", false, "report per-query scores")

	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	metricNames, _ := cmd.Flags().GetStringSlice("metric")
	workers, _ := cmd.Flags().GetInt("workers")
	output, _ := cmd.Flags().GetString("output")
	perQuery, _ := cmd.Flags().GetBool("per-query")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override from flags
	if len(metricNames) > 0 {
		cfg.Metrics = metricNames
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if output != "" {
		cfg.Output = output
	}
	if cmd.Flags().Changed("per-query") {
		cfg.PerQuery = perQuery
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	specs, err := metric.ParseAll(cfg.Metrics)
	if err != nil {
		return err
	}

	qrels, err := trec.ReadQrelsFile(args[0])
	if err != nil {
		return err
	}
	judgments, err := trec.BuildJudgments(qrels)
	if err != nil {
		return err
	}
	log.Info("Loaded judgments", "file", args[0], "queries", judgments.Len(), "lines", len(qrels))

	results, err := trec.ReadResultsFile(args[1])
	if err != nil {
		return err
	}
	runs, err := trec.GroupRuns(results)
	if err != nil {
		return err
	}
	log.Info("Loaded runs", "file", args[1], "runs", len(runs), "lines", len(results))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	evaluator := eval.New(eval.Config{Workers: cfg.EffectiveWorkers()}, log)
	for _, run := range runs {
		table, err := evaluator.Run(ctx, judgments, run.Rankings, specs)
		if err != nil {
			return fmt.Errorf("evaluating run %q: %w", run.RunID, err)
		}

		rep := &report.Report{
			RunID:     run.RunID,
			Iteration: run.Iteration,
			Summaries: aggregate.Summarize(table),
		}
		if cfg.PerQuery {
			rep.PerQuery = table
		}
		if err := writeReport(rep, cfg.Output); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(rep *report.Report, format string) error {
	switch format {
	case "csv":
		return rep.WriteCSV(os.Stdout)
	case "json":
		return rep.WriteJSON(os.Stdout)
	default:
		return rep.WriteTable(os.Stdout)
	}
}
