// Package main provides the irm binary, a batch evaluator for ranked
// retrieval runs against TREC-style relevance judgments.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elshize/eval-metrics/internal/metric"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "irm",
		Short: "irm - Information retrieval evaluation metrics",
		Long: `irm evaluates ranked retrieval runs against relevance judgments.

It reads TREC-format qrel and result files, computes the requested metrics
per query, and reports aggregate means with undefined scores excluded.

Run 'irm eval QRELS RESULTS' to evaluate a run.
Run 'irm metrics' to list the supported metric families.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(
		evalCmd(),
		metricsCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func metricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List supported metric families",
		Run: func(cmd *cobra.Command, args []string) {
			for _, fam := range metric.Families() {
				fmt.Printf("%-6s %s\n", fam.Name, fam.Description)
			}
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("irm %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}
