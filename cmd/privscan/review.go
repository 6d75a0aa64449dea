// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/privscan/internal/report"
	"github.com/pdiddy/privscan/internal/review"
	"github.com/pdiddy/privscan/pkg/types"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse detection runs recorded with detect --store",
	Long: `Review reads the local SQLite review store written by detect --store.
Use subcommands to list recorded runs, filter a run's results, or export a
run in the same layout detect writes.`,
}

// --- runs subcommand ---

var reviewRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded detection runs, newest first",
	RunE:  runReviewRuns,
}

func runReviewRuns(cmd *cobra.Command, args []string) error {
	store, err := review.NewStore(reviewConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-6s  %-9s  %5s  %5s  %5s\n",
		"Run", "Generated", "Level", "Provider", "Total", "Priv", "High")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, r := range runs {
		provider := r.Provider
		if provider == "" {
			provider = "-"
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-6s  %-9s  %5d  %5d  %5d\n",
			r.ID, r.GeneratedAt.Format("2006-01-02 15:04:05"), r.Sensitivity,
			provider, r.Total, r.Privileged, r.HighRisk)
	}
	return nil
}

// --- list subcommand ---

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List results from a recorded run",
	Long: `List prints results from one run (the most recent by default),
optionally restricted to a bucket (privileged, non-privileged, high-risk)
and a minimum confidence.`,
	RunE: runReviewList,
}

func runReviewList(cmd *cobra.Command, args []string) error {
	q, err := reviewQueryFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := review.NewStore(reviewConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Query(context.Background(), q)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatReviewList(results, jsonOutput)
}

func formatReviewList(results []types.DetectionResult, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-40s  %-10s  %-5s  %s\n",
		"Rank", "Document", "Verdict", "Conf", "Top reason")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		doc := r.DocumentID
		if len(doc) > 40 {
			doc = "..." + doc[len(doc)-37:]
		}
		verdict := "clear"
		switch {
		case r.HighRisk():
			verdict = "HIGH RISK"
		case r.IsPrivileged:
			verdict = "privileged"
		}
		reason := ""
		if len(r.Reasons) > 0 {
			reason = r.Reasons[0]
		}
		if len(reason) > 45 {
			reason = reason[:42] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-40s  %-10s  %.2f   %s\n",
			i+1, doc, verdict, r.Confidence, reason)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var reviewExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a recorded run to YAML or JSON",
	Long: `Export rebuilds a recorded run, partitioned into privileged,
non-privileged, and high-risk lists, and writes it to --output or stdout.`,
	RunE: runReviewExport,
}

func runReviewExport(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	runID, _ := cmd.Flags().GetString("run")
	output, _ := cmd.Flags().GetString("output")

	store, err := review.NewStore(reviewConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.LoadRun(context.Background(), runID)
	if err != nil {
		return err
	}

	if output == "" {
		return report.Encode(os.Stdout, format, run)
	}
	if err := report.Write(output, format, run); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported run %s to %s\n", run.ID, output)
	return nil
}

// --- shared helpers ---

func reviewQueryFromFlags(cmd *cobra.Command) (review.Query, error) {
	runID, _ := cmd.Flags().GetString("run")
	bucketName, _ := cmd.Flags().GetString("bucket")
	minConf, _ := cmd.Flags().GetFloat64("min-confidence")
	limit, _ := cmd.Flags().GetInt("limit")

	bucket, err := types.ParseBucket(bucketName)
	if err != nil {
		return review.Query{}, err
	}
	if minConf < 0 || minConf > 1 {
		return review.Query{}, fmt.Errorf("--min-confidence %v out of range [0, 1]", minConf)
	}
	return review.Query{
		RunID:         runID,
		Bucket:        bucket,
		MinConfidence: minConf,
		Limit:         limit,
	}, nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	reviewCmd.PersistentFlags().String("review-dir", "review", "directory holding review.db")
	reviewCmd.PersistentFlags().Int("max-results", 50, "default number of results listed")
	viper.BindPFlag("review.dir", reviewCmd.PersistentFlags().Lookup("review-dir"))
	viper.BindPFlag("review.max_results", reviewCmd.PersistentFlags().Lookup("max-results"))

	reviewRunsCmd.Flags().Bool("json", false, "output runs as JSON")

	// List flags.
	reviewListCmd.Flags().String("run", "", "run ID (default: most recent)")
	reviewListCmd.Flags().String("bucket", "", "filter by bucket: privileged, non-privileged, high-risk")
	reviewListCmd.Flags().Float64("min-confidence", 0, "drop results below this confidence")
	reviewListCmd.Flags().Int("limit", 0, "maximum results (0 = use default, -1 = all)")
	reviewListCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	reviewExportCmd.Flags().String("run", "", "run ID (default: most recent)")
	reviewExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	reviewExportCmd.Flags().String("output", "", "output file (default: stdout)")

	// Wire subcommands.
	reviewCmd.AddCommand(reviewRunsCmd)
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewExportCmd)

	rootCmd.AddCommand(reviewCmd)
}
