// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/privscan/internal/corpus"
	"github.com/pdiddy/privscan/internal/report"
	"github.com/pdiddy/privscan/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Screen documents as they land in a directory",
	Long: `Watch monitors directories for new or modified .txt, .md, and .eml
files. Once a file has been quiet for --debounce, the settled batch is
screened as one detection run and written to --output-dir as
<run-id>.json (or .yaml with --format yaml).

Watch runs until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	sess, err := newDetectSession(cmd)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("output-dir")
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	store, _ := cmd.Flags().GetBool("store")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	w, err := watch.New(args,
		watch.WithDebounce(debounce),
		watch.WithFilter(corpus.Collectable),
		watch.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "Watching %d directories (Ctrl-C to stop)\n", len(args))
	err = w.Run(ctx, func(paths []string) {
		run, results := sess.detect(ctx, paths, os.Stderr)

		output := filepath.Join(outDir, run.ID+"."+string(format))
		if err := writeRun(run, output, string(format)); err != nil {
			logger.WithError(err).Error("writing results")
			return
		}
		if store {
			if err := saveToReview(run, results); err != nil {
				logger.WithError(err).Error("recording run")
			}
		}
		if err := sess.writeMetrics(); err != nil {
			logger.WithError(err).Error("writing metrics")
		}
		report.Summary(os.Stdout, run, !color.NoColor)
	})
	return err
}

func init() {
	addDetectionFlags(watchCmd)
	watchCmd.Flags().String("output-dir", "results", "directory for per-batch results files")
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a changed file is screened")

	rootCmd.AddCommand(watchCmd)
}
