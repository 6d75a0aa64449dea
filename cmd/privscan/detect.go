// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/privscan/internal/corpus"
	"github.com/pdiddy/privscan/internal/metrics"
	"github.com/pdiddy/privscan/internal/privilege"
	"github.com/pdiddy/privscan/internal/report"
	"github.com/pdiddy/privscan/internal/review"
	"github.com/pdiddy/privscan/internal/semantic"
	"github.com/pdiddy/privscan/pkg/types"
)

var detectCmd = &cobra.Command{
	Use:   "detect [paths...]",
	Short: "Screen documents for privilege",
	Long: `Detect reads extracted document text, scores every document with the
keyword, pattern, and (optionally) semantic stages, and writes the verdicts
partitioned into privileged, non-privileged, and high-risk lists.

Paths may be files or directories (.txt, .md, and .eml files are collected
recursively). --files names a newline-separated list of paths, such as the
changed-files list produced by a CI job.

The semantic stage is skipped for documents whose keyword confidence already
reaches 0.9, and a failed or timed-out provider call falls back to the
keyword and pattern signals for that document only.`,
	RunE: runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	sess, err := newDetectSession(cmd)
	if err != nil {
		return err
	}

	paths, err := detectPaths(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run, results := sess.detect(ctx, paths, os.Stderr)

	output, _ := cmd.Flags().GetString("output")
	formatFlag, _ := cmd.Flags().GetString("format")
	if err := writeRun(run, output, formatFlag); err != nil {
		return err
	}

	if store, _ := cmd.Flags().GetBool("store"); store {
		if err := saveToReview(run, results); err != nil {
			return err
		}
	}

	if err := sess.writeMetrics(); err != nil {
		return err
	}

	report.Summary(os.Stdout, run, !color.NoColor)
	return nil
}

// detectSession holds a configured detector shared by the detect and watch commands.
type detectSession struct {
	detector    *privilege.Detector
	profile     privilege.SensitivityProfile
	provider    string
	recorder    *metrics.Recorder
	metricsFile string
}

// newDetectSession validates configuration before any document is read.
func newDetectSession(cmd *cobra.Command) (*detectSession, error) {
	cfg := detectionConfigFor(cmd)

	profile, err := privilege.ParseProfile(cfg.Sensitivity)
	if err != nil {
		return nil, err
	}

	var tables privilege.Tables
	if cfg.TablesFile != "" {
		tables, err = privilege.LoadTables(cfg.TablesFile)
		if err != nil {
			return nil, err
		}
	}

	provider, opts, err := semanticOptions(cfg)
	if err != nil {
		return nil, err
	}

	sess := &detectSession{profile: profile, provider: provider}
	sess.metricsFile, _ = cmd.Flags().GetString("metrics-file")
	if sess.metricsFile != "" {
		sess.recorder = metrics.NewRecorder()
		opts = append(opts, privilege.WithMetrics(sess.recorder))
	}
	opts = append(opts, privilege.WithLogger(logger))

	sess.detector, err = privilege.NewDetector(privilege.Config{
		Sensitivity: profile.Sensitivity,
		Provider:    provider,
		MaxInFlight: cfg.MaxInFlight,
		Timeout:     cfg.Timeout,
		Tables:      tables,
	}, opts...)
	if err != nil {
		return nil, err
	}
	logger.WithField("detector", sess.detector.String()).Debug("detector ready")
	return sess, nil
}

// detect reads paths and screens them as one run. Progress lines go to w.
func (s *detectSession) detect(ctx context.Context, paths []string, w io.Writer) (types.DetectionRun, []types.DetectionResult) {
	fmt.Fprintf(w, "Checking %d documents for privilege...\n", len(paths))
	docs, batch := corpus.Read(paths, w)
	if batch.HasFailures() {
		logger.WithField("failed", batch.Failed).Warn("some documents could not be read and were scored as empty")
	}

	results := s.detector.DetectAll(ctx, docs)

	run := types.DetectionRun{
		ID:              uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		Sensitivity:     s.profile.Sensitivity,
		Provider:        s.provider,
		PrivilegeReport: privilege.Partition(results),
	}
	return run, results
}

func (s *detectSession) writeMetrics() error {
	if s.recorder == nil {
		return nil
	}
	if err := s.recorder.WriteTextfile(s.metricsFile); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

// semanticOptions returns the provider id and detector options for the
// semantic stage. An unknown provider is a configuration error; a known
// provider without an API key disables the stage with a warning.
func semanticOptions(cfg types.DetectionConfig) (string, []privilege.Option, error) {
	if !cfg.Semantic {
		return "", nil, nil
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch cfg.Provider {
	case semantic.ProviderAnthropic, semantic.ProviderOpenAI:
	default:
		return "", nil, fmt.Errorf("%w: %q (use %s or %s)", semantic.ErrUnknownProvider,
			cfg.Provider, semantic.ProviderAnthropic, semantic.ProviderOpenAI)
	}

	router := semantic.NewRouterFromConfig(aiConfig())
	if !router.Has(cfg.Provider) {
		logger.WithFields(logrus.Fields{
			"provider": cfg.Provider,
			"env":      semanticKeyEnv(cfg.Provider),
		}).Warn("no API key for provider, semantic stage disabled")
		return "", nil, nil
	}
	return cfg.Provider, []privilege.Option{privilege.WithSemantic(router)}, nil
}

func detectPaths(cmd *cobra.Command, args []string) ([]string, error) {
	inputs := append([]string(nil), args...)

	filesList, _ := cmd.Flags().GetString("files")
	if filesList != "" {
		listed, err := corpus.ReadFileList(filesList)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, listed...)
	}
	if len(inputs) == 0 {
		return nil, errors.New("no documents: pass paths or --files")
	}
	return corpus.Collect(inputs)
}

func writeRun(run types.DetectionRun, output, formatFlag string) error {
	format := report.FormatForPath(output)
	if formatFlag != "" {
		f, err := report.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		format = f
	}
	if err := report.Write(output, format, run); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
	return nil
}

func saveToReview(run types.DetectionRun, results []types.DetectionResult) error {
	store, err := review.NewStore(reviewConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveRun(context.Background(), run, results); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Recorded run %s in %s\n", run.ID, store.Path())
	return nil
}

// addDetectionFlags registers the flags shared by detect and watch.
func addDetectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("sensitivity", "medium", "sensitivity profile: low, medium, or high")
	cmd.Flags().String("provider", semantic.ProviderAnthropic, "semantic provider: anthropic or openai")
	cmd.Flags().Bool("no-semantic", false, "disable the semantic stage")
	cmd.Flags().Int("max-in-flight", 4, "maximum concurrent semantic calls")
	cmd.Flags().Duration("timeout", 30*time.Second, "timeout for each semantic call")
	cmd.Flags().String("tables", "", "YAML or TOML file overriding keyword and pattern tables")
	cmd.Flags().String("format", "", "results format: json or yaml (default: from --output extension)")
	cmd.Flags().Bool("store", false, "record the run in the review store")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics to this textfile")
}

func init() {
	addDetectionFlags(detectCmd)
	detectCmd.Flags().String("files", "", "file listing document paths, one per line")
	detectCmd.Flags().String("output", "privilege-results.json", "results file path")

	rootCmd.AddCommand(detectCmd)
}
