// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes detection runs to results files and prints the
// console summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/privscan/pkg/types"
)

// Format is a results file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml, or yml. The empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q: use json or yaml", s)
}

// FormatForPath picks the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Encode writes v to w in the given format. JSON is indented two spaces.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
}

// Write saves run to path, creating parent directories.
func Write(path string, format Format, run types.DetectionRun) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Encode(f, format, run); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Summary prints the per-bucket counts and the high-risk documents. Colors
// are used only when colored is true.
func Summary(w io.Writer, run types.DetectionRun, colored bool) {
	bold := newColor(colored, color.Bold)
	red := newColor(colored, color.FgRed, color.Bold)
	yellow := newColor(colored, color.FgYellow)
	green := newColor(colored, color.FgGreen)

	bold.Fprintf(w, "Privilege detection complete")
	fmt.Fprintf(w, " (run %s, sensitivity %s)\n", run.ID, run.Sensitivity)
	fmt.Fprintf(w, "  Total:          %d\n", run.Total)
	yellow.Fprintf(w, "  Privileged:     %d\n", len(run.Privileged))
	red.Fprintf(w, "  High risk:      %d\n", len(run.HighRisk))
	green.Fprintf(w, "  Non-privileged: %d\n", len(run.NonPrivileged))

	for _, r := range run.HighRisk {
		red.Fprintf(w, "  ! ")
		fmt.Fprintf(w, "%s (%.2f)\n", r.DocumentID, r.Confidence)
	}
}

func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
