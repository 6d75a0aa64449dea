// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus turns files on disk into documents for privilege detection.
// It reads plain text only; converting PDFs or mail stores to text happens
// upstream.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pdiddy/privscan/pkg/types"
)

// Extensions lists the file suffixes collected when walking a directory.
// Files named explicitly are read whatever their suffix.
var Extensions = []string{".txt", ".md", ".eml"}

// Collectable reports whether path has one of the collected extensions.
func Collectable(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// BatchResult holds the outcome of reading a batch of files.
type BatchResult struct {
	Read   int
	Empty  int
	Failed int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Read + r.Empty + r.Failed
}

// HasFailures reports whether any file could not be read.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ReadFileList reads a newline-separated list of paths. Blank lines and
// lines starting with # are ignored.
func ReadFileList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file list: %w", err)
	}
	defer f.Close()

	var paths []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading file list: %w", err)
	}
	return paths, nil
}

// Collect expands directories into the files beneath them with a collected
// extension, sorted, and keeps other paths as given. Duplicates are dropped.
// A path that cannot be stat'ed is kept so Read can report it.
func Collect(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			add(p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if Collectable(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
		slices.Sort(found)
		for _, f := range found {
			add(f)
		}
	}
	return out, nil
}

// Read loads each path into a Document in input order. A file that cannot be
// read becomes a document with empty text, which scores as zero-signal, and
// is reported on w. Invalid UTF-8 is replaced with U+FFFD.
func Read(paths []string, w io.Writer) ([]types.Document, BatchResult) {
	docs := make([]types.Document, 0, len(paths))
	var result BatchResult

	for _, p := range paths {
		doc := types.Document{ID: p}

		data, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", p, err)
			result.Failed++
			docs = append(docs, doc)
			continue
		}

		doc.Text = strings.ToValidUTF8(string(data), "\uFFFD")
		doc.Metadata = types.DocumentMetadata{
			Size:      int64(len(data)),
			WordCount: len(strings.Fields(doc.Text)),
		}
		if strings.TrimSpace(doc.Text) == "" {
			fmt.Fprintf(w, "empty   %s\n", p)
			result.Empty++
		} else {
			result.Read++
		}
		docs = append(docs, doc)
	}

	return docs, result
}
