// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch reports batches of document files that were created or
// modified under a set of directories.
package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long a file must stay unchanged before it is reported.
const DefaultDebounce = 2 * time.Second

// Watcher monitors directory trees. Newly created subdirectories are added
// as they appear; dot-directories are ignored.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	filter   func(path string) bool
	logger   *logrus.Logger

	// pending maps a path to the time of its last write. Only Run touches it.
	pending map[string]time.Time
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed file is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithFilter restricts reported files to those for which keep returns true.
func WithFilter(keep func(path string) bool) Option {
	return func(w *Watcher) { w.filter = keep }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logrus.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New watches every directory under dirs.
func New(dirs []string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		debounce: DefaultDebounce,
		filter:   func(string) bool { return true },
		pending:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logrus.New()
		w.logger.SetOutput(io.Discard)
	}

	for _, dir := range dirs {
		if err := w.addTree(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Run delivers each batch of settled files to fn, sorted by path, until ctx
// is done. fn runs on the Run goroutine; events arriving meanwhile are
// buffered by the watcher.
func (w *Watcher) Run(ctx context.Context, fn func(paths []string)) error {
	tick := w.debounce / 2
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ev)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("file watcher error")

		case now := <-ticker.C:
			if batch := w.settled(now); len(batch) > 0 {
				fn(batch)
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(ev.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if ev.Has(fsnotify.Create) && !strings.HasPrefix(filepath.Base(ev.Name), ".") {
			if err := w.addTree(ev.Name); err != nil {
				w.logger.WithError(err).Warn("could not watch new directory")
			}
			w.queueTree(ev.Name)
		}
		return
	}
	if !w.filter(ev.Name) {
		return
	}
	w.pending[ev.Name] = time.Now()
}

// queueTree marks files already present in a new directory as pending,
// since they may have been written before the directory was watched.
func (w *Watcher) queueTree(root string) {
	now := time.Now()
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if w.filter(path) {
			w.pending[path] = now
		}
		return nil
	})
}

// settled removes and returns the pending files quiet for at least the debounce period.
func (w *Watcher) settled(now time.Time) []string {
	var batch []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			batch = append(batch, path)
			delete(w.pending, path)
		}
	}
	slices.Sort(batch)
	return batch
}
