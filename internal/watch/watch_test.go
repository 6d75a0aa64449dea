// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettled(t *testing.T) {
	w := &Watcher{debounce: time.Second, pending: make(map[string]time.Time)}
	now := time.Now()
	w.pending["b.txt"] = now.Add(-2 * time.Second)
	w.pending["a.txt"] = now.Add(-time.Second)
	w.pending["c.txt"] = now.Add(-100 * time.Millisecond)

	assert.Equal(t, []string{"a.txt", "b.txt"}, w.settled(now))
	assert.Len(t, w.pending, 1)
	assert.Contains(t, w.pending, "c.txt")

	assert.Empty(t, w.settled(now))
}

func TestNewMissingDir(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
}

func TestRunReportsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".hidden"), 0o755))

	w, err := New([]string{dir},
		WithDebounce(50*time.Millisecond),
		WithFilter(func(p string) bool { return strings.HasSuffix(p, ".txt") }),
	)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	batches := make(chan []string, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(paths []string) { batches <- paths })
	}()

	memo := filepath.Join(dir, "memo.txt")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scan.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden", "skip.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(memo, []byte("privileged"), 0o644))

	select {
	case got := <-batches:
		assert.Equal(t, []string{memo}, got)
	case <-ctx.Done():
		t.Fatal("no batch reported")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestRunPicksUpNewDirectories(t *testing.T) {
	dir := t.TempDir()

	w, err := New([]string{dir}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	batches := make(chan []string, 10)
	go w.Run(ctx, func(paths []string) { batches <- paths })

	sub := filepath.Join(dir, "custodian")
	require.NoError(t, os.Mkdir(sub, 0o755))
	note := filepath.Join(sub, "note.txt")
	require.NoError(t, os.WriteFile(note, []byte("counsel"), 0o644))

	for {
		select {
		case got := <-batches:
			if slices.Contains(got, note) {
				return
			}
		case <-ctx.Done():
			t.Fatal("note.txt not reported")
		}
	}
}
