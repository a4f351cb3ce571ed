package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietOptions() Options {
	return Options{Debounce: 20 * time.Millisecond, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestWatcher_DeliversChangedFiles(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	other := filepath.Join(dir, "other.md")
	require.NoError(t, os.WriteFile(doc, []byte("a"), 0o600))

	w, err := New([]string{doc}, quietOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) { batches <- changed })
	}()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o600))
	require.NoError(t, os.WriteFile(doc, []byte("b"), 0o600))
	require.NoError(t, os.WriteFile(doc, []byte("c"), 0o600))

	abs, err := filepath.Abs(doc)
	require.NoError(t, err)
	select {
	case got := <-batches:
		assert.Equal(t, []string{abs}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change delivered")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing", "doc.md")}, quietOptions())
	require.Error(t, err)
}

func TestWatcher_Relevant(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	w, err := New([]string{doc}, quietOptions())
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	assert.True(t, w.relevant(fsnotify.Event{Name: doc, Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: doc, Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: doc, Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "x.md"), Op: fsnotify.Write}))
}
