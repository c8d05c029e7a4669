package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	ch    chan []string
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan []string, 16)}
}

func (r *recorder) onChange(changed []string) {
	r.mu.Lock()
	r.calls = append(r.calls, changed)
	r.mu.Unlock()
	r.ch <- changed
}

func (r *recorder) wait(t *testing.T) []string {
	t.Helper()
	select {
	case c := <-r.ch:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change callback")
		return nil
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, func([]string) {}, Options{}, quietLogger())
	assert.Error(t, err)

	_, err = New([]string{"a.json"}, nil, Options{}, quietLogger())
	assert.Error(t, err)
}

func TestNew_DefaultsAndDirs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "libs")
	require.NoError(t, os.Mkdir(sub, 0o755))

	w, err := New([]string{
		filepath.Join(dir, "doc.json"),
		filepath.Join(sub, "core.library.json"),
		filepath.Join(sub, "tokens.json"),
	}, func([]string) {}, Options{}, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Equal(t, DefaultDebounce, w.options.Debounce)
	assert.Len(t, w.tracked, 3)
	assert.Equal(t, []string{dir, sub}, w.dirs)
	assert.False(t, w.Stats().IsRunning)
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.json")
	lib := filepath.Join(dir, "core.library.json")
	writeFile(t, doc, "{}")
	writeFile(t, lib, "{}")

	rec := newRecorder()
	w, err := New([]string{doc, lib}, rec.onChange, Options{Debounce: 100 * time.Millisecond}, quietLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	assert.True(t, w.Stats().IsRunning)

	writeFile(t, doc, `{"a":1}`)
	writeFile(t, lib, `{"b":1}`)
	writeFile(t, doc, `{"a":2}`)

	changed := rec.wait(t)
	assert.Equal(t, []string{lib, doc}, changed)

	// No second callback for the same burst.
	select {
	case extra := <-rec.ch:
		t.Fatalf("unexpected extra callback: %v", extra)
	case <-time.After(300 * time.Millisecond):
	}
	assert.Equal(t, 1, w.Stats().Callbacks)
}

func TestWatcher_IgnoresUntrackedSiblings(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.json")
	writeFile(t, doc, "{}")

	rec := newRecorder()
	w, err := New([]string{doc}, rec.onChange, Options{Debounce: 50 * time.Millisecond}, quietLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "other.json"), "{}")

	select {
	case c := <-rec.ch:
		t.Fatalf("unexpected callback: %v", c)
	case <-time.After(300 * time.Millisecond):
	}

	writeFile(t, doc, `{"x":1}`)
	assert.Equal(t, []string{doc}, rec.wait(t))
}

func TestWatcher_RenameReplace(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.json")
	writeFile(t, doc, "{}")

	rec := newRecorder()
	w, err := New([]string{doc}, rec.onChange, Options{Debounce: 50 * time.Millisecond}, quietLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	tmp := filepath.Join(dir, "doc.json.tmp")
	writeFile(t, tmp, `{"y":1}`)
	require.NoError(t, os.Rename(tmp, doc))

	assert.Equal(t, []string{doc}, rec.wait(t))
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.json")

	w, err := New([]string{doc}, func([]string) {}, Options{}, quietLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
	assert.False(t, w.Stats().IsRunning)
	assert.ErrorIs(t, w.Start(context.Background()), ErrStopped)
}

func TestWatcher_StartTwice(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "doc.json")}, func([]string) {}, Options{}, quietLogger())
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Start(context.Background()))
	assert.Error(t, w.Start(context.Background()))
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "doc.json")}, func([]string) {}, Options{}, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("event loop did not exit")
	}
	assert.Eventually(t, func() bool { return !w.Stats().IsRunning }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "nope", "doc.json")}, func([]string) {}, Options{}, quietLogger())
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Start(context.Background()))
}
