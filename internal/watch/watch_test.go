package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) run(_ context.Context, c Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

func (r *recorder) last() Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changes[len(r.changes)-1]
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func startWatcher(t *testing.T, path string, fn RunFunc) *Watcher {
	t.Helper()
	w, err := New(path, WithDelay(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, fn) }()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
		_ = w.Close()
	})
	return w
}

func TestNew_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = New(dir)
	assert.ErrorIs(t, err, ErrNotFile)
}

func TestRun_InitialAndCoalesced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.toml")
	writeFile(t, path, "a")

	rec := &recorder{}
	w := startWatcher(t, path, rec.run)

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, Op(0), rec.last().Op)
	assert.Equal(t, w.Path(), rec.last().Path)

	writeFile(t, path, "b")
	writeFile(t, path, "c")
	writeFile(t, path, "d")

	require.Eventually(t, func() bool { return rec.count() == 2 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 2, rec.count(), "a burst of writes triggers one run")

	c := rec.last()
	assert.Equal(t, 2, c.Seq)
	assert.NotZero(t, c.Op&(OpWrite|OpCreate))
	assert.GreaterOrEqual(t, w.Stats().Events, int64(1))
}

func TestRun_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.toml")
	writeFile(t, path, "a")

	rec := &recorder{}
	startWatcher(t, path, rec.run)
	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	writeFile(t, filepath.Join(dir, "other.toml"), "x")
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestRun_FailuresDoNotStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	writeFile(t, path, "a")

	var mu sync.Mutex
	calls := 0
	w := startWatcher(t, path, func(context.Context, Change) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return errors.New("boom")
	})
	called := func() int {
		mu.Lock()
		defer mu.Unlock()
		return calls
	}

	require.Eventually(t, func() bool { return called() == 1 }, time.Second, 5*time.Millisecond)
	writeFile(t, path, "b")
	require.Eventually(t, func() bool { return called() == 2 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return w.Stats().Failed == 2 }, time.Second, 5*time.Millisecond)
}

func TestRun_CloseStops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.toml")
	writeFile(t, path, "a")

	w, err := New(path)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- w.Run(context.Background(), func(context.Context, Change) error { return nil })
	}()

	require.Eventually(t, func() bool { return w.Stats().Runs == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, w.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestMatch(t *testing.T) {
	w := &Watcher{path: "/tmp/x/script.toml"}

	assert.Equal(t, OpWrite, w.match(fsnotify.Event{Name: "/tmp/x/script.toml", Op: fsnotify.Write}))
	assert.Equal(t, OpCreate|OpWrite, w.match(fsnotify.Event{Name: "/tmp/x/script.toml", Op: fsnotify.Create | fsnotify.Write}))
	assert.Equal(t, Op(0), w.match(fsnotify.Event{Name: "/tmp/x/script.toml", Op: fsnotify.Chmod}))
	assert.Equal(t, Op(0), w.match(fsnotify.Event{Name: "/tmp/x/other.toml", Op: fsnotify.Write}))
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "initial", Op(0).String())
	assert.Equal(t, "write", OpWrite.String())
	assert.Equal(t, "create|remove", (OpCreate | OpRemove).String())
}
