// Package watch re-runs a callback whenever a file changes.
//
// The parent directory is watched rather than the file itself so that
// editors which save by rename or replace keep triggering runs. Bursts of
// changes within the debounce delay are coalesced into a single run.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDelay is the debounce delay used when none is configured.
const DefaultDelay = 200 * time.Millisecond

// ErrNotFile is returned when the watched path is a directory.
var ErrNotFile = errors.New("watch target is not a regular file")

// Op is a bitmask of file operations.
type Op uint8

// File operations.
const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

// String returns a readable form like "create|write".
func (op Op) String() string {
	if op == 0 {
		return "initial"
	}
	names := []struct {
		op   Op
		name string
	}{
		{OpCreate, "create"},
		{OpWrite, "write"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
	}
	s := ""
	for _, n := range names {
		if op&n.op != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	return s
}

// Change describes why a run was triggered.
type Change struct {
	Path string

	// Op is the union of operations coalesced into this run. It is zero for
	// the initial run.
	Op Op

	// Seq counts runs, starting at 1.
	Seq int
}

// RunFunc is invoked once at start and once per debounced change.
type RunFunc func(ctx context.Context, c Change) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// Stats contains watcher counters.
type Stats struct {
	Runs   int64
	Events int64
	Failed int64
	Errors int64
}

// Watcher watches one file.
type Watcher struct {
	fsw   *fsnotify.Watcher
	path  string
	delay time.Duration
	log   zerolog.Logger

	runs   atomic.Int64
	events atomic.Int64
	failed atomic.Int64
	errs   atomic.Int64
}

// New creates a watcher for the file at path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFile, path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:   fsw,
		path:  abs,
		delay: DefaultDelay,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With().Str("path", abs).Logger()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run invokes fn once, then again after every debounced change, until ctx
// is done or the watcher is closed. Errors from fn are logged and do not stop
// the loop.
func (w *Watcher) Run(ctx context.Context, fn RunFunc) error {
	w.invoke(ctx, fn, 0)

	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	var pending Op
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			op := w.match(ev)
			if op == 0 {
				continue
			}
			w.events.Add(1)
			pending |= op
			timer.Reset(w.delay)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.errs.Add(1)
			w.log.Warn().Err(err).Msg("watch error")

		case <-timer.C:
			w.invoke(ctx, fn, pending)
			pending = 0
		}
	}
}

func (w *Watcher) invoke(ctx context.Context, fn RunFunc, op Op) {
	seq := int(w.runs.Add(1))
	w.log.Debug().Int("seq", seq).Stringer("op", op).Msg("running")

	if err := fn(ctx, Change{Path: w.path, Op: op, Seq: seq}); err != nil {
		w.failed.Add(1)
		w.log.Error().Err(err).Int("seq", seq).Msg("run failed")
	}
}

// match converts an fsnotify event on the watched file to an Op. Events on
// other files and chmod-only events yield zero.
func (w *Watcher) match(ev fsnotify.Event) Op {
	if filepath.Clean(ev.Name) != w.path {
		return 0
	}

	var op Op
	if ev.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if ev.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if ev.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if ev.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}

// Stats returns a snapshot of the watcher counters.
func (w *Watcher) Stats() Stats {
	return Stats{
		Runs:   w.runs.Load(),
		Events: w.events.Load(),
		Failed: w.failed.Load(),
		Errors: w.errs.Load(),
	}
}

// Close stops the underlying fsnotify watcher. A running Run returns.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
