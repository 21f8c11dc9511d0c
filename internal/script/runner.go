package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/linvoke/internal/event"
	"github.com/dshills/linvoke/internal/logging"
	luart "github.com/dshills/linvoke/internal/script/lua"
)

// Runner executes scripts. Each run gets a fresh registry.
type Runner struct {
	out        io.Writer
	opts       []event.Option
	logger     zerolog.Logger
	luaTimeout time.Duration
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRegistryOptions sets the options used for every run's registry.
func WithRegistryOptions(opts ...event.Option) RunnerOption {
	return func(r *Runner) {
		r.opts = append(r.opts, opts...)
	}
}

// WithLogger sets the logger for runs and their registries.
func WithLogger(l zerolog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithLuaTimeout bounds each lua handler invocation.
func WithLuaTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.luaTimeout = d
	}
}

// NewRunner creates a runner writing handler output to out.
func NewRunner(out io.Writer, opts ...RunnerOption) *Runner {
	r := &Runner{
		out:        out,
		logger:     zerolog.Nop(),
		luaTimeout: luart.DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// wiring is the state of one run.
type wiring struct {
	script     *Script
	reg        *event.Registry[any]
	out        io.Writer
	log        zerolog.Logger
	luaTimeout time.Duration
	report     *Report
	states     []*luart.State
}

// Run wires the script into a new registry and performs its emits in order.
// In strict mode the first registry error aborts the run; otherwise errors
// are collected in the report.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	w, err := r.wire(s)
	defer w.close()
	if err != nil {
		return w.report, err
	}
	defer logging.LogOperationStart(w.log, "script run")()

	for _, spec := range s.Emits {
		n := max(spec.Repeat, 1)
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				w.finish()
				return w.report, err
			}
			if err := w.emit(spec); err != nil {
				w.finish()
				return w.report, err
			}
		}
	}

	w.finish()
	w.log.Info().
		Uint64("emits", w.report.Emits).
		Uint64("deliveries", w.report.Deliveries).
		Int("errors", len(w.report.Errors)).
		Msg("script finished")
	return w.report, nil
}

// Inspect wires the script without emitting and reports the resulting layout.
func (r *Runner) Inspect(s *Script) (*Report, error) {
	w, err := r.wire(s)
	defer w.close()
	if err != nil {
		return w.report, err
	}
	w.finish()
	return w.report, nil
}

func (r *Runner) wire(s *Script) (*wiring, error) {
	runID := uuid.NewString()
	logger := r.logger.With().Str("run_id", runID).Str("script", s.Name).Logger()

	opts := append(append([]event.Option{}, r.opts...), event.WithLogger(logger))
	w := &wiring{
		script:     s,
		reg:        event.NewRegistry[any](opts...),
		out:        r.out,
		log:        logger,
		luaTimeout: r.luaTimeout,
		report: &Report{
			RunID:  runID,
			Script: s.Name,
			Counts: make(map[string]int),
		},
	}

	if err := s.Validate(); err != nil {
		return w, err
	}

	for _, ch := range s.Channels {
		if err := w.check(w.reg.Register(event.ChannelID(ch.ID))); err != nil {
			return w, err
		}
	}

	slots := make(map[string]*event.Slot[any])
	for _, spec := range s.Handlers {
		slot, ok := slots[spec.Name]
		if !ok {
			var err error
			if slot, err = w.newSlot(spec); err != nil {
				return w, err
			}
			slots[spec.Name] = slot
		}

		id := event.ChannelID(spec.Channel)
		var err error
		if spec.Data != nil {
			err = w.reg.AttachWithData(id, slot, spec.Data)
		} else {
			err = w.reg.Attach(id, slot)
		}
		if err := w.check(err); err != nil {
			return w, err
		}
	}

	w.log.Debug().Int("channels", w.reg.ChannelCount()).Int("handlers", len(s.Handlers)).Msg("script wired")
	return w, nil
}

func (w *wiring) emit(spec EmitSpec) error {
	id := event.ChannelID(spec.Channel)
	if spec.Data != nil {
		return w.check(w.reg.EmitWithData(id, spec.Data))
	}
	return w.check(w.reg.Emit(id))
}

// check records a registry error. It returns the error only in strict mode.
func (w *wiring) check(err error) error {
	if err == nil {
		return nil
	}
	w.report.Errors = append(w.report.Errors, err)
	if w.script.Strict {
		return fmt.Errorf("script %s: %w", w.script.Name, err)
	}
	return nil
}

// handlerFailed records an error raised inside a handler body. Dispatch
// continues with the next handler.
func (w *wiring) handlerFailed(name string, id event.ChannelID, err error) {
	herr := &HandlerError{Handler: name, Channel: uint32(id), Err: err}
	w.report.Errors = append(w.report.Errors, herr)
	w.log.Warn().Err(herr).Msg("handler failed")
}

// finish copies the registry layout and counters into the report.
func (w *wiring) finish() {
	stats := w.reg.Stats()
	w.report.Emits = stats.Emits
	w.report.Deliveries = stats.Deliveries
	w.report.Misses = stats.Misses

	w.report.Channels = w.report.Channels[:0]
	for _, id := range w.reg.Channels() {
		infos, _ := w.reg.Handlers(id)
		names := make([]string, len(infos))
		for i, info := range infos {
			names[i] = info.Name
		}
		w.report.Channels = append(w.report.Channels, ChannelReport{ID: uint32(id), Handlers: names})
	}
}

func (w *wiring) close() {
	for _, s := range w.states {
		_ = s.Close()
	}
	_ = w.reg.Close()
}

// Report summarizes a run.
type Report struct {
	RunID  string
	Script string

	// Channels lists the registered channels and their handlers in order.
	Channels []ChannelReport

	Emits      uint64
	Deliveries uint64
	Misses     uint64

	// Counts holds the invocation totals of count handlers.
	Counts map[string]int

	// Errors holds registry and handler errors in the order they occurred.
	Errors []error
}

// ChannelReport describes one channel after wiring.
type ChannelReport struct {
	ID       uint32
	Handlers []string
}

// Err joins all recorded errors.
func (r *Report) Err() error {
	return errors.Join(r.Errors...)
}
