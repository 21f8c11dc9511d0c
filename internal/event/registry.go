package event

import (
	"github.com/rs/zerolog"
)

// Registry owns an ordered set of channels, each with an ordered list of
// handlers, and dispatches emits to them synchronously.
//
// A Registry is not safe for concurrent use. Every method runs to completion
// on the calling goroutine; the only control transfer is the direct call of a
// callback during Emit.
type Registry[T any] struct {
	channels []channel[T]
	index    map[ChannelID]int
	cfg      config
	log      zerolog.Logger
	stats    Stats
	closed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry[T any](opts ...Option) *Registry[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Registry[T]{
		channels: make([]channel[T], 0, initialCap(cfg.channelBlock, cfg.maxChannels)),
		index:    make(map[ChannelID]int),
		cfg:      cfg,
		log:      cfg.logger,
	}
}

// Close releases all channel and handler storage. Every later operation
// reports ErrClosed. Close is idempotent.
func (r *Registry[T]) Close() error {
	if r.closed {
		return nil
	}
	for i := range r.channels {
		r.channels[i].handlers = nil
	}
	r.channels = nil
	r.index = nil
	r.closed = true
	return nil
}

// Register adds an empty channel with the given id.
// A second registration of the same id fails with ErrDuplicateChannel and
// leaves the registry unchanged.
func (r *Registry[T]) Register(id ChannelID) error {
	if r.closed {
		return r.fail(OpRegister, id, ErrClosed)
	}
	if _, exists := r.index[id]; exists {
		return r.fail(OpRegister, id, ErrDuplicateChannel)
	}

	channels, err := reserve(r.channels, r.cfg.channelBlock, r.cfg.maxChannels)
	if err != nil {
		return r.fail(OpRegister, id, err)
	}

	r.channels = append(channels, channel[T]{
		id:       id,
		handlers: make([]handler[T], 0, initialCap(r.cfg.handlerBlock, r.cfg.maxHandlers)),
	})
	r.index[id] = len(r.channels) - 1

	r.log.Debug().Uint32("channel", uint32(id)).Int("channels", len(r.channels)).Msg("channel registered")
	return nil
}

// Attach attaches slot to the channel with no bound payload.
func (r *Registry[T]) Attach(id ChannelID, slot *Slot[T]) error {
	if slot == nil || slot.fn == nil {
		return r.fail(OpAttach, id, ErrNilCallback)
	}
	return r.attach(id, handler[T]{key: slot, name: slot.name, fn: slot.fn})
}

// AttachWithData attaches slot to the channel and binds data as the payload
// delivered when the emit does not override it.
func (r *Registry[T]) AttachWithData(id ChannelID, slot *Slot[T], data T) error {
	if slot == nil || slot.fn == nil {
		return r.fail(OpAttach, id, ErrNilCallback)
	}
	return r.attach(id, handler[T]{key: slot, name: slot.name, fn: slot.fn, data: data, hasData: true})
}

// AttachFunc attaches a bare function. Its identity is the function's code
// pointer, so attaching the same top-level function twice to one channel is
// rejected.
//
// Closures created from one function literal share a code pointer and are
// treated as the same callback. So are method values of one method: a.Handle
// and b.Handle collide even though their receivers differ. Use NewSlot with
// Attach for per-closure or per-receiver identity.
func (r *Registry[T]) AttachFunc(id ChannelID, fn Callback[T]) error {
	if fn == nil {
		return r.fail(OpAttach, id, ErrNilCallback)
	}
	return r.attach(id, handler[T]{key: funcIdentity(fn), fn: fn})
}

// AttachFuncWithData is AttachFunc with a bound payload. Identity follows
// AttachFunc: closures from one literal and method values of one method
// collide regardless of receiver.
func (r *Registry[T]) AttachFuncWithData(id ChannelID, fn Callback[T], data T) error {
	if fn == nil {
		return r.fail(OpAttach, id, ErrNilCallback)
	}
	return r.attach(id, handler[T]{key: funcIdentity(fn), fn: fn, data: data, hasData: true})
}

func (r *Registry[T]) attach(id ChannelID, h handler[T]) error {
	if r.closed {
		return r.fail(OpAttach, id, ErrClosed)
	}

	ch := r.lookup(id)
	if ch == nil {
		return r.fail(OpAttach, id, ErrChannelNotFound)
	}
	if ch.find(h.key) >= 0 {
		return r.fail(OpAttach, id, ErrDuplicateHandler)
	}

	handlers, err := reserve(ch.handlers, r.cfg.handlerBlock, r.cfg.maxHandlers)
	if err != nil {
		return r.fail(OpAttach, id, err)
	}
	ch.handlers = append(handlers, h)

	r.log.Debug().Uint32("channel", uint32(id)).Str("slot", h.name).Int("handlers", len(ch.handlers)).Msg("handler attached")
	return nil
}

// Emit invokes every handler of the channel in attach order. Each callback
// receives the payload bound when it was attached, if any.
func (r *Registry[T]) Emit(id ChannelID) error {
	var zero T
	return r.emit(id, zero, false)
}

// EmitWithData invokes every handler of the channel in attach order with data
// overriding any payload bound at attach time.
func (r *Registry[T]) EmitWithData(id ChannelID, data T) error {
	return r.emit(id, data, true)
}

func (r *Registry[T]) emit(id ChannelID, data T, override bool) error {
	if r.closed {
		return r.fail(OpEmit, id, ErrClosed)
	}

	ch := r.lookup(id)
	if ch == nil {
		r.stats.Misses++
		return r.fail(OpEmit, id, ErrChannelNotFound)
	}

	// Handlers attached by a callback during this emit are not part of it.
	handlers := ch.handlers[:len(ch.handlers):len(ch.handlers)]
	r.stats.Emits++

	for i := range handlers {
		h := &handlers[i]
		evt := Event[T]{channel: id, data: h.data, hasData: h.hasData}
		if override {
			evt.data = data
			evt.hasData = true
			evt.overridden = true
		}
		r.stats.Deliveries++
		h.fn(evt)
	}

	r.log.Trace().Uint32("channel", uint32(id)).Int("handlers", len(handlers)).Bool("override", override).Msg("channel emitted")
	return nil
}

// ChannelCount returns the number of registered channels.
func (r *Registry[T]) ChannelCount() int {
	return len(r.channels)
}

// HandlerCount returns the number of handlers attached to a channel.
// It returns 0 and ErrChannelNotFound for unknown ids.
func (r *Registry[T]) HandlerCount(id ChannelID) (int, error) {
	if r.closed {
		return 0, r.fail(OpCount, id, ErrClosed)
	}

	ch := r.lookup(id)
	if ch == nil {
		return 0, r.fail(OpCount, id, ErrChannelNotFound)
	}
	return len(ch.handlers), nil
}

// HasChannel reports whether id is registered.
func (r *Registry[T]) HasChannel(id ChannelID) bool {
	return r.lookup(id) != nil
}

// Channels returns the registered ids in registration order.
func (r *Registry[T]) Channels() []ChannelID {
	if len(r.channels) == 0 {
		return nil
	}

	ids := make([]ChannelID, len(r.channels))
	for i := range r.channels {
		ids[i] = r.channels[i].id
	}
	return ids
}

// Handlers describes the handlers of a channel in dispatch order.
func (r *Registry[T]) Handlers(id ChannelID) ([]HandlerInfo, error) {
	if r.closed {
		return nil, r.fail(OpCount, id, ErrClosed)
	}

	ch := r.lookup(id)
	if ch == nil {
		return nil, r.fail(OpCount, id, ErrChannelNotFound)
	}

	infos := make([]HandlerInfo, len(ch.handlers))
	for i, h := range ch.handlers {
		infos[i] = HandlerInfo{Name: h.name, HasData: h.hasData}
	}
	return infos, nil
}

// Stats returns a snapshot of the registry counters.
func (r *Registry[T]) Stats() Stats {
	return r.stats
}

// lookup returns the channel with the given id. The pointer is only valid
// until the next Register.
func (r *Registry[T]) lookup(id ChannelID) *channel[T] {
	i, ok := r.index[id]
	if !ok {
		return nil
	}
	return &r.channels[i]
}

// fail records a rejected operation on the diagnostic logger and returns it
// as a *ChannelError.
func (r *Registry[T]) fail(op string, id ChannelID, err error) error {
	r.stats.Rejected++
	r.log.Warn().Str("op", op).Uint32("channel", uint32(id)).Err(err).Msg("registry operation rejected")
	return &ChannelError{Op: op, Channel: id, Err: err}
}
