package event

import (
	"reflect"
	"strconv"
)

// ChannelID identifies a channel within a registry.
type ChannelID uint32

// String returns the decimal form of the id.
func (id ChannelID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Callback is invoked once per emit for every handler attached to a channel.
// The Event is only valid for the duration of the call.
type Callback[T any] func(evt Event[T])

// Slot is an identity token for a callback. Two attaches of the same *Slot to
// one channel are duplicates even if the payloads differ; two distinct slots
// wrapping the same function are not.
type Slot[T any] struct {
	name string
	fn   Callback[T]
}

// NewSlot wraps fn in a new slot.
func NewSlot[T any](name string, fn Callback[T]) *Slot[T] {
	return &Slot[T]{name: name, fn: fn}
}

// Name returns the name the slot was created with.
func (s *Slot[T]) Name() string {
	return s.name
}

// funcKey is the identity of a bare function: its code pointer.
type funcKey uintptr

// funcIdentity returns the code pointer of fn. Top-level functions have a
// stable identity. Closures built from the same literal share one.
func funcIdentity[T any](fn Callback[T]) funcKey {
	return funcKey(reflect.ValueOf(fn).Pointer())
}

// handler is one attached callback.
type handler[T any] struct {
	// key is either a *Slot[T] or a funcKey. Both are comparable.
	key     any
	name    string
	fn      Callback[T]
	data    T
	hasData bool
}

// HandlerInfo describes an attached handler for introspection.
type HandlerInfo struct {
	// Name is the slot name, empty for bare functions.
	Name string

	// HasData reports whether a payload was bound at attach time.
	HasData bool
}

// Stats contains registry counters.
type Stats struct {
	// Emits is the number of successful Emit calls.
	Emits uint64

	// Deliveries is the total number of callback invocations.
	Deliveries uint64

	// Misses is the number of emits that referenced an unknown channel.
	Misses uint64

	// Rejected is the number of operations that returned an error.
	Rejected uint64
}
