package event

import (
	"errors"
	"strconv"
)

// Sentinel errors for the registry.
var (
	// ErrDuplicateChannel is returned when Register is called with an id that
	// is already registered. The first registration wins.
	ErrDuplicateChannel = errors.New("channel already registered")

	// ErrDuplicateHandler is returned when a callback is attached to a channel
	// it is already attached to. The first attach wins; payloads are not compared.
	ErrDuplicateHandler = errors.New("callback already attached to channel")

	// ErrChannelNotFound is returned when an operation references an id that
	// was never registered.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrAllocationFailure is returned when channel or handler storage cannot grow.
	ErrAllocationFailure = errors.New("storage cannot grow")

	// ErrNilCallback is returned when a nil callback or slot is attached.
	ErrNilCallback = errors.New("callback cannot be nil")

	// ErrClosed is returned for any operation on a closed registry.
	ErrClosed = errors.New("registry is closed")
)

// Operation names carried by ChannelError.
const (
	OpRegister = "register"
	OpAttach   = "attach"
	OpEmit     = "emit"
	OpCount    = "count"
)

// ChannelError wraps a registry failure with the operation and channel involved.
type ChannelError struct {
	// Op is the operation that failed (register, attach, emit, count).
	Op string

	// Channel is the channel id the operation referenced.
	Channel ChannelID

	// Err is the underlying sentinel error.
	Err error
}

// Error implements the error interface.
func (e *ChannelError) Error() string {
	return e.Op + " channel " + strconv.FormatUint(uint64(e.Channel), 10) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ChannelError) Unwrap() error {
	return e.Err
}
