package event

// Event is the context passed to a callback. A fresh Event is built for every
// invocation and must not be retained after the callback returns.
type Event[T any] struct {
	channel    ChannelID
	data       T
	hasData    bool
	overridden bool
}

// ChannelID returns the id of the channel that emitted the event.
func (e Event[T]) ChannelID() ChannelID {
	return e.channel
}

// Data returns the resolved payload: the emit-time override when one was
// given, otherwise the payload bound at attach time. It is the zero value of
// T when neither exists.
func (e Event[T]) Data() T {
	return e.data
}

// HasData reports whether Data carries a payload.
func (e Event[T]) HasData() bool {
	return e.hasData
}

// Overridden reports whether Data came from the emit call rather than the attach.
func (e Event[T]) Overridden() bool {
	return e.overridden
}
