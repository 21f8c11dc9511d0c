// Package event provides the in-process signal registry for linvoke.
//
// A Registry owns a set of numeric channels. Callers register a channel,
// attach callbacks to it, and emit it to run every attached callback, in the
// order they were attached, with an optional payload.
//
// # Architecture
//
//	┌──────────────────────────────────────────┐
//	│              Registry[T]                  │
//	│  - ordered channels + id index            │
//	│  - fixed-block storage growth             │
//	│  - synchronous emit                       │
//	└──────────────────────────────────────────┘
//	          │                       │
//	          ▼                       ▼
//	┌─────────────────┐     ┌─────────────────┐
//	│   channel       │     │    Event[T]     │
//	│  - handlers in  │     │  - channel id   │
//	│    attach order │     │  - payload      │
//	└─────────────────┘     └─────────────────┘
//
// # Callback Identity
//
// A callback may be attached to a channel only once. Identity is either a
// *Slot created with NewSlot, or for bare functions passed to AttachFunc, the
// function's code pointer. Closures from one function literal, and method
// values of one method on different receivers, share a code pointer and so
// count as one callback; give each its own Slot instead. Payloads are never
// part of the comparison. The
// same callback may be attached to any number of different channels.
//
// # Payloads
//
// A payload bound with AttachWithData is the default for that handler.
// EmitWithData overrides it for every handler for the duration of that emit.
// The registry never inspects or copies payloads beyond storing the value.
//
//	reg := event.NewRegistry[string]()
//	defer reg.Close()
//
//	reg.Register(36)
//	reg.AttachWithData(36, event.NewSlot("print", func(e event.Event[string]) {
//	    fmt.Println(e.ChannelID(), e.Data())
//	}), "Some string data")
//
//	reg.Emit(36)                      // 36 Some string data
//	reg.EmitWithData(36, "override")  // 36 override
//
// # Storage Growth
//
// Channel storage and each channel's handler storage grow by a fixed block
// (8 and 16 by default) when full. Growth copies existing entries in order,
// so dispatch order always equals attach order.
//
// # Errors
//
// Every failure is returned as a *ChannelError wrapping one of the sentinel
// errors and is also logged at warn level on the registry's zerolog logger.
// No operation panics and the registry stays usable after any error.
//
// # Thread Safety
//
// A Registry is not safe for concurrent use. A callback may register channels
// or attach handlers; handlers attached during an emit are not invoked by that
// emit. Panics raised by callbacks are not recovered.
package event
