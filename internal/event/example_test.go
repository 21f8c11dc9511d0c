package event_test

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dshills/linvoke/internal/event"
)

// Example_basicUsage registers a channel, attaches a slot and emits it.
func Example_basicUsage() {
	reg := event.NewRegistry[string](event.WithLogger(zerolog.Nop()))
	defer reg.Close()

	const port event.ChannelID = 1358
	if err := reg.Register(port); err != nil {
		fmt.Printf("register failed: %v\n", err)
		return
	}

	_ = reg.Attach(port, event.NewSlot("print", func(e event.Event[string]) {
		fmt.Printf("ID of the port that emitted this event: %d\n", e.ChannelID())
	}))

	_ = reg.Emit(port)

	// Output: ID of the port that emitted this event: 1358
}

// Example_payloadOverride shows an emit-time payload replacing the bound one.
func Example_payloadOverride() {
	reg := event.NewRegistry[string](event.WithLogger(zerolog.Nop()))
	defer reg.Close()

	_ = reg.Register(123)
	_ = reg.AttachWithData(123, event.NewSlot("print", func(e event.Event[string]) {
		fmt.Printf("Port ID: %d\tData: %s\n", e.ChannelID(), e.Data())
	}), "Hello, World!")

	_ = reg.Emit(123)
	_ = reg.EmitWithData(123, "Hello from the overriden data!")

	// Output:
	// Port ID: 123	Data: Hello, World!
	// Port ID: 123	Data: Hello from the overriden data!
}

// Example_duplicates shows that duplicates are reported, not fatal.
func Example_duplicates() {
	reg := event.NewRegistry[any](event.WithLogger(zerolog.Nop()))
	defer reg.Close()

	slot := event.NewSlot("slot", func(event.Event[any]) {})

	fmt.Println(reg.Register(0))
	fmt.Println(reg.Register(0))
	fmt.Println(reg.Attach(0, slot))
	fmt.Println(reg.Attach(0, slot))
	fmt.Println(reg.Emit(7))

	n, _ := reg.HandlerCount(0)
	fmt.Println(reg.ChannelCount(), n)

	// Output:
	// <nil>
	// register channel 0: channel already registered
	// <nil>
	// attach channel 0: callback already attached to channel
	// emit channel 7: channel not found
	// 1 1
}
