// Package examples contains small programs that demonstrate the event
// registry. Each writes its output to an io.Writer so it can be run from the
// CLI and checked in tests.
package examples

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dshills/linvoke/internal/event"
)

// ErrUnknownExample is returned by Lookup for an unregistered name.
var ErrUnknownExample = errors.New("unknown example")

// Example is a runnable demonstration.
type Example struct {
	Name        string
	Description string
	Run         func(w io.Writer, opts ...event.Option) error
}

var catalog = map[string]Example{}

func register(e Example) {
	catalog[e.Name] = e
}

func init() {
	register(Example{"hello-world", "handlers with string, int, struct and no payloads", HelloWorld})
	register(Example{"simple-event", "one handler printing its channel id", SimpleEvent})
	register(Example{"event-with-data", "payload bound at attach time", EventWithData})
	register(Example{"event-with-data-override", "payload overridden at emit time", EventWithDataOverride})
	register(Example{"multi-node", "two handlers on one channel", MultiNode})
	register(Example{"multi-slot", "three handlers on one channel", MultiSlot})
}

// All returns every example sorted by name.
func All() []Example {
	all := make([]Example, 0, len(catalog))
	for _, e := range catalog {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Lookup returns the example with the given name.
func Lookup(name string) (Example, error) {
	e, ok := catalog[name]
	if !ok {
		return Example{}, fmt.Errorf("%w: %s", ErrUnknownExample, name)
	}
	return e, nil
}

// pair is the struct payload of HelloWorld.
type pair struct {
	Key   int
	Value float32
}

// HelloWorld attaches handlers with every kind of payload and emits each
// channel once.
func HelloWorld(w io.Writer, opts ...event.Option) error {
	reg := event.NewRegistry[any](opts...)
	defer reg.Close()

	const (
		emptyPort  event.ChannelID = 123
		stringPort event.ChannelID = 12
		intPort    event.ChannelID = 80
		structPort event.ChannelID = 7658
		multiPort  event.ChannelID = 4444
	)

	printEmpty := event.NewSlot("print_empty", func(e event.Event[any]) {
		fmt.Fprintf(w, "PORT: %d\tDATA: (null)\n", e.ChannelID())
	})
	printString := event.NewSlot("print_string", func(e event.Event[any]) {
		fmt.Fprintf(w, "PORT: %d\tDATA: %s\n", e.ChannelID(), e.Data())
	})
	printInt := event.NewSlot("print_int", func(e event.Event[any]) {
		fmt.Fprintf(w, "PORT: %d\tDATA: %d\n", e.ChannelID(), e.Data())
	})
	printStruct := event.NewSlot("print_struct", func(e event.Event[any]) {
		p, _ := e.Data().(pair)
		fmt.Fprintf(w, "PORT: %d\tDATA: key = %d, value = %f\n", e.ChannelID(), p.Key, p.Value)
	})

	for _, id := range []event.ChannelID{emptyPort, stringPort, intPort, structPort, multiPort} {
		if err := reg.Register(id); err != nil {
			return err
		}
	}

	err := errors.Join(
		reg.Attach(emptyPort, printEmpty),
		reg.AttachWithData(stringPort, printString, "Hey string!"),
		reg.AttachWithData(intPort, printInt, 15),
		reg.AttachWithData(structPort, printStruct, pair{46, 3.14}),
		reg.AttachWithData(multiPort, printString, "Hello from multi node!"),
		reg.AttachWithData(multiPort, printInt, 168),
		reg.AttachWithData(multiPort, printStruct, pair{156, 0.369}),
	)
	if err != nil {
		return err
	}

	for _, id := range []event.ChannelID{emptyPort, stringPort, intPort, structPort, multiPort} {
		if err := reg.Emit(id); err != nil {
			return err
		}
	}
	return nil
}

// SimpleEvent attaches one handler and emits its channel.
func SimpleEvent(w io.Writer, opts ...event.Option) error {
	reg := event.NewRegistry[any](opts...)
	defer reg.Close()

	const port event.ChannelID = 1358
	if err := reg.Register(port); err != nil {
		return err
	}

	slot := event.NewSlot("node", func(e event.Event[any]) {
		fmt.Fprintf(w, "ID of the port that emitted this event: %d\n", e.ChannelID())
	})
	if err := reg.Attach(port, slot); err != nil {
		return err
	}
	return reg.Emit(port)
}

// EventWithData binds a string payload at attach time.
func EventWithData(w io.Writer, opts ...event.Option) error {
	return printPortData(w, "Hello, World!", nil, opts)
}

// EventWithDataOverride binds a payload and then replaces it on emit.
func EventWithDataOverride(w io.Writer, opts ...event.Option) error {
	override := "Hello from the overriden data!"
	return printPortData(w, "Hello, World!", &override, opts)
}

func printPortData(w io.Writer, bound string, override *string, opts []event.Option) error {
	reg := event.NewRegistry[string](opts...)
	defer reg.Close()

	const port event.ChannelID = 123
	if err := reg.Register(port); err != nil {
		return err
	}

	slot := event.NewSlot("node", func(e event.Event[string]) {
		fmt.Fprintf(w, "Port ID: %d\tData: %s\n", e.ChannelID(), e.Data())
	})
	if err := reg.AttachWithData(port, slot, bound); err != nil {
		return err
	}

	if override != nil {
		return reg.EmitWithData(port, *override)
	}
	return reg.Emit(port)
}

// MultiNode attaches two handlers to one channel.
func MultiNode(w io.Writer, opts ...event.Option) error {
	return greetAll(w, "node_callback", 2, opts)
}

// MultiSlot attaches three handlers to one channel.
func MultiSlot(w io.Writer, opts ...event.Option) error {
	return greetAll(w, "slot", 3, opts)
}

// greetAll attaches n distinct handlers to channel 1358, each printing its
// own name, and emits the channel.
func greetAll(w io.Writer, prefix string, n int, opts []event.Option) error {
	reg := event.NewRegistry[struct{}](opts...)
	defer reg.Close()

	const port event.ChannelID = 1358
	if err := reg.Register(port); err != nil {
		return err
	}

	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("%s%d", prefix, i)
		slot := event.NewSlot(name, func(event.Event[struct{}]) {
			fmt.Fprintf(w, "Hello from %s\n", name)
		})
		if err := reg.Attach(port, slot); err != nil {
			return err
		}
	}
	return reg.Emit(port)
}
