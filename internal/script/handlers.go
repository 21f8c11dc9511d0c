package script

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/linvoke/internal/event"
	luart "github.com/dshills/linvoke/internal/script/lua"
)

// newSlot builds the callback for a handler spec.
func (w *wiring) newSlot(spec HandlerSpec) (*event.Slot[any], error) {
	name := spec.Name

	switch spec.Kind {
	case KindPrint:
		return event.NewSlot(name, func(e event.Event[any]) {
			fmt.Fprintf(w.out, "%s\tchannel: %d\tdata: %s\n", name, e.ChannelID(), render(e, spec.Path))
		}), nil

	case KindJSON:
		return event.NewSlot(name, func(e event.Event[any]) {
			rec, err := w.record(name, e)
			if err != nil {
				w.handlerFailed(name, e.ChannelID(), err)
				return
			}
			fmt.Fprintln(w.out, rec)
		}), nil

	case KindCount:
		return event.NewSlot(name, func(event.Event[any]) {
			w.report.Counts[name]++
		}), nil

	case KindLua:
		state := luart.NewState(luart.WithOutput(w.out), luart.WithExecutionTimeout(w.luaTimeout))
		w.states = append(w.states, state)
		if err := state.DoString(spec.Code); err != nil {
			return nil, &HandlerError{Handler: name, Channel: spec.Channel, Err: err}
		}
		return event.NewSlot(name, func(e event.Event[any]) {
			var data lua.LValue = lua.LNil
			if e.HasData() {
				data = luart.ToLValue(state.L, e.Data())
			}
			if _, err := state.Call("handle", lua.LNumber(e.ChannelID()), data); err != nil {
				w.handlerFailed(name, e.ChannelID(), err)
			}
		}), nil
	}

	return nil, &ValidationError{Section: SectionHandler, Handler: name, Message: fmt.Sprintf("unknown kind %q", spec.Kind)}
}

// render formats the payload of e for print handlers. A non-empty path
// selects a value from the payload's JSON form.
func render(e event.Event[any], path string) string {
	if !e.HasData() || e.Data() == nil {
		return "(none)"
	}
	if path == "" {
		return fmt.Sprint(e.Data())
	}

	doc, err := payloadJSON(e.Data())
	if err != nil {
		return "(invalid)"
	}
	res := gjson.Get(doc, path)
	if !res.Exists() {
		return "(none)"
	}
	return res.String()
}

// payloadJSON returns the JSON text of a payload. Strings that already hold
// JSON are used as is.
func payloadJSON(v any) (string, error) {
	if s, ok := v.(string); ok && gjson.Valid(s) {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// record builds the JSON line written by json handlers.
func (w *wiring) record(name string, e event.Event[any]) (string, error) {
	rec := "{}"
	fields := []struct {
		path  string
		value any
	}{
		{"run", w.report.RunID},
		{"handler", name},
		{"channel", uint32(e.ChannelID())},
		{"overridden", e.Overridden()},
	}
	if e.HasData() {
		fields = append(fields, struct {
			path  string
			value any
		}{"data", e.Data()})
	}

	var err error
	for _, f := range fields {
		if rec, err = sjson.Set(rec, f.path, f.value); err != nil {
			return "", err
		}
	}
	return rec, nil
}
