package script

import (
	"fmt"
	"strings"
)

// Handler kinds.
const (
	KindPrint = "print"
	KindJSON  = "json"
	KindCount = "count"
	KindLua   = "lua"
)

// Script declares channels, handlers and emits to run against one registry.
type Script struct {
	// Name labels the script in logs and reports.
	Name string `toml:"name" yaml:"name"`

	// Strict aborts the run on the first registry error.
	Strict bool `toml:"strict" yaml:"strict"`

	Channels []ChannelSpec `toml:"channel" yaml:"channel"`
	Handlers []HandlerSpec `toml:"handler" yaml:"handler"`
	Emits    []EmitSpec    `toml:"emit" yaml:"emit"`
}

// ChannelSpec registers one channel.
type ChannelSpec struct {
	ID uint32 `toml:"id" yaml:"id"`
}

// HandlerSpec attaches one handler. Specs sharing a Name share a callback,
// so the registry rejects a second attach of that name to the same channel.
type HandlerSpec struct {
	Channel uint32 `toml:"channel" yaml:"channel"`
	Name    string `toml:"name" yaml:"name"`
	Kind    string `toml:"kind" yaml:"kind"`

	// Data is bound at attach time when present.
	Data any `toml:"data" yaml:"data"`

	// Path is a gjson path applied to the payload by print handlers.
	Path string `toml:"path" yaml:"path"`

	// Code defines function handle(channel, data) for lua handlers.
	Code string `toml:"code" yaml:"code"`
}

// EmitSpec emits one channel.
type EmitSpec struct {
	Channel uint32 `toml:"channel" yaml:"channel"`

	// Data overrides the bound payloads when present.
	Data any `toml:"data" yaml:"data"`

	// Repeat is the number of emits; zero means one.
	Repeat int `toml:"repeat" yaml:"repeat"`
}

// Validate checks handler definitions. Channel references are not checked
// here; unknown channels are the registry's to report.
func (s *Script) Validate() error {
	first := make(map[string]HandlerSpec)

	for i, h := range s.Handlers {
		if strings.TrimSpace(h.Name) == "" {
			return &ValidationError{Section: SectionHandler, Index: i, Message: "handler name is required"}
		}

		switch h.Kind {
		case KindPrint, KindJSON, KindCount:
		case KindLua:
			if strings.TrimSpace(h.Code) == "" {
				return &ValidationError{Section: SectionHandler, Index: i, Handler: h.Name, Message: "lua handler needs code"}
			}
		default:
			return &ValidationError{Section: SectionHandler, Index: i, Handler: h.Name, Message: fmt.Sprintf("unknown kind %q", h.Kind)}
		}

		// Specs sharing a name share one slot, so its body must be identical.
		prev, seen := first[h.Name]
		if !seen {
			first[h.Name] = h
			continue
		}
		var conflict string
		switch {
		case prev.Kind != h.Kind:
			conflict = fmt.Sprintf("redefined as %s, first defined as %s", h.Kind, prev.Kind)
		case prev.Code != h.Code:
			conflict = "redefined with different code"
		case prev.Path != h.Path:
			conflict = fmt.Sprintf("redefined with path %q, first defined with %q", h.Path, prev.Path)
		}
		if conflict != "" {
			return &ValidationError{Section: SectionHandler, Index: i, Handler: h.Name, Message: conflict}
		}
	}

	for i, e := range s.Emits {
		if e.Repeat < 0 {
			return &ValidationError{Section: SectionEmit, Index: i, Message: "repeat must not be negative"}
		}
	}
	return nil
}
