// Package script runs declarative wiring scripts against an event registry.
//
// A script lists channels to register, handlers to attach and emits to
// perform, in TOML or YAML:
//
//	name = "hello"
//
//	[[channel]]
//	id = 36
//
//	[[handler]]
//	channel = 36
//	name = "H"
//	kind = "print"
//	data = "Some string data"
//
//	[[emit]]
//	channel = 36
//
// Handler kinds are print, json, count and lua. Handlers that share a name
// share one callback, so the registry's duplicate rules apply to them.
package script
