// Package config loads linvoke settings.
//
// Values are layered with koanf, later layers overriding earlier ones:
//
//  1. Built-in defaults
//  2. A TOML file passed with --config
//  3. LINVOKE_ environment variables (LINVOKE_LOG__LEVEL=debug)
//
// Example file:
//
//	[registry]
//	channel_block = 8
//	handler_block = 16
//	max_channels  = 0
//
//	[log]
//	level = "info"
//
//	[watch]
//	debounce = "250ms"
package config
