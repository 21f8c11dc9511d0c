package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/linvoke/internal/event"
)

// EnvPrefix is the prefix of environment overrides. Nested keys are separated
// by a double underscore: LINVOKE_REGISTRY__CHANNEL_BLOCK.
const EnvPrefix = "LINVOKE_"

// Config is the linvoke configuration.
type Config struct {
	Registry RegistryConfig `koanf:"registry"`
	Log      LogConfig      `koanf:"log"`
	Watch    WatchConfig    `koanf:"watch"`
}

// RegistryConfig holds the event registry storage settings.
type RegistryConfig struct {
	// ChannelBlock is the capacity step for channel storage.
	ChannelBlock int `koanf:"channel_block"`

	// HandlerBlock is the capacity step for each channel's handler storage.
	HandlerBlock int `koanf:"handler_block"`

	// MaxChannels limits the number of channels. Zero means unbounded.
	MaxChannels int `koanf:"max_channels"`

	// MaxHandlers limits handlers per channel. Zero means unbounded.
	MaxHandlers int `koanf:"max_handlers"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zerolog level name.
	Level string `koanf:"level"`
}

// WatchConfig holds settings for script watching.
type WatchConfig struct {
	// Debounce is how long to wait for writes to settle before re-running.
	Debounce time.Duration `koanf:"debounce"`
}

// defaults returns the built-in configuration as a flat koanf map.
func defaults() map[string]any {
	return map[string]any{
		"registry.channel_block": event.DefaultChannelBlock,
		"registry.handler_block": event.DefaultHandlerBlock,
		"registry.max_channels":  0,
		"registry.max_handlers":  0,
		"log.level":              "warn",
		"watch.debounce":         "200ms",
	}
}

// Default returns the built-in configuration without file or environment overrides.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			ChannelBlock: event.DefaultChannelBlock,
			HandlerBlock: event.DefaultHandlerBlock,
		},
		Log:   LogConfig{Level: "warn"},
		Watch: WatchConfig{Debounce: 200 * time.Millisecond},
	}
}

// Load builds the configuration from defaults, the TOML file at path (when
// path is non-empty) and LINVOKE_ environment variables, in that order.
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	return load(koanf.New("."), path)
}

func load(k *koanf.Koanf, path string) (*Config, error) {
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps LINVOKE_REGISTRY__CHANNEL_BLOCK to registry.channel_block.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Registry.ChannelBlock <= 0:
		return &ValidationError{Key: "registry.channel_block", Message: "must be positive"}
	case c.Registry.HandlerBlock <= 0:
		return &ValidationError{Key: "registry.handler_block", Message: "must be positive"}
	case c.Registry.MaxChannels < 0:
		return &ValidationError{Key: "registry.max_channels", Message: "must not be negative"}
	case c.Registry.MaxHandlers < 0:
		return &ValidationError{Key: "registry.max_handlers", Message: "must not be negative"}
	case c.Watch.Debounce < 0:
		return &ValidationError{Key: "watch.debounce", Message: "must not be negative"}
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Key: "log.level", Message: err.Error()}
	}
	return nil
}

// RegistryOptions converts the registry section into event options.
func (c *Config) RegistryOptions(logger zerolog.Logger) []event.Option {
	return []event.Option{
		event.WithChannelBlock(c.Registry.ChannelBlock),
		event.WithHandlerBlock(c.Registry.HandlerBlock),
		event.WithMaxChannels(c.Registry.MaxChannels),
		event.WithMaxHandlers(c.Registry.MaxHandlers),
		event.WithLogger(logger),
	}
}
