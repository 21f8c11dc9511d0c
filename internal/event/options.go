package event

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Default growth blocks.
const (
	DefaultChannelBlock = 8
	DefaultHandlerBlock = 16
)

// Option configures a Registry.
type Option func(*config)

// config contains configuration for a registry.
type config struct {
	// channelBlock is the fixed capacity step for channel storage.
	channelBlock int

	// handlerBlock is the fixed capacity step for each channel's handler storage.
	handlerBlock int

	// maxChannels bounds channel storage. Zero means unbounded.
	maxChannels int

	// maxHandlers bounds each channel's handler storage. Zero means unbounded.
	maxHandlers int

	// logger receives diagnostics for rejected operations.
	logger zerolog.Logger
}

// defaultConfig returns the default registry configuration.
func defaultConfig() config {
	return config{
		channelBlock: DefaultChannelBlock,
		handlerBlock: DefaultHandlerBlock,
		logger:       log.Logger.With().Str("component", "event").Logger(),
	}
}

// WithChannelBlock sets how many channel slots are added on each growth.
func WithChannelBlock(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.channelBlock = n
		}
	}
}

// WithHandlerBlock sets how many handler slots are added on each growth of a
// channel's handler list.
func WithHandlerBlock(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.handlerBlock = n
		}
	}
}

// WithMaxChannels limits the number of channels. Registrations past the
// limit fail with ErrAllocationFailure.
func WithMaxChannels(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxChannels = n
		}
	}
}

// WithMaxHandlers limits the number of handlers per channel. Attaches past
// the limit fail with ErrAllocationFailure.
func WithMaxHandlers(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxHandlers = n
		}
	}
}

// WithLogger sets the logger used as the registry's diagnostic channel.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
