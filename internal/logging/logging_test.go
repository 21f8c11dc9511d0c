package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		verbosity int
		want      zerolog.Level
	}{
		{"configured warn", "warn", 0, zerolog.WarnLevel},
		{"one -v from warn", "warn", 1, zerolog.InfoLevel},
		{"two -v from warn", "warn", 2, zerolog.DebugLevel},
		{"clamped at trace", "warn", 9, zerolog.TraceLevel},
		{"large count stays at trace", "warn", 254, zerolog.TraceLevel},
		{"negative count ignored", "warn", -3, zerolog.WarnLevel},
		{"configured error", "error", 0, zerolog.ErrorLevel},
		{"unknown falls back to warn", "loud", 0, zerolog.WarnLevel},
		{"empty falls back to warn", "", 0, zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFor(tt.level, tt.verbosity))
		})
	}
}

func TestSetup(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	saved := log.Logger
	defer func() { log.Logger = saved }()

	var buf bytes.Buffer
	Setup(zerolog.InfoLevel, &buf)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	logger := GetLogger("test")
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"test"`)
	assert.Contains(t, out, `"message":"shown"`)
}

func TestLogOperationStart(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	done := LogOperationStart(zerolog.New(&buf), "run")
	done()

	out := buf.String()
	assert.Contains(t, out, "Operation started")
	assert.Contains(t, out, "Operation completed")
	assert.Contains(t, out, `"operation":"run"`)
}
