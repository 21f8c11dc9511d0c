package examples

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/linvoke/internal/event"
)

func TestExamples_Output(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"hello-world", "" +
			"PORT: 123\tDATA: (null)\n" +
			"PORT: 12\tDATA: Hey string!\n" +
			"PORT: 80\tDATA: 15\n" +
			"PORT: 7658\tDATA: key = 46, value = 3.140000\n" +
			"PORT: 4444\tDATA: Hello from multi node!\n" +
			"PORT: 4444\tDATA: 168\n" +
			"PORT: 4444\tDATA: key = 156, value = 0.369000\n"},
		{"simple-event", "ID of the port that emitted this event: 1358\n"},
		{"event-with-data", "Port ID: 123\tData: Hello, World!\n"},
		{"event-with-data-override", "Port ID: 123\tData: Hello from the overriden data!\n"},
		{"multi-node", "Hello from node_callback1\nHello from node_callback2\n"},
		{"multi-slot", "Hello from slot1\nHello from slot2\nHello from slot3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Lookup(tt.name)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, e.Run(&buf, event.WithLogger(zerolog.Nop())))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 6)
	assert.Equal(t, "event-with-data", all[0].Name)
	for _, e := range all {
		assert.NotEmpty(t, e.Description)
		assert.NotNil(t, e.Run)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownExample)
}

func TestExamples_RegistryLimits(t *testing.T) {
	var buf bytes.Buffer
	err := HelloWorld(&buf, event.WithMaxChannels(2), event.WithLogger(zerolog.Nop()))
	assert.ErrorIs(t, err, event.ErrAllocationFailure)
	assert.Empty(t, buf.String())
}
