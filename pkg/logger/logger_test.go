package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "kept", line["message"])
	assert.NotEmpty(t, line["time"])
}

func TestNewWithWriter_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("verbose", &buf)

	log.Debug().Msg("below info")
	log.Info().Msg("at info")

	assert.NotContains(t, buf.String(), "below info")
	assert.Contains(t, buf.String(), "at info")
}

func TestNewWithWriter_LevelIsCaseInsensitive(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("ERROR", &buf)

	log.Warn().Msg("suppressed")
	log.Error().Msg("emitted")

	assert.NotContains(t, buf.String(), "suppressed")
	assert.Contains(t, buf.String(), "emitted")
}
