package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := New("debug", &buf, false)
	logger.Debug().Str("path", "movies").Msg("collection resolved")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "debug", event["level"])
	assert.Equal(t, "movies", event["path"])
	assert.Equal(t, "collection resolved", event["message"])
	assert.Contains(t, event, "time")
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer

	logger := New("warn", &buf, false)
	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_UnknownLevelFallsBack(t *testing.T) {
	assert.Equal(t, DefaultLevel, New("loud", &bytes.Buffer{}, false).GetLevel())
	assert.Equal(t, DefaultLevel, New("", &bytes.Buffer{}, false).GetLevel())
	assert.Equal(t, zerolog.TraceLevel, New("trace", &bytes.Buffer{}, false).GetLevel())
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer

	logger := New("info", &buf, true)
	logger.Info().Str("path", "movies").Msg("generated")

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "generated")
	assert.Contains(t, out, "path=movies")
}
