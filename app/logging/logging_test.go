package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := Setup("warn", "json", &buf)
		require.NoError(t, err)

		logger.Info().Msg("hidden")
		logger.Warn().Str("key", "value").Msg("shown")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "warn", entry["level"])
		assert.Equal(t, "shown", entry["message"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("console output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := Setup("INFO", "console", &buf)
		require.NoError(t, err)
		logger.Info().Msg("hello")
		assert.Contains(t, buf.String(), "hello")
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := Setup("loud", "json", nil)
		assert.Error(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := Setup("info", "xml", nil)
		assert.Error(t, err)
	})
}

func TestBadgerLogger(t *testing.T) {
	var buf bytes.Buffer
	bl := BadgerLogger{Logger: zerolog.New(&buf).Level(zerolog.WarnLevel)}

	bl.Infof("opening %s\n", "db")
	assert.Empty(t, buf.String())

	bl.Errorf("failed %d times\n", 3)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "badger", entry["component"])
	assert.Equal(t, "failed 3 times", entry["message"])
}
