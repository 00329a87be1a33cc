package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/log/writer"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestLog(t *testing.T) {
	logger := New()
	logger.Debug().Msg("test debug message")
	logger.Info().Str("key", "value").Msg("test info with field")
	logger.Error().Err(errors.Format("test")).Msg("test error")
}

func TestGlobalLog(t *testing.T) {
	old := G
	defer SetGlobalLogger(old)

	require.NotNil(t, G.GetDesensitizeHook())
	assert.Positive(t, G.GetDesensitizeHook().RuleCount())

	var buf bytes.Buffer
	SetGlobalLogger(NewWriter(&buf, WithLevel(zerolog.InfoLevel)))
	SetGlobalLogger(nil)

	Component("emitter").Debug().Msg("hidden")
	Component("emitter").Info().Msg("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
	assert.Equal(t, "emitter", lines[0]["component"])
}

func TestNewWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, WithLevel(zerolog.WarnLevel))

	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["message"])
	assert.Contains(t, lines[0], "time")
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf).Component("location")

	logger.Info().Msg("rotated")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "location", lines[0]["component"])
}

func TestKeyMaterialIsRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, WithDesensitize(desensitizeHookForTest()))

	ltKey := strings.Repeat("ab", 32)
	logger.Debug().
		Str("ltkey", ltKey).
		Str("phone", "0612345678").
		Str("pin", "012345").
		Msg("derived " + strings.Repeat("0f", 32))

	out := buf.String()
	assert.NotContains(t, out, ltKey)
	assert.NotContains(t, out, "012345")
	assert.Contains(t, out, `"ltkey":"******"`)
	assert.Contains(t, out, `"phone":"06******78"`)
	assert.Contains(t, out, `"pin":"******"`)
	assert.Contains(t, out, "derived [REDACTED]")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	level, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	_, err = ParseLevel("verbose")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestNewFromConfig(t *testing.T) {
	logger, err := NewFromConfig(Config{Level: "warn", Output: OutputConsole})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	assert.NotNil(t, logger.GetDesensitizeHook())

	_, err = NewFromConfig(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestFileLog(t *testing.T) {
	config := FileConfig{
		Filepath:   t.TempDir(),
		RotateMode: writer.RotateModeSize,
		Filename:   "test",
		FileExt:    "log",
		LumberjackConfig: LumberjackConfig{
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}

	logger, err := NewFile(config)
	require.NoError(t, err)
	defer logger.Close()

	logger.Info().Msg("test file log")
}

func TestMultiLog(t *testing.T) {
	config := FileConfig{
		Filepath:   t.TempDir(),
		RotateMode: writer.RotateModeTime,
		Filename:   "multi",
		FileExt:    "log",
		RotatelogsConfig: RotatelogsConfig{
			MaxAge:       24,
			RotationTime: 1,
		},
	}

	logger, err := NewMulti(config)
	require.NoError(t, err)
	defer logger.Close()

	logger.Info().Str("type", "multi").Msg("test multi output log")
}

func TestParseRotateMode(t *testing.T) {
	var mode writer.RotateMode
	require.NoError(t, mode.UnmarshalText([]byte("size")))
	assert.Equal(t, writer.RotateModeSize, mode)

	_, err := writer.ParseRotateMode("weekly")
	assert.Error(t, err)
}
