package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/samvad-rest-facade/internal/config"
)

func TestLoggerWritesJSONObjects(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&config.Config{AppName: "svc", Env: "test", LogLevel: "info"}, &buf)
	require.NoError(t, err)

	log.InfoObj("http call response", "response", map[string]any{"status": 200})
	log.DebugObj("hidden", "x", 1)
	require.NoError(t, log.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "http call response", entry["msg"])
	assert.Equal(t, "svc", entry["app"])
	assert.Contains(t, entry, "ts")
	assert.Equal(t, map[string]any{"status": float64(200)}, entry["response"])
}

func TestDebugEnabledFollowsLevel(t *testing.T) {
	var buf bytes.Buffer
	debug, err := NewWithWriter(&config.Config{LogLevel: "DEBUG"}, &buf)
	require.NoError(t, err)
	assert.True(t, debug.DebugEnabled())

	info, err := NewWithWriter(&config.Config{LogLevel: "bogus"}, &buf)
	require.NoError(t, err)
	assert.False(t, info.DebugEnabled())

	assert.False(t, Nop().DebugEnabled())
	var nilLogger *Logger
	assert.False(t, nilLogger.DebugEnabled())
	nilLogger.ErrorObj("ignored", "k", nil)
}
