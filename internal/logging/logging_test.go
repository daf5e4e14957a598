package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"nonsense", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseLevel(tc.in), "parseLevel(%q)", tc.in)
	}
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	logger, err := New("error", "", true)
	require.NoError(t, err)
	defer func() { _ = logger.Sync() }()

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := New("info", path, false)
	require.NoError(t, err)

	logger.Info("started", zap.String("component", "test"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "started")
}

func TestSessionLog_AppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")

	session, err := OpenSessionLog(path)
	require.NoError(t, err)
	session.Event("command_received", zap.String("utterance", "what time is it"))
	session.Event("result", zap.Int("spoken_chars", 24))
	require.NoError(t, session.Close())

	// Reopen: the log must append, not truncate.
	session, err = OpenSessionLog(path)
	require.NoError(t, err)
	session.Event("command_received", zap.String("utterance", "goodbye"))
	require.NoError(t, session.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var kinds []string
	for _, line := range splitLines(data) {
		var event map[string]any
		require.NoError(t, json.Unmarshal(line, &event), "line %s", line)
		kinds = append(kinds, event["msg"].(string))
		assert.Contains(t, event, "ts")
	}
	assert.Equal(t, []string{"command_received", "result", "command_received"}, kinds)
}

func TestSessionLog_NilIsSafe(t *testing.T) {
	t.Parallel()

	var session *SessionLog
	session.Event("ignored")
	assert.NoError(t, session.Close())
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			if i > start {
				lines = append(lines, data[start:i])
			}
			start = i + 1
		}
	}
	return lines
}
