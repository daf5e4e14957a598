// Package logging builds the application logger and the session event log.
// The application logger carries technical detail that is never spoken; the
// session log is an append-only record of command cycles, written by exactly
// one goroutine and never read back by the core.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. With verbose set the level drops to
// debug. When file is non-empty, output goes there as well as stderr.
func New(level, file string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if file != "" {
		cfg.OutputPaths = []string{"stderr", file}
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SessionLog appends timestamped cycle events to a file as JSON lines.
type SessionLog struct {
	logger *zap.Logger
	file   *os.File
}

// OpenSessionLog opens (or creates) the append-only session log at path.
func OpenSessionLog(path string) (*SessionLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open session log %s: %w", path, err)
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(f), zapcore.InfoLevel)
	return &SessionLog{logger: zap.New(core), file: f}, nil
}

// Event appends one event with structured fields.
func (s *SessionLog) Event(kind string, fields ...zap.Field) {
	if s == nil {
		return
	}
	s.logger.Info(kind, fields...)
}

// Close flushes and closes the underlying file.
func (s *SessionLog) Close() error {
	if s == nil {
		return nil
	}
	_ = s.logger.Sync()
	return s.file.Close()
}
