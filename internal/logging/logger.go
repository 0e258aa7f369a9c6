package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the diagnostic sink shared by every component.
// A disabled Logger discards everything.
type Logger struct {
	sugar   *zap.SugaredLogger
	enabled bool
}

// Options controls how New builds the underlying zap logger
type Options struct {
	Enabled bool
	Verbose bool   // log at debug level
	Path    string // output file; empty means stderr
}

// New builds a Logger. When opts.Enabled is false the result is a no-op logger.
func New(opts Options) (*Logger, error) {
	if !opts.Enabled {
		return Nop(), nil
	}

	config := zap.NewDevelopmentConfig()
	config.DisableStacktrace = true
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, fmt.Errorf("error creating log directory: %w", err)
		}
		config.OutputPaths = []string{opts.Path}
		config.ErrorOutputPaths = []string{opts.Path}
	}

	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &Logger{sugar: l.Sugar(), enabled: true}, nil
}

// Nop returns a disabled Logger
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// FromZap wraps an existing zap logger, mostly for tests using zaptest/observer
func FromZap(l *zap.Logger) *Logger {
	return &Logger{sugar: l.Sugar(), enabled: true}
}

// Enabled reports whether anything is written
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

// Log writes an informational diagnostic
func (l *Logger) Log(msg string, keysAndValues ...interface{}) {
	if !l.Enabled() {
		return
	}
	l.sugar.Infow(msg, keysAndValues...)
}

// Debug writes a diagnostic visible only in verbose mode
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if !l.Enabled() {
		return
	}
	l.sugar.Debugw(msg, keysAndValues...)
}

// Error writes an error diagnostic
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	if !l.Enabled() {
		return
	}
	l.sugar.Errorw(msg, keysAndValues...)
}

// Sync flushes buffered output
func (l *Logger) Sync() {
	if !l.Enabled() {
		return
	}
	_ = l.sugar.Sync()
}
