// Package log wraps zap for kprove's packages. There is no package-level
// global logger: the prover and the client each take a *Logger as a
// constructor argument, the same way internal/parallel's
// WorkerPool takes its configuration explicitly rather than reaching for
// ambient state.
package log

import (
	"go.uber.org/zap"
)

// Logger is a thin wrapper around zap's SugaredLogger, narrowing the
// surface kprove's packages actually use (leveled logging with key/value
// fields) so callers don't need to depend on zap's own types directly.
type Logger struct {
	s *zap.SugaredLogger
}

// New builds a production logger (JSON encoding, info level) or, when
// debug is true, a development logger (console encoding, debug level).
func New(debug bool) (*Logger, error) {
	var zl *zap.Logger
	var err error
	if debug {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return &Logger{s: zl.Sugar()}, nil
}

// Noop returns a Logger that discards everything, for tests and replayer
// runs that don't want log output.
func Noop() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

// With returns a child logger with the given key/value pairs attached to
// every subsequent entry.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{s: l.s.With(kv...)}
}

func (l *Logger) Debugw(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l *Logger) Infow(msg string, kv ...any)  { l.s.Infow(msg, kv...) }
func (l *Logger) Warnw(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }
func (l *Logger) Errorw(msg string, kv ...any) { l.s.Errorw(msg, kv...) }

// Sync flushes any buffered log entries. Callers should defer it in main;
// the error is intentionally discarded in that position (stderr/stdout
// sync failures on shutdown are not actionable).
func (l *Logger) Sync() error { return l.s.Sync() }
