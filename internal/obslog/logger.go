// Package obslog is a small structured, leveled logger used throughout
// this module. It mirrors the public shape of go.viam.com/rdk/logging
// (Level type, NewLogger/NewBlankLogger/NewTestLogger constructors,
// structured *w methods) since that package's implementation isn't
// available to vendor into this module, built instead on
// go.uber.org/zap, the way a production logger in this codebase is.
package obslog

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a logging severity, matching go.viam.com/rdk/logging's Level
// type's string/JSON round-trip behavior.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "Debug"
	case INFO:
		return "Info"
	case WARN:
		return "Warn"
	case ERROR:
		return "Error"
	default:
		return "Unknown"
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is the structured leveled logger interface passed to every
// exported constructor in this module.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

type logger struct {
	name   string
	sugar  *zap.SugaredLogger
	level  Level
}

// NewLogger returns a Logger named name, logging at INFO and above to
// stderr.
func NewLogger(name string) Logger {
	return newLogger(name, INFO, zapConfig(false).Build)
}

// NewLoggerAtLevel is NewLogger with an explicit minimum level, for hosts
// (such as a CLI) that expose log verbosity as a flag.
func NewLoggerAtLevel(name string, level Level) Logger {
	cfg := zapConfig(false)
	cfg.Level = zap.NewAtomicLevelAt(level.zapLevel())
	return newLogger(name, level, cfg.Build)
}

// NewBlankLogger returns a Logger named "blank" that discards everything
// below ERROR; used as the default when a caller passes a nil Logger.
func NewBlankLogger() Logger {
	cfg := zapConfig(false)
	cfg.Level = zap.NewAtomicLevelAt(ERROR.zapLevel())
	return newLogger("blank", ERROR, cfg.Build)
}

// NewTestLogger returns a Logger that writes through tb.Log, for use in
// _test.go files (go.viam.com/rdk/logging.NewTestLogger's role in the
// teacher's tests).
func NewTestLogger(tb testing.TB) Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(testWriter{tb}),
		zapcore.DebugLevel,
	)
	return &logger{name: tb.Name(), sugar: zap.New(core).Sugar(), level: DEBUG}
}

type testWriter struct{ tb testing.TB }

func (w testWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(string(p))
	return len(p), nil
}

func zapConfig(development bool) zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.Development = development
	return cfg
}

func newLogger(name string, level Level, build func(...zap.Option) (*zap.Logger, error)) Logger {
	z, err := build()
	if err != nil {
		z = zap.NewNop()
	}
	return &logger{name: name, sugar: z.Sugar().Named(name), level: level}
}

func (l *logger) Debugw(msg string, keysAndValues ...interface{}) { l.sugar.Debugw(msg, keysAndValues...) }
func (l *logger) Infow(msg string, keysAndValues ...interface{})  { l.sugar.Infow(msg, keysAndValues...) }
func (l *logger) Warnw(msg string, keysAndValues ...interface{})  { l.sugar.Warnw(msg, keysAndValues...) }
func (l *logger) Errorw(msg string, keysAndValues ...interface{}) { l.sugar.Errorw(msg, keysAndValues...) }
