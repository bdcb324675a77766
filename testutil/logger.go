// Package testutil provides a zap-backed rio.Logger for tests that want to
// observe or silence the runtime's own diagnostic logging -- in particular
// the per-task and per-worker events internal/worker and internal/registry
// emit as they schedule and execute work.
package testutil

import (
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestLogger implements rio.Logger on top of a *zap.Logger, adding the
// Trace and Verbo levels zap does not have natively. internal/registry and
// internal/worker use exactly those two levels for their highest-volume,
// most granular scheduling events -- task submission and per-task
// invocation -- so a test that wants quiet output most of the time but the
// option to inspect that detail on demand routes them through a second,
// independently levelled logger rather than the primary one.
type TestLogger struct {
	*zap.Logger
	traceVerboseLogger *zap.Logger
}

// Intercept attaches hook to every subsequent log entry, including ones
// emitted through Trace and Verbo. Useful for asserting that the runtime's
// own logging surfaced a particular worker or task ID -- for example, that
// a worker logged which task it was executing when a kernel panicked.
func (t *TestLogger) Intercept(hook func(entry zapcore.Entry) error) {
	logger := t.Logger.WithOptions(zap.Hooks(hook))
	t.Logger = logger
	t.traceVerboseLogger = t.traceVerboseLogger.WithOptions(zap.Hooks(hook))
}

// Silence raises the logger's level to Fatal, dropping every scheduling
// event a noisy test would otherwise print, while preserving any hook
// already installed by Intercept.
func (t *TestLogger) Silence() {
	atomicLevel := zap.NewAtomicLevelAt(zapcore.FatalLevel)
	core := t.Logger.Core()
	t.Logger = zap.New(core, zap.AddCaller(), zap.IncreaseLevel(atomicLevel))
	t.traceVerboseLogger = zap.New(core, zap.AddCaller(), zap.IncreaseLevel(atomicLevel))
}

func (tl *TestLogger) Trace(msg string, fields ...zap.Field) {
	tl.traceVerboseLogger.Log(zapcore.DebugLevel, msg, fields...)
}

func (tl *TestLogger) Verbo(msg string, fields ...zap.Field) {
	tl.traceVerboseLogger.Log(zapcore.DebugLevel, msg, fields...)
}

// MakeLogger builds a TestLogger that writes to stdout, labeled with the
// test's name and, if given, the ID of the worker it will be handed to
// (internal/worker.New takes one Logger per worker instance, so tests
// running several workers side by side can tell their log lines apart).
func MakeLogger(t *testing.T, worker ...int) *TestLogger {
	defaultEncoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	config := defaultEncoderConfig
	config.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(strings.ToUpper(l.String()))
	}
	config.EncodeTime = zapcore.TimeEncoderOfLayout("[01-02|15:04:05.000]")
	config.ConsoleSeparator = " "
	encoder := zapcore.NewConsoleEncoder(config)

	atomicLevel := zap.NewAtomicLevelAt(zapcore.DebugLevel)

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), atomicLevel)

	logger := zap.New(core, zap.AddCaller())
	logger = logger.With(zap.String("test", t.Name()))
	if len(worker) > 0 {
		logger = logger.With(zap.Int("worker", worker[0]))
	}

	traceVerboseLogger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	traceVerboseLogger = traceVerboseLogger.With(zap.String("test", t.Name()))

	if len(worker) > 0 {
		traceVerboseLogger = traceVerboseLogger.With(zap.Int("worker", worker[0]))
	}

	l := &TestLogger{Logger: logger, traceVerboseLogger: traceVerboseLogger}

	return l
}
