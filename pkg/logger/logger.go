package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger so components can take it as a dependency
type Logger struct {
	*zap.Logger
}

var (
	global   = &Logger{Logger: zap.NewNop()}
	globalMu sync.RWMutex
)

// New builds a JSON logger at the given level (debug, info, warn, error)
func New(level string) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// CLI output goes to stdout, logs stay on stderr
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: z}, nil
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Wrap adapts an existing zap logger (e.g. zaptest or observer cores in tests)
func Wrap(z *zap.Logger) *Logger {
	return &Logger{Logger: z}
}

// Named returns a child logger scoped to a component
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name)}
}

// With returns a child logger with extra fields
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

// Init sets the package-level logger. Falls back to a no-op logger if the
// zap config cannot be built.
func Init(level string) *Logger {
	l, err := New(level)
	if err != nil {
		l = NewNop()
	}
	SetGlobal(l)
	return l
}

// SetGlobal replaces the package-level logger
func SetGlobal(l *Logger) {
	if l == nil {
		l = NewNop()
	}
	globalMu.Lock()
	global = l
	globalMu.Unlock()
}

// L returns the package-level logger
func L() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// Sync flushes the package-level logger
func Sync() {
	_ = L().Sync()
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { L().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { L().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
