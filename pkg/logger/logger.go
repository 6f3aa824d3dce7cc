package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Leveled logger shared by the service packages.
// - zap underneath, console encoding to stdout
// - optional rotating file output (lumberjack)
// - printf-style Debugf..Fatalf, structured Infow, and Init(level)

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar = build(os.Stdout)
)

// Option configures extra outputs for Init.
type Option func(*options)

type options struct {
	writers []io.Writer
}

// WithFile additionally writes to path, rotating at maxSizeMB and keeping
// maxBackups old files for at most maxAgeDays.
func WithFile(path string, maxSizeMB, maxBackups, maxAgeDays int) Option {
	return func(o *options) {
		o.writers = append(o.writers, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		})
	}
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string, opts ...Option) {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn", "warning":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	case "fatal":
		level.SetLevel(zapcore.FatalLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
	if len(opts) == 0 {
		return
	}
	o := options{writers: []io.Writer{os.Stdout}}
	for _, opt := range opts {
		opt(&o)
	}
	setOutput(o.writers...)
}

func build(writers ...io.Writer) *zap.SugaredLogger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:     "time",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.ISO8601TimeEncoder,
		EncodeLevel: zapcore.CapitalLevelEncoder,
	})
	syncers := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, w := range writers {
		syncers = append(syncers, zapcore.AddSync(w))
	}
	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(syncers...), level)
	return zap.New(core).Sugar()
}

func setOutput(writers ...io.Writer) {
	l := build(writers...)
	mu.Lock()
	sugar = l
	mu.Unlock()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Debugf(format string, v ...interface{}) { current().Debugf(format, v...) }
func Infof(format string, v ...interface{})  { current().Infof(format, v...) }
func Warnf(format string, v ...interface{})  { current().Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { current().Errorf(format, v...) }

// Fatalf logs and exits with status 1.
func Fatalf(format string, v ...interface{}) { current().Fatalf(format, v...) }

// Infow logs a message with structured key/value pairs.
func Infow(msg string, kv ...interface{}) { current().Infow(msg, kv...) }

// Sync flushes buffered output.
func Sync() error { return current().Sync() }

// LevelString returns the current level as text.
func LevelString() string {
	return level.Level().String()
}
