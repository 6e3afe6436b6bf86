package log

import (
	"context"
	"io"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

type (
	Level      = zapcore.Level
	Field      = zap.Field
	Option     = zap.Option
	FilterFunc = zapfilter.FilterFunc
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

//nolint:gochecknoglobals // field helper aliases
var (
	String   = zap.String
	Bool     = zap.Bool
	Int      = zap.Int
	Int32    = zap.Int32
	Int64    = zap.Int64
	Uint     = zap.Uint
	Uint32   = zap.Uint32
	Uint64   = zap.Uint64
	Float32  = zap.Float32
	Float64  = zap.Float64
	Duration = zap.Duration
	Any      = zap.Any
)

// ErrorField is used instead of zap.Error to avoid a clash with our
// Logger.Error method.
func ErrorField(err error) Field { return zap.Error(err) }

func Time(key string, val time.Time) Field { return zap.Time(key, val) }

func WithCaller(enabled bool) Option { return zap.WithCaller(enabled) }

func AddCallerSkip(skip int) Option { return zap.AddCallerSkip(skip) }

// Logger wraps a zap.Logger with a replaceable filter. Loggers derived
// via Named share the filter of their parent, so filter rules loaded at
// runtime apply to the whole logger tree.
type Logger struct {
	l      *zap.Logger
	level  Level
	filter *atomic.Pointer[FilterFunc]
}

func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...Field) { l.l.Fatal(msg, fields...) }

func (l *Logger) Debugw(msg string, keysAndValues ...any) {
	l.l.Sugar().Debugw(msg, keysAndValues...)
}

func (l *Logger) Logw(lvl Level, msg string, keysAndValues ...any) {
	l.l.Sugar().Logw(lvl, msg, keysAndValues...)
}

func (l *Logger) Fatalf(template string, args ...any) {
	l.l.Sugar().Fatalf(template, args...)
}

func (l *Logger) Named(name string) *Logger {
	ret := *l
	ret.l = l.l.Named(name)
	return &ret
}

func (l *Logger) WithOptions(opts ...Option) *Logger {
	ret := *l
	ret.l = l.l.WithOptions(opts...)
	return &ret
}

// SetFilter replaces the active filter of this logger and all loggers
// derived from it.
func (l *Logger) SetFilter(f FilterFunc) {
	l.filter.Store(&f)
}

func (l *Logger) Sync() error { return l.l.Sync() }

// New creates a Logger writing JSON output to out. Messages below level
// are discarded unless a filter rule loaded later opens them up again.
func New(out io.Writer, level Level, opts ...Option) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.AddSync(out),
		zapcore.DebugLevel,
	)
	return newLogger(core, level, opts...)
}

// DevLogger creates a Logger with a console encoder suited for
// development.
func DevLogger(out io.Writer, level Level, opts ...Option) *Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(out),
		zapcore.DebugLevel,
	)
	return newLogger(core, level, opts...)
}

func newLogger(core zapcore.Core, level Level, opts ...Option) *Logger {
	filter := &atomic.Pointer[FilterFunc]{}
	initial := zapfilter.MinimumLevel(level)
	filter.Store(&initial)
	fc := zapfilter.NewFilteringCore(core,
		func(entry zapcore.Entry, fields []zapcore.Field) bool {
			return (*filter.Load())(entry, fields)
		})
	return &Logger{l: zap.New(fc, opts...), level: level, filter: filter}
}

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

//nolint:gochecknoglobals // std logger pattern
var std = DevLogger(os.Stderr, InfoLevel)

func Default() *Logger { return std }

// ResetDefault replaces the default logger used by the package level
// functions. Not safe for concurrent use.
func ResetDefault(l *Logger) {
	std = l
	Debug = std.Debug
	Info = std.Info
	Warn = std.Warn
	Error = std.Error
	Fatal = std.Fatal
	Fatalf = std.Fatalf
}

//nolint:gochecknoglobals // std logger pattern
var (
	Debug  = std.Debug
	Info   = std.Info
	Warn   = std.Warn
	Error  = std.Error
	Fatal  = std.Fatal
	Fatalf = std.Fatalf
)

type loggerCtxKey struct{}

func AddToContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

// GetFromContext returns the logger stored in ctx or the default logger.
func GetFromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return Default()
}
