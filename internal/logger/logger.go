package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/samvad-hq/samvad-rest-facade/internal/config"
)

// Logger wraps a zap SugaredLogger with the object logging helpers every package's
// Logger interface is built from.
type Logger struct {
	S     *zap.SugaredLogger
	level zapcore.Level
}

// New initializes a JSON logger writing to stdout using settings from config.
func New(cfg *config.Config) (*Logger, error) {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg *config.Config, w io.Writer) (*Logger, error) {
	level := parseLevel("")
	if cfg != nil {
		level = parseLevel(cfg.LogLevel)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(zapcore.AddSync(w))),
		level,
	)

	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	if cfg != nil && cfg.AppName != "" {
		base = base.With(zap.String("app", cfg.AppName), zap.String("env", cfg.Env))
	}
	return &Logger{S: base.Sugar(), level: level}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{S: zap.NewNop().Sugar(), level: zapcore.FatalLevel}
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Close flushes any buffered entries.
func (l *Logger) Close() error {
	if l == nil || l.S == nil {
		return nil
	}
	return l.S.Sync()
}

// DebugEnabled reports whether debug records are written, so callers can skip
// building expensive payloads.
func (l *Logger) DebugEnabled() bool {
	return l != nil && l.level.Enabled(zapcore.DebugLevel)
}

// Minimal object logging helpers -------------------------------------------------
// These log the given object as a single structured field named `key`.
func (l *Logger) InfoObj(msg, key string, obj interface{}) {
	if l == nil {
		return
	}
	l.S.Desugar().Info(msg, zap.Any(key, obj))
}

func (l *Logger) DebugObj(msg, key string, obj interface{}) {
	if l == nil {
		return
	}
	l.S.Desugar().Debug(msg, zap.Any(key, obj))
}

func (l *Logger) WarnObj(msg, key string, obj interface{}) {
	if l == nil {
		return
	}
	l.S.Desugar().Warn(msg, zap.Any(key, obj))
}

func (l *Logger) ErrorObj(msg, key string, obj interface{}) {
	if l == nil {
		return
	}
	l.S.Desugar().Error(msg, zap.Any(key, obj))
}
