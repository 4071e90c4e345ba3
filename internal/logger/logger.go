package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/loonghao/auroraview-sub000/internal/env"
	"github.com/loonghao/auroraview-sub000/internal/envvar"
	"github.com/loonghao/auroraview-sub000/internal/xfs"
)

// Options controls logger construction.
type Options struct {
	// LogToFile mirrors log output into a rotated file.
	LogToFile bool

	// LogFile is the rotated log file path. Defaults to "logs/auroraview.log".
	LogFile string

	// Level overrides the level derived from AURORAVIEW_LOG_LEVEL.
	Level slog.Leveler
}

// Option mutates Options.
type Option func(*Options)

// WithLogToFile enables or disables file logging.
func WithLogToFile(enabled bool) Option {
	return func(o *Options) { o.LogToFile = enabled }
}

// WithLogFile sets the log file path.
func WithLogFile(path string) Option {
	return func(o *Options) { o.LogFile = path }
}

// WithLevel sets an explicit minimum level.
func WithLevel(level slog.Leveler) Option {
	return func(o *Options) { o.Level = level }
}

// New builds a logger for the given environment. Development gets a
// colorized tint handler on stderr; production gets JSON. When file
// logging is enabled, output also goes to a size-rotated file.
func New(environment env.Environment, opts ...Option) *slog.Logger {
	options := Options{
		LogFile: "logs/auroraview.log",
	}
	for _, opt := range opts {
		opt(&options)
	}

	level := options.Level
	if level == nil {
		level = LevelFromEnv()
	}

	var w io.Writer = os.Stderr
	if options.LogToFile {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   xfs.ExpandTilde(options.LogFile),
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	var handler slog.Handler
	if environment.IsDevelopment() {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// LevelFromEnv derives the minimum log level from AURORAVIEW_LOG_LEVEL.
// Invalid or empty values fall back to info.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv(envvar.AuroraViewLogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
