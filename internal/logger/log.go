package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"coachloop/internal/config"

	"github.com/gin-gonic/gin"
	"gopkg.in/lumberjack.v2"
)

// Init installs the process-wide JSON logger. Records go to stdout, the rotated file, or
// both; every record carries app=coachloop and a UTC timestamp.
func Init(cfg config.LogConfig) {
	slog.SetDefault(slog.New(newHandler(sinks(cfg), parseLevel(cfg.Level))))
	Info("logger.ready", "level", cfg.Level, "file", cfg.File, "console", cfg.Console)
}

func sinks(cfg config.LogConfig) io.Writer {
	var out []io.Writer
	if cfg.Console || cfg.File == "" {
		out = append(out, os.Stdout)
	}
	if cfg.File != "" {
		out = append(out, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}
	return io.MultiWriter(out...)
}

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				a.Value = slog.TimeValue(a.Value.Time().UTC())
			}
			return a
		},
	})
	return h.WithAttrs([]slog.Attr{slog.String("app", "coachloop")})
}

func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }
func Debug(msg string, args ...any) { slog.Debug(msg, args...) }

// GinMiddleware replaces gin's text logger with one slog record per request.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if uid, ok := c.Get("user_id"); ok {
			args = append(args, "uid", uid)
		}
		slog.Log(c.Request.Context(), statusLevel(c.Writer.Status()), "http.request", args...)
	}
}

func statusLevel(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
