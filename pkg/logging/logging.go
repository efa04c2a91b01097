package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"docqa/pkg/config"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace sits below debug and is used for prompt and payload dumps.
const LevelTrace = slog.LevelDebug - 4

const defaultLogFile = "docqa.log"

// Rotation limits for the log file.
const (
	rotateSizeMB  = 5
	rotateBackups = 5
	rotateAgeDays = 14
)

// Init points the default slog logger at a rotating log file. Every record
// carries the session id of this run. If the log directory cannot be created
// logs are discarded and the error is returned.
func Init(cfg config.Config) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{
		Level:       ParseLevel(cfg.LogLevel),
		ReplaceAttr: traceLevelName,
	}

	out, err := openLogFile(cfg.LogFile)
	if err != nil {
		out = io.Discard
	}
	logger := slog.New(newHandler(cfg.LogFormat, out, opts)).
		With(slog.String("session_id", uuid.NewString()))
	slog.SetDefault(logger)
	return logger, err
}

func openLogFile(path string) (io.Writer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join(config.GetConfigDir(), "logs", defaultLogFile)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotateSizeMB,
		MaxBackups: rotateBackups,
		MaxAge:     rotateAgeDays,
		Compress:   true,
	}, nil
}

// Trace logs at LevelTrace on the default logger.
func Trace(ctx context.Context, msg string, args ...any) {
	slog.Default().Log(ctx, LevelTrace, msg, args...)
}

var levelNames = map[string]slog.Level{
	"trace":   LevelTrace,
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLevel maps a config string to a slog level. Unknown values mean info.
func ParseLevel(level string) slog.Level {
	if lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(level))]; ok {
		return lvl
	}
	return slog.LevelInfo
}

func traceLevelName(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}
