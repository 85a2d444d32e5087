package app

import (
	"fmt"
	"io"
	"log/slog"
)

// newLogger builds the run logger. Text output drops the timestamp so
// progress lines read like a script's output; JSON keeps it for log
// shipping. An empty level means info.
func newLogger(levelStr, formatStr string, outW io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if levelStr != "" {
		if err := level.UnmarshalText([]byte(levelStr)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", levelStr, err)
		}
	}

	switch formatStr {
	case "json":
		return slog.New(slog.NewJSONHandler(outW, &slog.HandlerOptions{Level: level})), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(outW, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: dropTime,
		})), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", formatStr)
	}
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
