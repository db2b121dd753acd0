package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the process logger. Logs go to stderr, plus a rotating
// file when --log-file is set. The returned closer flushes the file.
func newLogger(stderr io.Writer, flags rootFlags) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}

	out := stderr
	var closer io.Closer

	if flags.logFile != "" {
		file := &lumberjack.Logger{
			Filename:   flags.logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		out = io.MultiWriter(stderr, file)
		closer = file
	}

	var handler slog.Handler

	switch flags.logFormat {
	case "json":
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	case "text":
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	case "pretty":
		handler = tint.NewHandler(out, &tint.Options{Level: level})
	case "":
		if f, ok := stderr.(*os.File); ok && flags.logFile == "" && isatty.IsTerminal(f.Fd()) {
			handler = tint.NewHandler(out, &tint.Options{Level: level})
		} else {
			handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
		}
	default:
		return nil, nil, fmt.Errorf("invalid log format: %s", flags.logFormat)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger, closer, nil
}
