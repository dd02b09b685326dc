// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logging builds the process-wide structured logger.
//
// Logs are JSON (log/slog) on stdout. When a log file is configured the same
// records are mirrored into a size-rotated file managed by lumberjack.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation policy for the optional log file.
const (
	maxSizeMB  = 50
	maxBackups = 5
	maxAgeDays = 14
)

// Options controls the logger built by [New].
type Options struct {
	// App is attached to every record as the "app" attribute.
	App string
	// Debug lowers the level to slog.LevelDebug.
	Debug bool
	// File enables rotated file output in addition to stdout.
	File string
	// Stdout overrides the console writer; nil means os.Stdout.
	Stdout io.Writer
}

// New builds the logger and returns a closer for the file sink (a no-op when
// no file is configured).
func New(options Options) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if options.Debug {
		level = slog.LevelDebug
	}

	console := options.Stdout
	if console == nil {
		console = os.Stdout
	}

	writer := console
	var closer io.Closer = nopCloser{}

	if options.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   options.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		writer = io.MultiWriter(console, fileWriter)
		closer = fileWriter
	}

	logger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level}))
	if options.App != "" {
		logger = logger.With(slog.String("app", options.App))
	}

	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
