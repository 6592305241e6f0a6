package main

import (
	"io"

	"github.com/graph-guard/omap/pkg/config"
	"github.com/phuslu/log"
)

// newLogger creates a logger writing to w, tagged with the command name.
// An empty level falls back to config.DefaultLogLevel.
func newLogger(w io.Writer, level, command string) log.Logger {
	if level == "" {
		level = config.DefaultLogLevel
	}
	l := log.Logger{
		Level:  log.ParseLevel(level),
		Writer: &log.IOWriter{Writer: w},
	}
	l.Context = log.NewContext(nil).
		Str("command", command).
		Value()
	return l
}
