// Package cli implements the ontoviz command-line interface.
//
// # Commands
//
//   - layout: compute positions and hulls and write the payload as JSON
//   - render: write SVG, DOT, PNG, PDF or JSON artifacts
//   - watch: animate an iterative layout in the terminal
//   - serve: run the HTTP API
//   - completion: generate shell completion scripts
//
// Snapshots are read from JSON, YAML or TOML files, from stdin ("-"), or
// from MongoDB when the input is a mongodb:// URI.
//
// # Configuration
//
// Defaults come from an optional TOML file (--config, or
// ~/.config/ontoviz/config.toml) with [layout], [hull], [render], [source]
// and [server] tables. Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// also attached to the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps are short ("14:32:01.45")
// and debug output carries the caller.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    level <= log.DebugLevel,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a command and its stages. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

// stage logs the time spent since the previous stage at debug level.
func (p *progress) stage(name string, keyvals ...any) {
	now := time.Now()
	kv := append([]any{"stage", name, "took", now.Sub(p.last).Round(time.Millisecond)}, keyvals...)
	p.logger.Debug("stage complete", kv...)
	p.last = now
}

// done logs msg with the total elapsed time, e.g. "Rendered 2 format(s) (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command, or a
// logger that discards everything.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}
