// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vtex

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// splitHandler is the default slog.Handler: records below slog.LevelError
// go to stdout, slog.LevelError and above go to stderr. This matches
// spec.md §6's default log callback ("writes comments/warnings to standard
// output, errors to standard error") while keeping the same
// atomic-pointer-swappable logger shape as the teacher's nopHandler.
type splitHandler struct {
	out, err slog.Handler
}

func newSplitHandler() splitHandler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	return splitHandler{
		out: slog.NewTextHandler(os.Stdout, opts),
		err: slog.NewTextHandler(os.Stderr, opts),
	}
}

func (h splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.out.Enabled(ctx, level)
}

func (h splitHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return h.err.Handle(ctx, r)
	}
	return h.out.Handle(ctx, r)
}

func (h splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return splitHandler{out: h.out.WithAttrs(attrs), err: h.err.WithAttrs(attrs)}
}

func (h splitHandler) WithGroup(name string) slog.Handler {
	return splitHandler{out: h.out.WithGroup(name), err: h.err.WithGroup(name)}
}

func newDefaultLogger() *slog.Logger { return slog.New(newSplitHandler()) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine
// (workers log soft IO failures from PageFile.loadPage).
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newDefaultLogger())
}

// SetLogger configures the logger used by vtex and its sub-packages
// (gputex, cmd/vtffbuild). By default, comments and warnings go to
// standard output and errors go to standard error, per spec.md §6. Pass
// nil to restore that default.
//
// Log levels used by vtex:
//   - [slog.LevelInfo]: lifecycle events (VirtualTexture registration,
//     VTFF page file open/close) and cmd/vtffbuild's --verbose progress
//   - [slog.LevelWarn]: soft page-load failures that keep the pipeline
//     live (VTFF and unpacked page lookup/seek/read/decode errors)
//
// Nothing is logged at [slog.LevelDebug] or [slog.LevelError]: refused
// and dropped requests are counted in PageProvider.Stats and
// PageCacheMgr.Stats rather than logged, purges are not logged, and
// configuration and file-format errors are returned to the caller.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newDefaultLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by vtex. Sub-packages call this
// to share the same logger configuration without an import cycle.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
