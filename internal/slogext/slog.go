// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slogext provides slog helpers.
package slogext

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/kortschak/goroutine"
)

// GoID is a slog.Handler that adds the calling goroutine's goid.
type GoID struct {
	slog.Handler
}

func (h GoID) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(slog.Int64("goid", goroutine.ID()))
	return h.Handler.Handle(ctx, r)
}

func (h GoID) WithAttrs(attrs []slog.Attr) slog.Handler {
	return GoID{h.Handler.WithAttrs(attrs)}
}

func (h GoID) WithGroup(name string) slog.Handler {
	return GoID{h.Handler.WithGroup(name)}
}

// JSONHandler is a slog.Handler that writes Records to an io.Writer as
// line-delimited JSON objects. It differs from the standard library JSONHandler
// by allowing alteration of the AddSource behaviour after construction.
type JSONHandler struct {
	addSource     *atomic.Bool
	withSource    *slog.JSONHandler
	withoutSource *slog.JSONHandler
}

// NewJSONHandler creates a JSONHandler that writes to w, using the given
// options.
// If opts is nil, the default options are used.
func NewJSONHandler(w io.Writer, opts *HandlerOptions) *JSONHandler {
	if opts == nil {
		opts = &HandlerOptions{}
	}
	if opts.AddSource == nil {
		opts.AddSource = &atomic.Bool{}
	}
	return &JSONHandler{
		addSource: opts.AddSource,
		withSource: slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   true,
			Level:       opts.Level,
			ReplaceAttr: opts.ReplaceAttr,
		}),
		withoutSource: slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   false,
			Level:       opts.Level,
			ReplaceAttr: opts.ReplaceAttr,
		}),
	}
}

// Enabled reports whether the handler handles records at the given level.
// The handler ignores records whose level is lower.
func (h *JSONHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.withSource.Enabled(ctx, level)
}

// WithAttrs returns a new JSONHandler whose attributes consists
// of h's attributes followed by attrs.
func (h *JSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &JSONHandler{
		addSource:     h.addSource,
		withSource:    h.withSource.WithAttrs(attrs).(*slog.JSONHandler),
		withoutSource: h.withoutSource.WithAttrs(attrs).(*slog.JSONHandler),
	}
}

// WithGroup returns a new Handler with the given group appended to
// h's existing groups.
func (h *JSONHandler) WithGroup(name string) slog.Handler {
	return &JSONHandler{
		addSource:     h.addSource,
		withSource:    h.withSource.WithGroup(name).(*slog.JSONHandler),
		withoutSource: h.withoutSource.WithGroup(name).(*slog.JSONHandler),
	}
}

// Handle formats its argument Record as a JSON object on a single line.
//
// See [slog.JSONHandler.Handle] for details.
func (h *JSONHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.addSource.Load() {
		return h.withSource.Handle(ctx, r)
	}
	return h.withoutSource.Handle(ctx, r)
}

// HandlerOptions are options for a JSONHandler. It is derived from the
// [slog.HandlerOptions] with a changed AddSource field type to allow
// dynamically changing AddSource behaviour during run time.
// A zero HandlerOptions consists entirely of default values.
type HandlerOptions struct {
	// AddSource causes the handler to compute the source code position
	// of the log statement and add a SourceKey attribute to the output.
	// A nil AddSource is false.
	AddSource *atomic.Bool

	// Level reports the minimum record level that will be logged.
	Level slog.Leveler

	// ReplaceAttr is called to rewrite each non-group attribute before
	// it is logged.
	ReplaceAttr func(groups []string, a slog.Attr) slog.Attr
}

// NewAtomicBool is a convenience function to returns an atomic.Bool with a
// specified state.
func NewAtomicBool(t bool) *atomic.Bool {
	var x atomic.Bool
	x.Store(t)
	return &x
}
