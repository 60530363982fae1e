// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package logging configures the process-wide structured logger and lets
// request-scoped attributes ride along on a context.Context.
package logging

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
)

// ErrKey is the attribute key used for error values across the service.
const ErrKey = "error"

// priority values attached to log records that need operator attention.
const priorityCritical = "critical"

type ctxKey struct{}

var attrsKey ctxKey

// contextHandler copies attributes stashed in the context onto every record
// before delegating to the wrapped handler.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(attrsKey).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

// AppendCtx returns a context carrying attr in addition to any attributes
// already present; records logged with the returned context include them all.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	existing, _ := parent.Value(attrsKey).([]slog.Attr)
	attrs := make([]slog.Attr, 0, len(existing)+1)
	attrs = append(attrs, existing...)
	attrs = append(attrs, attr)
	return context.WithValue(parent, attrsKey, attrs)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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

// InitStructureLogConfig installs a JSON handler on slog's default logger.
// LOG_LEVEL and LOG_ADD_SOURCE control verbosity and source annotation.
func InitStructureLogConfig() slog.Handler {
	opts := &slog.HandlerOptions{Level: levelFromEnv()}

	switch os.Getenv("LOG_ADD_SOURCE") {
	case "true", "t", "1":
		opts.AddSource = true
	}

	h := slog.NewJSONHandler(os.Stdout, opts)
	log.SetFlags(log.Llongfile)
	slog.SetDefault(slog.New(contextHandler{h}))

	slog.Info("log config",
		"logLevel", opts.Level,
		"addSource", opts.AddSource,
	)

	return h
}

// PriorityCritical marks a record as needing escalation, for example a watch
// subscription that could not be renewed before it expired.
func PriorityCritical() slog.Attr {
	return slog.String("priority", priorityCritical)
}
