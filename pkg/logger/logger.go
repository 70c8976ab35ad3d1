package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

const originComponent = "portal-client"

type ctxKey uint8

const (
	ctxKeyOperationID ctxKey = iota
	ctxKeyOperation
	ctxKeyUserID
)

type Handler struct {
	slog.Handler
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if v, ok := ctx.Value(ctxKeyOperationID).(string); ok && v != "" {
		record.Add("operation_id", v)
	}

	if v, ok := ctx.Value(ctxKeyOperation).(string); ok && v != "" {
		record.Add("operation", v)
	}

	// user_id is always present (null until a session exists)
	if v, ok := ctx.Value(ctxKeyUserID).(string); ok && v != "" {
		record.Add("user_id", v)
	} else {
		record.Add("user_id", nil)
	}

	record.Add("component", originComponent)

	return h.Handler.Handle(ctx, record)
}

func New(level slog.Level) *slog.Logger {
	log := slog.New(&Handler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	})

	return log
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func WithOperation(ctx context.Context, operationID, operation string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyOperationID, operationID)
	return context.WithValue(ctx, ctxKeyOperation, operation)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}
