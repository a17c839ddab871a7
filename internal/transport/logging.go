package transport

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/allisson/vaultops/internal/errors"
)

// loggingTransport logs every call made through the wrapped Transport.
type loggingTransport struct {
	next   Transport
	logger *slog.Logger
}

// NewLoggingTransport wraps next with structured logging. Request bodies are never logged
// because they carry plaintext and key material.
func NewLoggingTransport(next Transport, logger *slog.Logger) Transport {
	return &loggingTransport{next: next, logger: logger}
}

func (l *loggingTransport) Invoke(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.next.Invoke(ctx, req)
	duration := time.Since(start)

	if err != nil {
		attrs := []any{
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.Duration("duration", duration),
			slog.Any("error", err),
		}
		if remoteErr, ok := apperrors.AsRemote(err); ok {
			attrs = append(attrs, slog.Int("status_code", remoteErr.StatusCode))
		}
		l.logger.WarnContext(ctx, "vault request failed", attrs...)
		return resp, err
	}

	l.logger.DebugContext(ctx, "vault request",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Duration("duration", duration),
		slog.Bool("empty", resp == nil),
	)
	for _, warning := range warnings(resp) {
		l.logger.WarnContext(ctx, "vault warning", slog.String("path", req.Path), slog.String("warning", warning))
	}
	return resp, nil
}

func warnings(resp *Response) []string {
	if resp == nil {
		return nil
	}
	return resp.Warnings
}
