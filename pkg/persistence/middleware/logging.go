package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.CurveStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level, and failures
// at warn level.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.CurveStore) ports.CurveStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, name string, start time.Time, err error, attrs ...any) {
	attrs = append([]any{"op", op, "name", name, "duration", time.Since(start)}, attrs...)
	if err != nil {
		m.logger.WarnContext(ctx, "curve store call failed", append(attrs, "err", err)...)
		return
	}
	m.logger.DebugContext(ctx, "curve store call", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, name string, doc domain.CurveDocument) error {
	start := time.Now()
	err := m.next.Save(ctx, name, doc)
	m.log(ctx, "save", name, start, err, "objects", len(doc))
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, name string) (domain.CurveDocument, error) {
	start := time.Now()
	doc, err := m.next.Load(ctx, name)
	m.log(ctx, "load", name, start, err, "objects", len(doc))
	return doc, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := m.next.Delete(ctx, name)
	m.log(ctx, "delete", name, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := m.next.List(ctx)
	m.log(ctx, "list", "", start, err, "count", len(names))
	return names, err
}
