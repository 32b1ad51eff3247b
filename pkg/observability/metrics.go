package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the evaluator collectors.
type Metrics struct {
	Computes        *prometheus.CounterVec
	CacheHits       *prometheus.CounterVec
	DirtyMarks      *prometheus.CounterVec
	ComputeDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg. Registering
// twice on the same registry reuses the existing collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Computes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sinew_computes_total",
				Help: "Total number of compute calls by node type and outcome",
			},
			[]string{"node_type", "status"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sinew_cache_hits_total",
				Help: "Reads of clean outputs served without computing",
			},
			[]string{"node_type"},
		),
		DirtyMarks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sinew_dirty_marks_total",
				Help: "Outputs marked dirty by upstream changes",
			},
			[]string{"node_type"},
		),
		ComputeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sinew_compute_duration_seconds",
				Help:    "Duration of compute calls",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"node_type"},
		),
	}

	var err error
	if m.Computes, err = register(reg, m.Computes); err != nil {
		return nil, err
	}
	if m.CacheHits, err = register(reg, m.CacheHits); err != nil {
		return nil, err
	}
	if m.DirtyMarks, err = register(reg, m.DirtyMarks); err != nil {
		return nil, err
	}
	if m.ComputeDuration, err = register(reg, m.ComputeDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Hooks records every event into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCompute: func(_ context.Context, e *domain.ComputeEvent) {
			status := e.Status.String()
			if e.Err != nil {
				status = "error"
			}
			m.Computes.WithLabelValues(e.NodeType, status).Inc()
			m.ComputeDuration.WithLabelValues(e.NodeType).Observe(e.Duration.Seconds())
		},
		OnCacheHit: func(_ context.Context, e *domain.PlugEvent) {
			m.CacheHits.WithLabelValues(e.NodeType).Inc()
		},
		OnDirty: func(_ context.Context, e *domain.PlugEvent) {
			m.DirtyMarks.WithLabelValues(e.NodeType).Inc()
		},
	}
}

// LogHooks writes compute and cache events at debug level. Dirty marks are
// too frequent to log.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCompute: func(ctx context.Context, e *domain.ComputeEvent) {
			attrs := []any{
				"plug", e.Plug,
				"node_type", e.NodeType,
				"status", e.Status.String(),
				"duration", e.Duration,
				"request_id", e.RequestID,
			}
			if e.Err != nil {
				logger.WarnContext(ctx, "compute", append(attrs, "error", e.Err)...)
				return
			}
			logger.DebugContext(ctx, "compute", attrs...)
		},
		OnCacheHit: func(ctx context.Context, e *domain.PlugEvent) {
			logger.DebugContext(ctx, "cache_hit", "plug", e.Plug)
		},
	}
}

// Combine calls every non-nil hook of each set in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, s := range sets {
		out.OnCompute = chain(out.OnCompute, s.OnCompute)
		out.OnCacheHit = chain(out.OnCacheHit, s.OnCacheHit)
		out.OnDirty = chain(out.OnDirty, s.OnDirty)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
