/*
Package observability turns evaluator lifecycle events into Prometheus
metrics and structured log records.

Both are plain domain.LifecycleHooks and can be combined:

	m, _ := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Combine(m.Hooks(), observability.LogHooks(logger))
*/
package observability
