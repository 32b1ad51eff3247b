package cli

import (
	"io"
	"log/slog"

	"github.com/aretw0/sinew"
	"github.com/aretw0/sinew/internal/logging"
	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// Options are the settings shared by every command.
type Options struct {
	LogLevel string
	LogJSON  bool
	// Metrics, when set, receives the evaluator collectors.
	Metrics prometheus.Registerer
}

// NewLogger builds the command logger on w.
func NewLogger(w io.Writer, opts Options) (*slog.Logger, error) {
	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(w, level, opts.LogJSON), nil
}

// CreateEngine initializes an engine with the standard CLI conventions:
// compute events are logged at debug level, and recorded as metrics when
// opts.Metrics is set.
func CreateEngine(opts Options, logger *slog.Logger) (*sinew.Engine, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	hooks := []domain.LifecycleHooks{observability.LogHooks(logger)}
	if opts.Metrics != nil {
		m, err := observability.NewMetrics(opts.Metrics)
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, m.Hooks())
	}
	return sinew.New(
		sinew.WithLogger(logger),
		sinew.WithLifecycleHooks(observability.Combine(hooks...)),
	), nil
}
