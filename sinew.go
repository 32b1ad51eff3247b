package sinew

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/sinew/internal/logging"
	"github.com/aretw0/sinew/internal/runtime"
	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/nodes"
	"github.com/aretw0/sinew/pkg/ports"
	"github.com/aretw0/sinew/pkg/registry"
	"github.com/aretw0/sinew/pkg/scene"
)

// Graph is a live node graph: node instances, values, dirty flags and
// connections.
type Graph = runtime.Engine

// Snapshot is the introspection view returned by Graph.Inspect.
type Snapshot = runtime.Snapshot

// Engine is the high-level entry point. It owns the node type registry and
// creates graphs that share it.
type Engine struct {
	registry *registry.Registry
	types    []ports.NodeType
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine and its graphs.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks on every graph.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithNodeTypes registers extra node types after the built-in ones.
func WithNodeTypes(types ...ports.NodeType) Option {
	return func(e *Engine) {
		e.types = append(e.types, types...)
	}
}

// New creates an engine with the built-in node types plus any given by
// WithNodeTypes. A type that fails to register is logged and skipped; the
// remaining types stay usable.
func New(opts ...Option) *Engine {
	e := &Engine{registry: registry.NewRegistry()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}

	for _, nt := range append(nodes.Builtin(), e.types...) {
		if err := e.registry.RegisterType(nt); err != nil {
			e.logger.Error("node type registration failed",
				"type", nt.Name(), "type_id", nt.TypeID().String(), "err", err)
		}
	}
	return e
}

// Registry returns the node type registry.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// Deregister removes a node type by name. Failures are logged and returned.
func (e *Engine) Deregister(typeName string) error {
	def, err := e.registry.Lookup(typeName)
	if err == nil {
		err = e.registry.Deregister(def.ID)
	}
	if err != nil {
		e.logger.Error("node type deregistration failed", "type", typeName, "err", err)
		return err
	}
	return nil
}

// NewGraph creates an empty graph over the engine's node types.
func (e *Engine) NewGraph() *Graph {
	return runtime.NewEngine(e.registry,
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
	)
}

// Build applies s to a fresh graph without reading any plug.
func (e *Engine) Build(ctx context.Context, s *scene.Scene) (*Graph, error) {
	g := e.NewGraph()
	if err := scene.Apply(ctx, g, s); err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	return g, nil
}

// Evaluation holds the outcome of evaluating a scene.
type Evaluation struct {
	Results map[string]any    `json:"results"`
	Errors  map[string]string `json:"errors,omitempty"`
	// Graph is the graph the scene was applied to, left in its evaluated
	// state.
	Graph *Graph `json:"-"`
}

// Evaluate applies s to a fresh graph and reads each plug. With no plugs
// the scene's own evaluate list is used. A failure to build the graph is
// returned as an error; a failure to read one plug is recorded in Errors
// and the remaining plugs are still read.
func (e *Engine) Evaluate(ctx context.Context, s *scene.Scene, plugs ...string) (*Evaluation, error) {
	g, err := e.Build(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(plugs) == 0 {
		plugs = s.Evaluate
	}

	ev := &Evaluation{Results: make(map[string]any, len(plugs)), Graph: g}
	for _, p := range plugs {
		v, err := g.Evaluate(ctx, p)
		if err != nil {
			if ev.Errors == nil {
				ev.Errors = make(map[string]string)
			}
			ev.Errors[p] = err.Error()
			e.logger.WarnContext(ctx, "plug evaluation failed", "plug", p, "err", err)
			continue
		}
		ev.Results[p] = v
	}
	return ev, nil
}
