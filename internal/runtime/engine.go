package runtime

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/sinew/internal/logging"
	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/ports"
	"github.com/aretw0/sinew/pkg/registry"
	"github.com/aretw0/sinew/pkg/schema"
)

// Engine is the reference dependency-graph evaluator. It owns node
// instances, their attribute values, per-output dirty flags and the
// connections between plugs, and calls Compute only for dirty outputs.
//
// All methods are serialized by one mutex. Hooks run while it is held and
// must not call back into the engine.
type Engine struct {
	mu       sync.Mutex
	registry *registry.Registry
	nodes    map[string]*instance
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for evaluation diagnostics.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates an empty graph over the node types in reg.
func NewEngine(reg *registry.Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: reg,
		nodes:    make(map[string]*instance),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the node type registry backing the engine.
func (e *Engine) Registry() *registry.Registry { return e.registry }

type plugRef struct {
	inst *instance
	idx  int
}

func (p plugRef) String() string {
	return p.inst.name + "." + p.inst.attr(p.idx).Name
}

type instance struct {
	name    string
	def     *registry.Definition
	node    ports.Node
	handles []schema.Handle
	values  []any
	dirty   []bool
	inConn  map[int]plugRef
	outConn map[int][]plugRef
}

func (i *instance) schema() *schema.Schema { return i.def.Schema }

func (i *instance) attr(idx int) schema.Attribute {
	a, _ := i.def.Schema.Attribute(i.handles[idx])
	return a
}

// CreateNode instantiates typeName under a unique name. Outputs start dirty
// and inputs at their defaults.
func (e *Engine) CreateNode(name, typeName string) error {
	if name == "" || strings.Contains(name, ".") {
		return fmt.Errorf("invalid node name %q", name)
	}
	def, err := e.registry.Lookup(typeName)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.nodes[name]; exists {
		return fmt.Errorf("create %s: %w", name, domain.ErrNodeExists)
	}

	node, err := def.New()
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	s := def.Schema
	inst := &instance{
		name:    name,
		def:     def,
		node:    node,
		handles: s.Handles(),
		values:  make([]any, s.Len()),
		dirty:   make([]bool, s.Len()),
		inConn:  make(map[int]plugRef),
		outConn: make(map[int][]plugRef),
	}
	for _, h := range s.Handles() {
		a, _ := s.Attribute(h)
		inst.values[h.Index()] = a.Default
		inst.dirty[h.Index()] = a.Direction == schema.Output
	}
	e.nodes[name] = inst
	e.logger.Debug("node created", "node", name, "type", typeName)
	return nil
}

// DeleteNode removes a node and every connection touching it. Plugs it
// was driving become dirty.
func (e *Engine) DeleteNode(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst, ok := e.nodes[name]
	if !ok {
		return fmt.Errorf("delete %s: %w", name, domain.ErrNodeNotFound)
	}

	for dstIdx, src := range inst.inConn {
		e.unlink(src, plugRef{inst, dstIdx})
	}
	for srcIdx, dsts := range inst.outConn {
		for _, dst := range append([]plugRef(nil), dsts...) {
			e.unlink(plugRef{inst, srcIdx}, dst)
			e.propagate(dst, nil)
		}
	}
	delete(e.nodes, name)
	e.logger.Debug("node deleted", "node", name)
	return nil
}

// NodeInfo is a snapshot of one node for introspection.
type NodeInfo struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Values map[string]any  `json:"values"`
	Dirty  map[string]bool `json:"dirty"`
}

// Connection is a snapshot of one plug connection.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Snapshot is the full introspection view of the graph.
type Snapshot struct {
	Nodes       []NodeInfo   `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// Inspect returns the graph sorted by node name. Values hold the stored
// value of each unconnected input and the cached value of each output.
func (e *Engine) Inspect() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, 0, len(e.nodes))
	for n := range e.nodes {
		names = append(names, n)
	}
	sort.Strings(names)

	var snap Snapshot
	for _, n := range names {
		inst := e.nodes[n]
		info := NodeInfo{
			Name:   n,
			Type:   inst.def.Name,
			Values: make(map[string]any),
			Dirty:  make(map[string]bool),
		}
		for _, h := range inst.schema().Handles() {
			a, _ := inst.schema().Attribute(h)
			idx := h.Index()
			if _, connected := inst.inConn[idx]; connected {
				continue
			}
			info.Values[a.Name] = inst.values[idx]
			if a.Direction == schema.Output {
				info.Dirty[a.Name] = inst.dirty[idx]
			}
		}
		snap.Nodes = append(snap.Nodes, info)

		idxs := make([]int, 0, len(inst.outConn))
		for idx := range inst.outConn {
			idxs = append(idxs, idx)
		}
		sort.Ints(idxs)
		for _, idx := range idxs {
			for _, dst := range inst.outConn[idx] {
				snap.Connections = append(snap.Connections, Connection{
					From: plugRef{inst, idx}.String(),
					To:   dst.String(),
				})
			}
		}
	}
	return snap
}

// resolve parses "node.attr" (long or short attribute name).
func (e *Engine) resolve(plug string) (plugRef, error) {
	nodeName, attrName, ok := strings.Cut(plug, ".")
	if !ok || nodeName == "" || attrName == "" {
		return plugRef{}, fmt.Errorf("invalid plug %q: want node.attribute", plug)
	}
	inst, ok := e.nodes[nodeName]
	if !ok {
		return plugRef{}, fmt.Errorf("%s: %w", plug, domain.ErrNodeNotFound)
	}
	h, ok := inst.schema().Lookup(attrName)
	if !ok {
		return plugRef{}, fmt.Errorf("%s: %w", plug, domain.ErrAttributeNotFound)
	}
	return plugRef{inst, h.Index()}, nil
}
