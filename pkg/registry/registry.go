package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/ports"
	"github.com/aretw0/sinew/pkg/schema"
)

var (
	// ErrTypeIDInUse is returned when registering a type id that is already taken.
	ErrTypeIDInUse = errors.New("type id already registered")
	// ErrTypeNameInUse is returned when registering a type name that is already taken.
	ErrTypeNameInUse = errors.New("type name already registered")
	// ErrUnknownType is returned when looking up or deregistering an unknown type.
	ErrUnknownType = errors.New("unknown node type")
)

// Factory creates a node instance bound to its type's schema.
type Factory func(s *schema.Schema) (ports.Node, error)

// Initializer declares attributes and affects edges on a fresh builder.
type Initializer func(b *schema.Builder) error

// Definition is one registered node type.
type Definition struct {
	Name    string
	ID      domain.TypeID
	Schema  *schema.Schema
	Factory Factory
}

// New instantiates the type.
func (d *Definition) New() (ports.Node, error) {
	return d.Factory(d.Schema)
}

// Registry is the arena of node type definitions, indexed by type id.
// Handles cached by node instances stay valid for as long as the
// definition is registered.
type Registry struct {
	mu     sync.RWMutex
	byID   map[domain.TypeID]*Definition
	byName map[string]domain.TypeID
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[domain.TypeID]*Definition),
		byName: make(map[string]domain.TypeID),
	}
}

// Register runs the initializer, freezes the schema and stores the
// definition. Registration fails without side effects if the id or name is
// taken or the schema is invalid.
func (r *Registry) Register(name string, id domain.TypeID, factory Factory, init Initializer) error {
	if factory == nil || init == nil {
		return fmt.Errorf("register %s: factory and initializer are required", name)
	}

	r.mu.RLock()
	_, idTaken := r.byID[id]
	_, nameTaken := r.byName[name]
	r.mu.RUnlock()
	if idTaken {
		return fmt.Errorf("register %s (%s): %w", name, id, ErrTypeIDInUse)
	}
	if nameTaken {
		return fmt.Errorf("register %s (%s): %w", name, id, ErrTypeNameInUse)
	}

	b := schema.NewBuilder(name, id)
	if err := init(b); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	s, err := b.Build()
	if err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// re-check: another registration may have won while the schema was built
	if _, ok := r.byID[id]; ok {
		return fmt.Errorf("register %s (%s): %w", name, id, ErrTypeIDInUse)
	}
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("register %s (%s): %w", name, id, ErrTypeNameInUse)
	}
	r.byID[id] = &Definition{Name: name, ID: id, Schema: s, Factory: factory}
	r.byName[name] = id
	return nil
}

// RegisterType registers a node type through its capability interface.
func (r *Registry) RegisterType(nt ports.NodeType) error {
	return r.Register(nt.Name(), nt.TypeID(), nt.New, nt.Initialize)
}

// Deregister removes a type by id.
func (r *Registry) Deregister(id domain.TypeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	def, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("deregister %s: %w", id, ErrUnknownType)
	}
	delete(r.byID, id)
	delete(r.byName, def.Name)
	return nil
}

// Get looks up a definition by type id.
func (r *Registry) Get(id domain.TypeID) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrUnknownType)
	}
	return def, nil
}

// Lookup looks up a definition by type name.
func (r *Registry) Lookup(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownType)
	}
	return r.byID[id], nil
}

// Types returns all definitions sorted by name.
func (r *Registry) Types() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
