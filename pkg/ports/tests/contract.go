package tests

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/ports"
	"github.com/aretw0/sinew/pkg/schema"
	"github.com/aretw0/sinew/pkg/vecmath"
)

// Context is a minimal EvaluationContext for exercising a node without an
// evaluator. Inputs start at their defaults; writes are recorded.
type Context struct {
	schema  *schema.Schema
	inputs  map[schema.Handle]any
	Outputs map[schema.Handle]any
	Clean   map[schema.Handle]bool
	Reads   int
}

// NewContext returns a context bound to s with every input at its default.
func NewContext(s *schema.Schema) *Context {
	c := &Context{
		schema:  s,
		inputs:  make(map[schema.Handle]any),
		Outputs: make(map[schema.Handle]any),
		Clean:   make(map[schema.Handle]bool),
	}
	for _, h := range s.Inputs() {
		a, _ := s.Attribute(h)
		c.inputs[h] = a.Default
	}
	return c
}

// Set coerces and stores an input value by attribute name.
func (c *Context) Set(name string, v any) error {
	h, ok := c.schema.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrAttributeNotFound, name)
	}
	a, _ := c.schema.Attribute(h)
	if a.Direction != schema.Input {
		return &domain.WrongDirectionError{Attribute: name, Op: "set"}
	}
	cv, err := a.Type.Coerce(v)
	if err != nil {
		return err
	}
	c.inputs[h] = cv
	return nil
}

// Output returns the recorded value of an output by name.
func (c *Context) Output(name string) (any, bool) {
	h, ok := c.schema.Lookup(name)
	if !ok {
		return nil, false
	}
	v, ok := c.Outputs[h]
	return v, ok
}

// Reset clears recorded writes.
func (c *Context) Reset() {
	c.Outputs = make(map[schema.Handle]any)
	c.Clean = make(map[schema.Handle]bool)
	c.Reads = 0
}

func (c *Context) Context() context.Context { return context.Background() }

func (c *Context) Logger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func (c *Context) Input(h schema.Handle) (any, error) {
	a, ok := c.schema.Attribute(h)
	if !ok {
		return nil, &domain.StaleReadError{Attribute: fmt.Sprintf("#%d", h.Index()), Reason: "handle belongs to another node type"}
	}
	if a.Direction != schema.Input {
		return nil, &domain.StaleReadError{Attribute: a.Name, Reason: "not an input"}
	}
	c.Reads++
	return c.inputs[h], nil
}

func (c *Context) Float(h schema.Handle) (float64, error) {
	v, err := c.Input(h)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, &domain.TypeMismatchError{Attribute: c.name(h), Want: "float", Got: v}
	}
	return f, nil
}

func (c *Context) Vector(h schema.Handle) (vecmath.Vector3, error) {
	v, err := c.Input(h)
	if err != nil {
		return vecmath.Vector3{}, err
	}
	p, ok := v.(vecmath.Vector3)
	if !ok {
		return vecmath.Vector3{}, &domain.TypeMismatchError{Attribute: c.name(h), Want: "point", Got: v}
	}
	return p, nil
}

func (c *Context) Matrix(h schema.Handle) (vecmath.Matrix4, error) {
	v, err := c.Input(h)
	if err != nil {
		return vecmath.Matrix4{}, err
	}
	m, ok := v.(vecmath.Matrix4)
	if !ok {
		return vecmath.Matrix4{}, &domain.TypeMismatchError{Attribute: c.name(h), Want: "matrix", Got: v}
	}
	return m, nil
}

func (c *Context) SetOutput(h schema.Handle, v any) error {
	a, ok := c.schema.Attribute(h)
	if !ok || a.Direction != schema.Output {
		return &domain.WrongDirectionError{Attribute: c.name(h), Op: "set output"}
	}
	if err := a.Type.Validate(v); err != nil {
		return &domain.TypeMismatchError{Attribute: a.Name, Want: a.Type.Name(), Got: v}
	}
	c.Outputs[h] = v
	return nil
}

func (c *Context) SetClean(h schema.Handle) error {
	a, ok := c.schema.Attribute(h)
	if !ok || a.Direction != schema.Output {
		return &domain.WrongDirectionError{Attribute: c.name(h), Op: "set clean"}
	}
	if _, written := c.Outputs[h]; !written {
		return domain.ErrCleanWithoutWrite
	}
	if c.Clean[h] {
		return domain.ErrAlreadyClean
	}
	c.Clean[h] = true
	return nil
}

func (c *Context) name(h schema.Handle) string {
	if a, ok := c.schema.Attribute(h); ok {
		return a.Name
	}
	return fmt.Sprintf("#%d", h.Index())
}

var _ ports.EvaluationContext = (*Context)(nil)

// NodeTypeContractTest is a reusable test suite that verifies if a node type complies with ports.NodeType.
func NodeTypeContractTest(t *testing.T, nt ports.NodeType) {
	t.Helper()

	b := schema.NewBuilder(nt.Name(), nt.TypeID())
	if err := nt.Initialize(b); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	node, err := nt.New(s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// 1. Every output computes from defaults and is marked clean.
	t.Run("Outputs_Handled", func(t *testing.T) {
		for _, out := range s.Outputs() {
			ec := NewContext(s)
			status, err := node.Compute(out, ec)
			if err != nil {
				t.Fatalf("Compute(%d): %v", out.Index(), err)
			}
			if status != domain.Handled {
				t.Errorf("Compute(%d) status = %v, want handled", out.Index(), status)
			}
			if !ec.Clean[out] {
				t.Errorf("Compute(%d) did not mark output clean", out.Index())
			}
		}
	})

	// 2. Inputs are never computed and compute leaves no side effects.
	t.Run("Inputs_Unhandled", func(t *testing.T) {
		for _, in := range s.Inputs() {
			ec := NewContext(s)
			status, err := node.Compute(in, ec)
			if err != nil {
				t.Fatalf("Compute(%d): %v", in.Index(), err)
			}
			if status != domain.Unhandled {
				t.Errorf("Compute(%d) status = %v, want unhandled", in.Index(), status)
			}
			if len(ec.Outputs) != 0 {
				t.Errorf("Compute(%d) wrote outputs on an unhandled plug", in.Index())
			}
		}
	})

	// 3. A plug from another type is unhandled.
	t.Run("Foreign_Plug", func(t *testing.T) {
		other := schema.NewBuilder("foreign", 0)
		h, _ := other.Input("x", "x", schema.Float(), nil, 0)
		status, err := node.Compute(h, NewContext(s))
		if err != nil && !errors.Is(err, domain.ErrPlugUnhandled) {
			t.Fatalf("Compute(foreign): %v", err)
		}
		if status != domain.Unhandled {
			t.Errorf("Compute(foreign) status = %v, want unhandled", status)
		}
	})

	// 4. Every output is reachable from an input through an affects edge.
	t.Run("Affects_Edges", func(t *testing.T) {
		for _, out := range s.Outputs() {
			if len(s.AffectedBy(out)) == 0 {
				t.Errorf("output %d has no affects edge", out.Index())
			}
		}
	})
}
