package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/ports"
	"github.com/aretw0/sinew/pkg/schema"
	"github.com/aretw0/sinew/pkg/vecmath"
)

// evalContext is the ports.EvaluationContext handed to one compute call.
// Writes are staged and only committed once the call returns Handled.
// Only the requested output may be marked clean.
type evalContext struct {
	ctx       context.Context
	engine    *Engine
	inst      *instance
	logger    *slog.Logger
	requested int
	staged    map[int]any
	clean     map[int]bool
}

var _ ports.EvaluationContext = (*evalContext)(nil)

func (c *evalContext) Context() context.Context { return c.ctx }

func (c *evalContext) Logger() *slog.Logger { return c.logger }

func (c *evalContext) attribute(h schema.Handle) (schema.Attribute, bool) {
	return c.inst.schema().Attribute(h)
}

func (c *evalContext) name(h schema.Handle) string {
	if a, ok := c.attribute(h); ok {
		return c.inst.name + "." + a.Name
	}
	return fmt.Sprintf("%s.#%d", c.inst.name, h.Index())
}

func (c *evalContext) Input(h schema.Handle) (any, error) {
	a, ok := c.attribute(h)
	if !ok {
		return nil, &domain.StaleReadError{Attribute: c.name(h), Reason: fmt.Sprintf("handle does not belong to %s", c.inst.def.Name)}
	}
	if a.Direction != schema.Input {
		return nil, &domain.StaleReadError{Attribute: c.name(h), Reason: "not an input"}
	}
	return c.engine.evaluate(c.ctx, plugRef{c.inst, h.Index()})
}

func (c *evalContext) Float(h schema.Handle) (float64, error) {
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

func (c *evalContext) Vector(h schema.Handle) (vecmath.Vector3, error) {
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

func (c *evalContext) Matrix(h schema.Handle) (vecmath.Matrix4, error) {
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

func (c *evalContext) SetOutput(h schema.Handle, v any) error {
	a, ok := c.attribute(h)
	if !ok || a.Direction != schema.Output {
		return &domain.WrongDirectionError{Attribute: c.name(h), Op: "set output"}
	}
	if err := a.Type.Validate(v); err != nil {
		return &domain.TypeMismatchError{Attribute: c.name(h), Want: a.Type.Name(), Got: v}
	}
	c.staged[h.Index()] = v
	return nil
}

func (c *evalContext) SetClean(h schema.Handle) error {
	a, ok := c.attribute(h)
	if !ok || a.Direction != schema.Output {
		return &domain.WrongDirectionError{Attribute: c.name(h), Op: "set clean"}
	}
	if h.Index() != c.requested {
		return fmt.Errorf("%s: %w", c.name(h), domain.ErrCleanNotRequested)
	}
	if _, written := c.staged[h.Index()]; !written {
		return fmt.Errorf("%s: %w", c.name(h), domain.ErrCleanWithoutWrite)
	}
	if c.clean[h.Index()] {
		return fmt.Errorf("%s: %w", c.name(h), domain.ErrAlreadyClean)
	}
	c.clean[h.Index()] = true
	return nil
}
