package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/schema"
)

// Connect drives the input dst from the output src. Both plugs must share a
// type, dst must be unconnected, and the connection must not close a loop.
func (e *Engine) Connect(src, dst string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	from, err := e.resolve(src)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	to, err := e.resolve(dst)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	fa, ta := from.inst.attr(from.idx), to.inst.attr(to.idx)
	if fa.Direction != schema.Output || ta.Direction != schema.Input {
		return fmt.Errorf("connect %s -> %s: %w: source must be an output and destination an input", src, dst, domain.ErrIncompatiblePlugs)
	}
	if fa.Type.Name() != ta.Type.Name() {
		return fmt.Errorf("connect %s -> %s: %w: %s to %s", src, dst, domain.ErrIncompatiblePlugs, fa.Type.Name(), ta.Type.Name())
	}
	if existing, ok := to.inst.inConn[to.idx]; ok {
		return fmt.Errorf("connect %s -> %s: %w: already driven by %s", src, dst, domain.ErrIncompatiblePlugs, existing)
	}
	if e.reaches(to.inst, from.inst) {
		return fmt.Errorf("connect %s -> %s: %w", src, dst, domain.ErrCycle)
	}

	to.inst.inConn[to.idx] = from
	from.inst.outConn[from.idx] = append(from.inst.outConn[from.idx], to)
	e.propagate(to, nil)
	e.logger.Debug("connected", "from", src, "to", dst)
	return nil
}

// Disconnect removes the connection driving dst. The input falls back to
// its stored value.
func (e *Engine) Disconnect(dst string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	to, err := e.resolve(dst)
	if err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	from, ok := to.inst.inConn[to.idx]
	if !ok {
		return fmt.Errorf("disconnect %s: %w", dst, domain.ErrNotConnected)
	}
	e.unlink(from, to)
	e.propagate(to, nil)
	return nil
}

func (e *Engine) unlink(from, to plugRef) {
	delete(to.inst.inConn, to.idx)
	dsts := from.inst.outConn[from.idx]
	for i, d := range dsts {
		if d == to {
			dsts = append(dsts[:i], dsts[i+1:]...)
			break
		}
	}
	if len(dsts) == 0 {
		delete(from.inst.outConn, from.idx)
	} else {
		from.inst.outConn[from.idx] = dsts
	}
}

// reaches reports whether target is downstream of (or is) start.
func (e *Engine) reaches(start, target *instance) bool {
	seen := map[*instance]bool{}
	stack := []*instance{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == target {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		for _, dsts := range n.outConn {
			for _, d := range dsts {
				stack = append(stack, d.inst)
			}
		}
	}
	return false
}

// SetValue stores a value on an unconnected input and dirties everything
// downstream of it.
func (e *Engine) SetValue(plug string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.resolve(plug)
	if err != nil {
		return fmt.Errorf("set: %w", err)
	}
	a := p.inst.attr(p.idx)
	if a.Direction != schema.Input {
		return &domain.WrongDirectionError{Attribute: plug, Op: "set"}
	}
	if _, ok := p.inst.inConn[p.idx]; ok {
		return fmt.Errorf("set %s: %w", plug, domain.ErrPlugConnected)
	}
	v, err := a.Type.Coerce(value)
	if err != nil {
		return &schema.ValidationError{Key: plug, Reason: err.Error(), Value: value}
	}

	p.inst.values[p.idx] = v
	e.propagate(p, nil)
	return nil
}

// IsDirty reports whether reading plug would trigger a compute. An input is
// dirty when the output driving it is.
func (e *Engine) IsDirty(plug string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.resolve(plug)
	if err != nil {
		return false, err
	}
	return e.isDirty(p), nil
}

func (e *Engine) isDirty(p plugRef) bool {
	if src, ok := p.inst.inConn[p.idx]; ok {
		return e.isDirty(src)
	}
	return p.inst.dirty[p.idx]
}

// propagate marks every output that depends on p dirty. It follows affects
// edges inside a node and connections across nodes. Already-dirty outputs
// are still walked so nothing downstream can stay clean.
func (e *Engine) propagate(p plugRef, visited map[plugRef]bool) {
	if visited == nil {
		visited = make(map[plugRef]bool)
	}
	if visited[p] {
		return
	}
	visited[p] = true

	s := p.inst.schema()
	a := p.inst.attr(p.idx)
	if a.Direction == schema.Input {
		for _, out := range s.Affects(p.inst.handles[p.idx]) {
			e.propagate(plugRef{p.inst, out.Index()}, visited)
		}
		return
	}

	p.inst.dirty[p.idx] = true
	if e.hooks.OnDirty != nil {
		e.hooks.OnDirty(context.Background(), &domain.PlugEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDirty},
			Node:      p.inst.name,
			NodeType:  p.inst.def.Name,
			Plug:      p.String(),
		})
	}
	for _, dst := range p.inst.outConn[p.idx] {
		e.propagate(dst, visited)
	}
}
