package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/schema"
	"github.com/google/uuid"
)

// Evaluate returns the current value of plug ("node.attr"). A clean output
// is served from cache; a dirty one is computed after its inputs have been
// resolved, transitively, through their connections.
func (e *Engine) Evaluate(ctx context.Context, plug string) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.resolve(plug)
	if err != nil {
		return nil, err
	}
	return e.evaluate(ctx, p)
}

func (e *Engine) evaluate(ctx context.Context, p plugRef) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := p.inst.attr(p.idx)
	if a.Direction == schema.Input {
		if src, ok := p.inst.inConn[p.idx]; ok {
			return e.evaluate(ctx, src)
		}
		return p.inst.values[p.idx], nil
	}

	if !p.inst.dirty[p.idx] {
		if e.hooks.OnCacheHit != nil {
			e.hooks.OnCacheHit(ctx, &domain.PlugEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCacheHit},
				Node:      p.inst.name,
				NodeType:  p.inst.def.Name,
				Plug:      p.String(),
			})
		}
		return p.inst.values[p.idx], nil
	}

	return e.compute(ctx, p)
}

func (e *Engine) compute(ctx context.Context, p plugRef) (any, error) {
	requestID := uuid.NewString()
	logger := e.logger.With("node", p.inst.name, "plug", p.String(), "request_id", requestID)

	ec := &evalContext{
		ctx:       ctx,
		engine:    e,
		inst:      p.inst,
		logger:    logger,
		requested: p.idx,
		staged:    make(map[int]any),
		clean:     make(map[int]bool),
	}

	start := time.Now()
	status, err := p.inst.node.Compute(p.inst.handles[p.idx], ec)
	elapsed := time.Since(start)
	if _, written := ec.staged[p.idx]; err == nil && status == domain.Handled && !written {
		err = domain.ErrOutputNotWritten
	}

	if e.hooks.OnCompute != nil {
		e.hooks.OnCompute(ctx, &domain.ComputeEvent{
			PlugEvent: domain.PlugEvent{
				EventBase: domain.EventBase{Timestamp: start, Type: domain.EventCompute, RequestID: requestID},
				Node:      p.inst.name,
				NodeType:  p.inst.def.Name,
				Plug:      p.String(),
			},
			Status:   status,
			Duration: elapsed,
			Err:      err,
		})
	}

	if err != nil {
		logger.Error("compute failed", "error", err)
		return nil, fmt.Errorf("compute %s: %w", p, err)
	}
	if status == domain.Unhandled {
		return nil, fmt.Errorf("compute %s: %w", p, domain.ErrPlugUnhandled)
	}

	// commit every staged output; only cleaned ones stop being dirty
	for idx, v := range ec.staged {
		p.inst.values[idx] = v
		if ec.clean[idx] {
			p.inst.dirty[idx] = false
		}
	}

	if !ec.clean[p.idx] {
		logger.Warn("output written but not marked clean; it will recompute on every read")
	}
	logger.Debug("computed", "duration", elapsed)
	return p.inst.values[p.idx], nil
}
