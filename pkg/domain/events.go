package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCompute  EventType = "compute"
	EventCacheHit EventType = "cache_hit"
	EventDirty    EventType = "dirty"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RequestID string    `json:"request_id,omitempty"`
}

// PlugEvent identifies a single plug touched by the evaluator.
type PlugEvent struct {
	EventBase
	Node     string `json:"node"`
	NodeType string `json:"node_type"`
	Plug     string `json:"plug"`
}

// ComputeEvent is emitted after each compute call.
type ComputeEvent struct {
	PlugEvent
	Status   ComputeStatus `json:"status"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for evaluator observability.
type LifecycleHooks struct {
	OnCompute  func(context.Context, *ComputeEvent)
	OnCacheHit func(context.Context, *PlugEvent)
	OnDirty    func(context.Context, *PlugEvent)
}
