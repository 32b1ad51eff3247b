package ports

import (
	"context"
	"log/slog"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/schema"
	"github.com/aretw0/sinew/pkg/vecmath"
)

// NodeType is the capability set a host needs to register a node type.
type NodeType interface {
	// Name is the host-visible type name (e.g. "sineNode").
	Name() string
	// TypeID is the numeric type identifier; unique per host.
	TypeID() domain.TypeID
	// Initialize declares attributes and affects edges. Called once per registration.
	Initialize(b *schema.Builder) error
	// New creates an instance bound to the built schema.
	New(s *schema.Schema) (Node, error)
}

// Node computes output plugs from input plugs.
//
// Compute returns domain.Unhandled, with no side effects, for any plug it
// does not produce. An error leaves the plug dirty.
type Node interface {
	Compute(plug schema.Handle, ec EvaluationContext) (domain.ComputeStatus, error)
}

// EvaluationContext is the host-provided access to one node's attribute
// values during a single compute call. It must not be retained after the
// call returns.
type EvaluationContext interface {
	Context() context.Context
	Logger() *slog.Logger

	// Input returns the current value of an input attribute.
	// Reading anything but an input of this node yields *domain.StaleReadError.
	Input(h schema.Handle) (any, error)
	Float(h schema.Handle) (float64, error)
	Vector(h schema.Handle) (vecmath.Vector3, error)
	Matrix(h schema.Handle) (vecmath.Matrix4, error)

	// SetOutput stages a value for an output attribute.
	// Writing an input yields *domain.WrongDirectionError.
	SetOutput(h schema.Handle, v any) error
	// SetClean marks a written output as up to date.
	SetClean(h schema.Handle) error
}
