package domain

import (
	"errors"
	"fmt"
)

// ErrPlugUnhandled is returned by the evaluator when a node reports Unhandled
// for a plug it was asked to compute.
var ErrPlugUnhandled = errors.New("plug not handled by node")

// ErrNodeNotFound is returned when a node name is not present in the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrNodeExists is returned when creating a node whose name is taken.
var ErrNodeExists = errors.New("node already exists")

// ErrAttributeNotFound is returned when a plug names an attribute the node type does not declare.
var ErrAttributeNotFound = errors.New("attribute not found")

// ErrCycle is returned when a connection would close a loop in the graph.
var ErrCycle = errors.New("connection would create a cycle")

// ErrIncompatiblePlugs is returned when connecting plugs of different types or directions.
var ErrIncompatiblePlugs = errors.New("incompatible plugs")

// ErrNotConnected is returned when disconnecting a plug with no incoming connection.
var ErrNotConnected = errors.New("plug is not connected")

// ErrPlugConnected is returned when setting a value on a plug driven by a connection.
var ErrPlugConnected = errors.New("plug is driven by a connection")

var (
	// ErrCleanWithoutWrite is returned when a compute routine marks an output
	// clean before writing it.
	ErrCleanWithoutWrite = errors.New("output marked clean before it was written")
	// ErrAlreadyClean is returned on a second SetClean for the same output.
	ErrAlreadyClean = errors.New("output already marked clean")
	// ErrCleanNotRequested is returned when a compute routine marks an output
	// clean other than the one it was asked to compute.
	ErrCleanNotRequested = errors.New("only the requested output can be marked clean")
	// ErrOutputNotWritten is returned when a compute routine reports Handled
	// without writing the requested output.
	ErrOutputNotWritten = errors.New("handled without writing the requested output")
)

// Collaborator errors.
var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrPointCountMismatch = errors.New("control point count mismatch")
	ErrCurveNotFound      = errors.New("curve not found")
	ErrDocumentNotFound   = errors.New("curve document not found")
)

// WrongDirectionError is returned when an output operation is attempted on an
// input attribute (or the reverse).
type WrongDirectionError struct {
	Attribute string
	Op        string
}

func (e *WrongDirectionError) Error() string {
	return fmt.Sprintf("%s: attribute %q has the wrong direction", e.Op, e.Attribute)
}

// StaleReadError is returned when a compute routine reads a handle that is
// not an input of the node being evaluated.
type StaleReadError struct {
	Attribute string
	Reason    string
}

func (e *StaleReadError) Error() string {
	return fmt.Sprintf("read of %q rejected: %s", e.Attribute, e.Reason)
}

// TypeMismatchError is returned when a value does not match the attribute type.
type TypeMismatchError struct {
	Attribute string
	Want      string
	Got       any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("attribute %q: want %s, got %T", e.Attribute, e.Want, e.Got)
}

// DegenerateVectorError reports a geometric input that cannot produce a
// defined orientation: a non-finite component, or a zero-length direction
// while strict mode is on.
type DegenerateVectorError struct {
	Vector string
	Reason string
}

func (e *DegenerateVectorError) Error() string {
	return fmt.Sprintf("degenerate %s vector: %s", e.Vector, e.Reason)
}
