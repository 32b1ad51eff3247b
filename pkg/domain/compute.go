package domain

import "fmt"

// TypeID is the host-wide numeric identifier of a node type.
type TypeID uint32

func (id TypeID) String() string { return fmt.Sprintf("0x%06x", uint32(id)) }

// ComputeStatus is the outcome of a compute call.
type ComputeStatus int

const (
	// Handled means the node produced the requested plug.
	Handled ComputeStatus = iota
	// Unhandled means the plug is not one this node computes; the host
	// should fall back to its default handling.
	Unhandled
)

func (s ComputeStatus) String() string {
	switch s {
	case Handled:
		return "handled"
	case Unhandled:
		return "unhandled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}
