// Package nodes collects the node types shipped with sinew.
package nodes

import (
	"github.com/aretw0/sinew/pkg/nodes/aim"
	"github.com/aretw0/sinew/pkg/nodes/locator"
	"github.com/aretw0/sinew/pkg/nodes/sine"
	"github.com/aretw0/sinew/pkg/ports"
)

// Builtin returns every bundled node type.
func Builtin() []ports.NodeType {
	return []ports.NodeType{
		sine.Type{},
		aim.Type{},
		locator.Type{},
	}
}
