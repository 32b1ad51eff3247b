package dsl

import "github.com/aretw0/sinew/pkg/scene"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    scene.Node
	builder *Builder
}

// Set stores a value for an input attribute (long or short name).
func (n *NodeBuilder) Set(attr string, value any) *NodeBuilder {
	if n.node.Values == nil {
		n.node.Values = make(map[string]any)
	}
	n.node.Values[attr] = value
	return n
}

// Connect drives the plug dst ("node.attr") from this node's output attr.
func (n *NodeBuilder) Connect(attr, dst string) *NodeBuilder {
	n.builder.Connect(n.plug(attr), dst)
	return n
}

// From drives this node's input attr from the plug src.
func (n *NodeBuilder) From(src, attr string) *NodeBuilder {
	n.builder.Connect(src, n.plug(attr))
	return n
}

// Evaluate requests this node's attr to be read.
func (n *NodeBuilder) Evaluate(attr string) *NodeBuilder {
	n.builder.Evaluate(n.plug(attr))
	return n
}

func (n *NodeBuilder) plug(attr string) string { return n.node.Name + "." + attr }

// Build returns the underlying scene.Node.
func (n *NodeBuilder) Build() scene.Node {
	out := n.node
	if n.node.Values != nil {
		out.Values = make(map[string]any, len(n.node.Values))
		for k, v := range n.node.Values {
			out.Values[k] = v
		}
	}
	return out
}
