package dsl

import (
	"fmt"
	"strings"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/scene"
)

// Builder manages the scene construction.
type Builder struct {
	order       []string
	nodes       map[string]*NodeBuilder
	connections []scene.Connection
	evaluate    []string
	curves      domain.CurveDocument
	anim        map[string][]domain.Keyframe
}

// New creates a new scene builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add declares a node. If the node already exists, it returns the existing
// builder and ignores typeName.
func (b *Builder) Add(name, typeName string) *NodeBuilder {
	if nb, ok := b.nodes[name]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node:    scene.Node{Name: name, Type: typeName},
		builder: b,
	}
	b.nodes[name] = nb
	b.order = append(b.order, name)
	return nb
}

// Connect wires two plugs given as "node.attr".
func (b *Builder) Connect(from, to string) *Builder {
	b.connections = append(b.connections, scene.Connection{From: from, To: to})
	return b
}

// Evaluate requests a plug to be read after the scene is applied.
func (b *Builder) Evaluate(plug string) *Builder {
	b.evaluate = append(b.evaluate, plug)
	return b
}

// Curve adds a curve object keyed by its Path.
func (b *Builder) Curve(c domain.Curve) *Builder {
	if b.curves == nil {
		b.curves = make(domain.CurveDocument)
	}
	b.curves[c.Path] = c
	return b
}

// AnimCurve adds an animation curve.
func (b *Builder) AnimCurve(id string, keys ...domain.Keyframe) *Builder {
	if b.anim == nil {
		b.anim = make(map[string][]domain.Keyframe)
	}
	b.anim[id] = append([]domain.Keyframe(nil), keys...)
	return b
}

// Build checks that every connection and evaluation names a declared
// node, then returns the scene. Nodes keep their declaration order.
func (b *Builder) Build() (*scene.Scene, error) {
	s := &scene.Scene{
		Connections: append([]scene.Connection(nil), b.connections...),
		Evaluate:    append([]string(nil), b.evaluate...),
		Curves:      b.curves.Clone(),
		AnimCurves:  b.anim,
	}
	for _, name := range b.order {
		s.Nodes = append(s.Nodes, b.nodes[name].Build())
	}

	for _, c := range s.Connections {
		for _, p := range []string{c.From, c.To} {
			if err := b.checkPlug(p); err != nil {
				return nil, fmt.Errorf("connection %s -> %s: %w", c.From, c.To, err)
			}
		}
	}
	for _, p := range s.Evaluate {
		if err := b.checkPlug(p); err != nil {
			return nil, fmt.Errorf("evaluate: %w", err)
		}
	}
	return s, nil
}

func (b *Builder) checkPlug(plug string) error {
	node, attr, ok := strings.Cut(plug, ".")
	if !ok || attr == "" {
		return fmt.Errorf("invalid plug %q", plug)
	}
	if _, ok := b.nodes[node]; !ok {
		return fmt.Errorf("%s: %w", plug, domain.ErrNodeNotFound)
	}
	return nil
}
