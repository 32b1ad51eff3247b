// Package scene describes a node graph plus the curve data around it, loads
// that description from YAML, JSON or HCL, and applies it to an evaluator.
package scene

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/sinew/pkg/adapters/memory"
	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/schema"
)

// Node is one node to instantiate. Values are keyed by long or short
// attribute name and coerced by the attribute type on Apply.
type Node struct {
	Name   string         `mapstructure:"name" json:"name"`
	Type   string         `mapstructure:"type" json:"type"`
	Values map[string]any `mapstructure:"values" json:"values,omitempty"`
}

// Connection drives the input To from the output From ("node.attr").
type Connection struct {
	From string `mapstructure:"from" json:"from"`
	To   string `mapstructure:"to" json:"to"`
}

// Scene is a loaded description.
type Scene struct {
	Nodes       []Node                       `json:"nodes"`
	Connections []Connection                 `json:"connections,omitempty"`
	Evaluate    []string                     `json:"evaluate,omitempty"`
	Curves      domain.CurveDocument         `json:"curves,omitempty"`
	AnimCurves  map[string][]domain.Keyframe `json:"anim_curves,omitempty"`
}

// Graph is the part of an evaluator Apply needs.
type Graph interface {
	CreateNode(name, typeName string) error
	SetValue(plug string, value any) error
	Connect(src, dst string) error
}

// Apply creates the nodes, sets their values and makes the connections.
// Node creation and connection failures stop immediately; value failures
// are collected and returned together as a *schema.AggregateError once
// the whole graph is wired.
func Apply(ctx context.Context, g Graph, s *Scene) error {
	for _, n := range s.Nodes {
		if err := g.CreateNode(n.Name, n.Type); err != nil {
			return err
		}
	}

	var errs []error
	for _, n := range s.Nodes {
		attrs := make([]string, 0, len(n.Values))
		for a := range n.Values {
			attrs = append(attrs, a)
		}
		sort.Strings(attrs)
		for _, a := range attrs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := g.SetValue(n.Name+"."+a, n.Values[a]); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for _, c := range s.Connections {
		if err := g.Connect(c.From, c.To); err != nil {
			return err
		}
	}

	if len(errs) > 0 {
		return &schema.AggregateError{Errors: errs}
	}
	return nil
}

// Host builds an in-memory host scene holding the curve objects and
// animation curves of s.
func (s *Scene) Host() (*memory.Scene, error) {
	h := memory.NewScene()
	for path, c := range s.Curves {
		if path == "" {
			return nil, fmt.Errorf("curve with empty path")
		}
		c.Path = path
		h.AddCurve(c)
	}
	for id, keys := range s.AnimCurves {
		h.AddAnimCurve(id, keys)
	}
	return h, nil
}
