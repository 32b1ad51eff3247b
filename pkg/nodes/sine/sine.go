// Package sine implements a periodic signal generator node:
// output = sin(input * frequency) * amplitude.
package sine

import (
	"fmt"
	"math"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/ports"
	"github.com/aretw0/sinew/pkg/schema"
)

const (
	TypeName               = "sineNode"
	TypeID   domain.TypeID = 0x870001
)

// Type is the sine node type. It carries no state.
type Type struct{}

func (Type) Name() string { return TypeName }

func (Type) TypeID() domain.TypeID { return TypeID }

func (Type) Initialize(b *schema.Builder) error {
	in, err := b.Input("input", "in", schema.Float(), 1.0, schema.Storable|schema.Writable|schema.Readable)
	if err != nil {
		return err
	}
	amp, err := b.Input("amplitude", "amp", schema.Float(), 1.0, schema.DefaultInputFlags)
	if err != nil {
		return err
	}
	fre, err := b.Input("frequency", "fre", schema.Float(), 1.0, schema.DefaultInputFlags)
	if err != nil {
		return err
	}
	out, err := b.Output("output", "out", schema.Float(), 0.0, schema.DefaultOutputFlags)
	if err != nil {
		return err
	}

	for _, src := range []schema.Handle{in, amp, fre} {
		if err := b.Affects(src, out); err != nil {
			return err
		}
	}
	return nil
}

func (Type) New(s *schema.Schema) (ports.Node, error) {
	n := &Node{}
	for name, dst := range map[string]*schema.Handle{
		"input":     &n.input,
		"amplitude": &n.amplitude,
		"frequency": &n.frequency,
		"output":    &n.output,
	} {
		h, ok := s.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%s: schema has no %q attribute", TypeName, name)
		}
		*dst = h
	}
	return n, nil
}

// Node is one sine instance. It only holds the handles of its type.
type Node struct {
	input, amplitude, frequency, output schema.Handle
}

// Compute produces output; any other plug is Unhandled.
func (n *Node) Compute(plug schema.Handle, ec ports.EvaluationContext) (domain.ComputeStatus, error) {
	if plug != n.output {
		return domain.Unhandled, nil
	}

	t, err := ec.Float(n.input)
	if err != nil {
		return domain.Handled, err
	}
	a, err := ec.Float(n.amplitude)
	if err != nil {
		return domain.Handled, err
	}
	f, err := ec.Float(n.frequency)
	if err != nil {
		return domain.Handled, err
	}

	if err := ec.SetOutput(n.output, Eval(t, a, f)); err != nil {
		return domain.Handled, err
	}
	return domain.Handled, ec.SetClean(n.output)
}

// Eval is the node's transfer function.
func Eval(t, amplitude, frequency float64) float64 {
	return math.Sin(t*frequency) * amplitude
}
