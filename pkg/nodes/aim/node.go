// Package aim implements the aim-constraint node: it rotates a constrained
// object so its X axis points at a target and its Y axis leans toward an
// up reference.
package aim

import (
	"fmt"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/ports"
	"github.com/aretw0/sinew/pkg/schema"
)

const (
	TypeName               = "aimConstraint"
	TypeID   domain.TypeID = 0x112233
)

// Type is the aim constraint node type.
type Type struct {
	// Strict turns degenerate geometry into compute errors.
	Strict bool
}

func (Type) Name() string { return TypeName }

func (Type) TypeID() domain.TypeID { return TypeID }

func (Type) Initialize(b *schema.Builder) error {
	flags := schema.Writable | schema.Storable | schema.Readable | schema.Keyable

	con, err := b.Input("constraintMatrix", "constraintMatrix", schema.Matrix(), nil, flags)
	if err != nil {
		return err
	}
	target, err := b.Input("aimMatrix", "aimMatrix", schema.Matrix(), nil, flags)
	if err != nil {
		return err
	}
	up, err := b.Input("worldUpMatrix", "worldUpMatrix", schema.Matrix(), nil, flags)
	if err != nil {
		return err
	}
	out, err := b.Output("constraintRotate", "constraintRotate", schema.Point(), nil, schema.DefaultOutputFlags)
	if err != nil {
		return err
	}

	for _, src := range []schema.Handle{con, target, up} {
		if err := b.Affects(src, out); err != nil {
			return err
		}
	}
	return nil
}

func (t Type) New(s *schema.Schema) (ports.Node, error) {
	n := &Node{strict: t.Strict}
	for name, dst := range map[string]*schema.Handle{
		"constraintMatrix": &n.con,
		"aimMatrix":        &n.aim,
		"worldUpMatrix":    &n.up,
		"constraintRotate": &n.rotate,
	} {
		h, ok := s.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%s: schema has no %q attribute", TypeName, name)
		}
		*dst = h
	}
	return n, nil
}

// Node is one aim constraint instance.
type Node struct {
	con, aim, up, rotate schema.Handle
	strict               bool
}

func (n *Node) Compute(plug schema.Handle, ec ports.EvaluationContext) (domain.ComputeStatus, error) {
	if plug != n.rotate {
		return domain.Unhandled, nil
	}

	con, err := ec.Matrix(n.con)
	if err != nil {
		return domain.Handled, err
	}
	target, err := ec.Matrix(n.aim)
	if err != nil {
		return domain.Handled, err
	}
	up, err := ec.Matrix(n.up)
	if err != nil {
		return domain.Handled, err
	}

	var opts []Option
	if n.strict {
		opts = append(opts, WithStrict())
	}
	sol, err := Solve(con, target, up, opts...)
	if err != nil {
		return domain.Handled, err
	}
	if sol.Fallbacks != 0 {
		ec.Logger().Warn("degenerate aim geometry, using fallback axis",
			"fallback", sol.Fallbacks.String(),
			"constraint", con.Translate().String(),
			"aim", target.Translate().String(),
			"up", up.Translate().String())
	}

	if err := ec.SetOutput(n.rotate, sol.Rotation); err != nil {
		return domain.Handled, err
	}
	return domain.Handled, ec.SetClean(n.rotate)
}
