// Package locator implements a bare transform node whose world matrix is
// built from a translation and XYZ rotation (degrees). It is the usual
// source for aim constraint inputs.
package locator

import (
	"fmt"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/ports"
	"github.com/aretw0/sinew/pkg/schema"
	"github.com/aretw0/sinew/pkg/vecmath"
)

const (
	TypeName               = "locator"
	TypeID   domain.TypeID = 0x870010
)

type Type struct{}

func (Type) Name() string { return TypeName }

func (Type) TypeID() domain.TypeID { return TypeID }

func (Type) Initialize(b *schema.Builder) error {
	t, err := b.Input("translate", "t", schema.Point(), nil, schema.DefaultInputFlags)
	if err != nil {
		return err
	}
	r, err := b.Input("rotate", "r", schema.Point(), nil, schema.DefaultInputFlags)
	if err != nil {
		return err
	}
	wm, err := b.Output("worldMatrix", "wm", schema.Matrix(), nil, schema.Readable|schema.Hidden)
	if err != nil {
		return err
	}
	if err := b.Affects(t, wm); err != nil {
		return err
	}
	return b.Affects(r, wm)
}

func (Type) New(s *schema.Schema) (ports.Node, error) {
	n := &Node{}
	for name, dst := range map[string]*schema.Handle{
		"translate":   &n.translate,
		"rotate":      &n.rotate,
		"worldMatrix": &n.world,
	} {
		h, ok := s.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%s: schema has no %q attribute", TypeName, name)
		}
		*dst = h
	}
	return n, nil
}

type Node struct {
	translate, rotate, world schema.Handle
}

func (n *Node) Compute(plug schema.Handle, ec ports.EvaluationContext) (domain.ComputeStatus, error) {
	if plug != n.world {
		return domain.Unhandled, nil
	}
	t, err := ec.Vector(n.translate)
	if err != nil {
		return domain.Handled, err
	}
	r, err := ec.Vector(n.rotate)
	if err != nil {
		return domain.Handled, err
	}

	if err := ec.SetOutput(n.world, WorldMatrix(t, r)); err != nil {
		return domain.Handled, err
	}
	return domain.Handled, ec.SetClean(n.world)
}

// WorldMatrix composes rotate (XYZ degrees) then translate.
func WorldMatrix(translate, rotateDeg vecmath.Vector3) vecmath.Matrix4 {
	return vecmath.ComposeXYZ(rotateDeg.Radians()).Mul(vecmath.Translation(translate))
}
