package schema

import (
	"errors"
	"fmt"

	"github.com/aretw0/sinew/pkg/domain"
)

// ErrSchemaSealed is returned by any Builder call made after Build.
var ErrSchemaSealed = errors.New("schema already built")

// Builder collects attributes and affects edges during node type
// initialization. It is used once and then frozen by Build.
type Builder struct {
	ident   *identity
	typeID  domain.TypeID
	attrs   []Attribute
	byName  map[string]int
	affects map[int]map[int]bool
	sealed  bool
}

// NewBuilder starts a schema for the named node type.
func NewBuilder(typeName string, id domain.TypeID) *Builder {
	return &Builder{
		ident:   &identity{typeName: typeName},
		typeID:  id,
		byName:  make(map[string]int),
		affects: make(map[int]map[int]bool),
	}
}

// AddAttribute registers an attribute and returns its handle.
// The default is coerced to the attribute type; a nil default takes the
// type's zero value.
func (b *Builder) AddAttribute(a Attribute) (Handle, error) {
	if b.sealed {
		return Handle{}, ErrSchemaSealed
	}
	if a.Name == "" {
		return Handle{}, b.errorf(a.Name, "attribute name is empty")
	}
	if a.Type == nil {
		return Handle{}, b.errorf(a.Name, "attribute type is nil")
	}
	if a.ShortName == "" {
		a.ShortName = a.Name
	}
	if _, dup := b.byName[a.Name]; dup {
		return Handle{}, b.errorf(a.Name, "duplicate name")
	}
	if _, dup := b.byName[a.ShortName]; dup {
		return Handle{}, b.errorf(a.Name, fmt.Sprintf("duplicate short name %q", a.ShortName))
	}

	if a.Default == nil {
		a.Default = a.Type.Zero()
	} else {
		v, err := a.Type.Coerce(a.Default)
		if err != nil {
			return Handle{}, b.errorf(a.Name, "invalid default: "+err.Error())
		}
		a.Default = v
	}

	idx := len(b.attrs)
	b.attrs = append(b.attrs, a)
	b.byName[a.Name] = idx
	b.byName[a.ShortName] = idx
	return Handle{owner: b.ident, index: idx}, nil
}

// Input registers an input attribute.
func (b *Builder) Input(name, short string, typ Type, def any, flags Flags) (Handle, error) {
	return b.AddAttribute(Attribute{Name: name, ShortName: short, Type: typ, Default: def, Direction: Input, Flags: flags})
}

// Output registers an output attribute.
func (b *Builder) Output(name, short string, typ Type, def any, flags Flags) (Handle, error) {
	return b.AddAttribute(Attribute{Name: name, ShortName: short, Type: typ, Default: def, Direction: Output, Flags: flags})
}

// Affects declares that changing in invalidates out.
func (b *Builder) Affects(in, out Handle) error {
	if b.sealed {
		return ErrSchemaSealed
	}
	src, err := b.resolve(in)
	if err != nil {
		return err
	}
	dst, err := b.resolve(out)
	if err != nil {
		return err
	}
	if src.Direction != Input {
		return b.errorf(src.Name, "affects source must be an input")
	}
	if dst.Direction != Output {
		return b.errorf(dst.Name, "affects target must be an output")
	}
	if b.affects[in.index] == nil {
		b.affects[in.index] = make(map[int]bool)
	}
	b.affects[in.index][out.index] = true
	return nil
}

// Build freezes the builder into an immutable Schema. Every output must be
// affected by at least one input.
func (b *Builder) Build() (*Schema, error) {
	if b.sealed {
		return nil, ErrSchemaSealed
	}

	s := &Schema{
		ident:      b.ident,
		typeID:     b.typeID,
		attrs:      b.attrs,
		byName:     b.byName,
		affects:    make([][]int, len(b.attrs)),
		affectedBy: make([][]int, len(b.attrs)),
	}
	for in := range b.attrs {
		for out := range b.attrs {
			if b.affects[in][out] {
				s.affects[in] = append(s.affects[in], out)
				s.affectedBy[out] = append(s.affectedBy[out], in)
			}
		}
	}
	for i, a := range b.attrs {
		if a.Direction == Output && len(s.affectedBy[i]) == 0 {
			return nil, b.errorf(a.Name, "output is not affected by any input")
		}
	}

	b.sealed = true
	return s, nil
}

func (b *Builder) resolve(h Handle) (Attribute, error) {
	if h.owner != b.ident || h.index < 0 || h.index >= len(b.attrs) {
		return Attribute{}, b.errorf("", "handle was not registered on this type")
	}
	return b.attrs[h.index], nil
}

func (b *Builder) errorf(attr, reason string) error {
	return &SchemaError{Type: b.ident.typeName, Attribute: attr, Reason: reason}
}
