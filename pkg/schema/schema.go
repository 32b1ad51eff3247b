package schema

import (
	"github.com/aretw0/sinew/pkg/domain"
)

// Schema is the frozen attribute layout of a node type. It is shared by
// every instance of the type and never changes after Build.
type Schema struct {
	ident      *identity
	typeID     domain.TypeID
	attrs      []Attribute
	byName     map[string]int
	affects    [][]int
	affectedBy [][]int
}

func (s *Schema) TypeName() string { return s.ident.typeName }

func (s *Schema) TypeID() domain.TypeID { return s.typeID }

// Len is the number of attributes.
func (s *Schema) Len() int { return len(s.attrs) }

// Owns reports whether h was issued for this schema.
func (s *Schema) Owns(h Handle) bool {
	return h.owner == s.ident && h.index >= 0 && h.index < len(s.attrs)
}

// Lookup resolves a long or short attribute name.
func (s *Schema) Lookup(name string) (Handle, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return Handle{}, false
	}
	return s.handle(idx), true
}

// Attribute returns the definition behind h.
func (s *Schema) Attribute(h Handle) (Attribute, bool) {
	if !s.Owns(h) {
		return Attribute{}, false
	}
	return s.attrs[h.index], true
}

// Handles returns every attribute handle in declaration order.
func (s *Schema) Handles() []Handle {
	out := make([]Handle, len(s.attrs))
	for i := range s.attrs {
		out[i] = s.handle(i)
	}
	return out
}

func (s *Schema) Inputs() []Handle { return s.filter(Input) }

func (s *Schema) Outputs() []Handle { return s.filter(Output) }

// Affects lists the outputs invalidated by input in.
func (s *Schema) Affects(in Handle) []Handle {
	if !s.Owns(in) {
		return nil
	}
	return s.handles(s.affects[in.index])
}

// AffectedBy lists the inputs that invalidate output out.
func (s *Schema) AffectedBy(out Handle) []Handle {
	if !s.Owns(out) {
		return nil
	}
	return s.handles(s.affectedBy[out.index])
}

func (s *Schema) filter(dir Direction) []Handle {
	var out []Handle
	for i, a := range s.attrs {
		if a.Direction == dir {
			out = append(out, s.handle(i))
		}
	}
	return out
}

func (s *Schema) handles(idx []int) []Handle {
	out := make([]Handle, len(idx))
	for i, v := range idx {
		out[i] = s.handle(v)
	}
	return out
}

func (s *Schema) handle(idx int) Handle { return Handle{owner: s.ident, index: idx} }
