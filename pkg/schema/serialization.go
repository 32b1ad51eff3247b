package schema

import (
	"encoding/json"
	"fmt"
)

type attributeJSON struct {
	Name      string   `json:"name"`
	ShortName string   `json:"short_name"`
	Type      string   `json:"type"`
	Direction string   `json:"direction"`
	Flags     []string `json:"flags"`
	Default   any      `json:"default"`
	Affects   []string `json:"affects,omitempty"`
}

type schemaJSON struct {
	Name       string          `json:"name"`
	TypeID     string          `json:"type_id"`
	Attributes []attributeJSON `json:"attributes"`
}

// describe returns the JSON-friendly introspection view of the schema.
func (s *Schema) describe() schemaJSON {
	out := schemaJSON{
		Name:       s.TypeName(),
		TypeID:     s.typeID.String(),
		Attributes: make([]attributeJSON, 0, len(s.attrs)),
	}
	for i, a := range s.attrs {
		aj := attributeJSON{
			Name:      a.Name,
			ShortName: a.ShortName,
			Type:      a.Type.Name(),
			Direction: a.Direction.String(),
			Flags:     a.Flags.Names(),
			Default:   a.Default,
		}
		if aj.Flags == nil {
			aj.Flags = []string{}
		}
		for _, o := range s.affects[i] {
			aj.Affects = append(aj.Affects, s.attrs[o].Name)
		}
		out.Attributes = append(out.Attributes, aj)
	}
	return out
}

// MarshalJSON serializes the schema for introspection. Schemas are built by
// node type initializers only, so there is no UnmarshalJSON.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	for _, a := range s.attrs {
		if a.Type == nil {
			return nil, fmt.Errorf("attribute %s: type is nil", a.Name)
		}
	}
	return json.Marshal(s.describe())
}
