// Package schema describes the typed attributes of a node type.
//
// A node type registers its attributes and the affects edges between them on
// a Builder during initialization. Build freezes the result into a Schema
// that every instance of the type shares.
//
// Basic usage:
//
//	b := schema.NewBuilder("sineNode", 0x870001)
//	in, _ := b.Input("input", "in", schema.Float(), 1.0, schema.Storable|schema.Writable|schema.Readable)
//	out, _ := b.Output("output", "out", schema.Float(), 0.0, schema.DefaultOutputFlags)
//	_ = b.Affects(in, out)
//
//	s, err := b.Build()
//
// Three value types exist: float (float64), point (vecmath.Vector3) and
// matrix (vecmath.Matrix4). Coerce converts the loosely typed values that
// come out of YAML, JSON or HCL decoding into them:
//
//	vals, err := schema.Coerce(s, map[string]any{"in": 2})
//
// Handles are opaque and only valid for the schema that issued them.
package schema
