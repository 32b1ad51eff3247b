package schema

import (
	"strings"
)

// Direction tells whether an attribute is read by compute or produced by it.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Flags are the host-facing attribute properties.
type Flags uint8

const (
	Storable Flags = 1 << iota
	Keyable
	Hidden
	Writable
	Readable
)

// DefaultInputFlags matches what a host assigns a plain numeric input.
const DefaultInputFlags = Storable | Keyable | Writable | Readable

// DefaultOutputFlags marks an output as computed: readable, never keyed.
const DefaultOutputFlags = Storable | Writable | Readable

func (f Flags) Has(flag Flags) bool { return f&flag == flag }

var flagNames = []struct {
	flag Flags
	name string
}{
	{Storable, "storable"},
	{Keyable, "keyable"},
	{Hidden, "hidden"},
	{Writable, "writable"},
	{Readable, "readable"},
}

// Names lists the set flags in declaration order.
func (f Flags) Names() []string {
	var out []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			out = append(out, fn.name)
		}
	}
	return out
}

func (f Flags) String() string { return strings.Join(f.Names(), "|") }

// Attribute describes one typed, named slot of a node type.
type Attribute struct {
	Name      string
	ShortName string
	Type      Type
	Default   any
	Direction Direction
	Flags     Flags
}

// identity ties handles to the schema (and builder) that issued them.
type identity struct {
	typeName string
}

// Handle is an opaque reference to an attribute of one node type. Handles
// are only meaningful to the Schema that issued them; the zero Handle is
// never valid.
type Handle struct {
	owner *identity
	index int
}

// Valid reports whether h was issued by some builder.
func (h Handle) Valid() bool { return h.owner != nil }

// Index is the declaration position of the attribute within its type.
func (h Handle) Index() int { return h.index }
