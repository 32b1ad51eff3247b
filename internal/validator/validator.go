package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/sinew/pkg/registry"
	"github.com/aretw0/sinew/pkg/scene"
	"github.com/aretw0/sinew/pkg/schema"
)

// ValidateScene checks s against the registered node types without
// building a graph. It reports duplicate or unknown nodes, broken plugs,
// connections that do not run from an output to an input, inputs driven
// twice, values set on outputs and connection cycles.
func ValidateScene(reg *registry.Registry, s *scene.Scene) error {
	var errors []string
	schemas := make(map[string]*schema.Schema, len(s.Nodes))

	for _, n := range s.Nodes {
		if _, dup := schemas[n.Name]; dup {
			errors = append(errors, fmt.Sprintf("Duplicate node: '%s'", n.Name))
			continue
		}
		def, err := reg.Lookup(n.Type)
		if err != nil {
			errors = append(errors, fmt.Sprintf("Node '%s': unknown type '%s'", n.Name, n.Type))
			schemas[n.Name] = nil
			continue
		}
		schemas[n.Name] = def.Schema

		attrs := make([]string, 0, len(n.Values))
		for a := range n.Values {
			attrs = append(attrs, a)
		}
		sort.Strings(attrs)
		for _, a := range attrs {
			attr, ok := attribute(def.Schema, a)
			switch {
			case !ok:
				errors = append(errors, fmt.Sprintf("Node '%s': no attribute '%s'", n.Name, a))
			case attr.Direction != schema.Input:
				errors = append(errors, fmt.Sprintf("Node '%s': '%s' is an output", n.Name, a))
			}
		}
	}

	// resolve returns the canonical plug and its attribute, or false when
	// the problem was already recorded.
	resolve := func(plug string) (string, schema.Attribute, bool) {
		node, name, ok := strings.Cut(plug, ".")
		if !ok || name == "" {
			errors = append(errors, fmt.Sprintf("Invalid plug: '%s'", plug))
			return "", schema.Attribute{}, false
		}
		sch, declared := schemas[node]
		if !declared {
			errors = append(errors, fmt.Sprintf("Missing node: '%s' in '%s'", node, plug))
			return "", schema.Attribute{}, false
		}
		if sch == nil {
			return "", schema.Attribute{}, false
		}
		attr, ok := attribute(sch, name)
		if !ok {
			errors = append(errors, fmt.Sprintf("Missing attribute: '%s'", plug))
			return "", schema.Attribute{}, false
		}
		return node + "." + attr.Name, attr, true
	}

	driven := make(map[string]string)
	for _, c := range s.Connections {
		from, src, okFrom := resolve(c.From)
		to, dst, okTo := resolve(c.To)
		if !okFrom || !okTo {
			continue
		}
		if src.Direction != schema.Output || dst.Direction != schema.Input {
			errors = append(errors, fmt.Sprintf("Connection '%s' -> '%s' must run from an output to an input", c.From, c.To))
			continue
		}
		if prev, ok := driven[to]; ok {
			errors = append(errors, fmt.Sprintf("Input '%s' is driven by both '%s' and '%s'", to, prev, from))
			continue
		}
		driven[to] = from
	}

	for _, p := range s.Evaluate {
		resolve(p)
	}

	if node := findCycle(s); node != "" {
		errors = append(errors, fmt.Sprintf("Connection cycle through node '%s'", node))
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

// Unreachable lists, in declaration order, the nodes that no evaluate plug
// depends on. It returns nil when the scene has no evaluate list.
func Unreachable(s *scene.Scene) []string {
	if len(s.Evaluate) == 0 {
		return nil
	}

	upstream := make(map[string][]string)
	for _, c := range s.Connections {
		from, _, _ := strings.Cut(c.From, ".")
		to, _, _ := strings.Cut(c.To, ".")
		upstream[to] = append(upstream[to], from)
	}

	visited := make(map[string]bool)
	var queue []string
	for _, p := range s.Evaluate {
		node, _, _ := strings.Cut(p, ".")
		queue = append(queue, node)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		queue = append(queue, upstream[current]...)
	}

	var out []string
	for _, n := range s.Nodes {
		if !visited[n.Name] {
			out = append(out, n.Name)
		}
	}
	return out
}

func attribute(sch *schema.Schema, name string) (schema.Attribute, bool) {
	h, ok := sch.Lookup(name)
	if !ok {
		return schema.Attribute{}, false
	}
	return sch.Attribute(h)
}

// findCycle returns a node on a connection cycle, or "".
func findCycle(s *scene.Scene) string {
	downstream := make(map[string][]string)
	for _, c := range s.Connections {
		from, _, _ := strings.Cut(c.From, ".")
		to, _, _ := strings.Cut(c.To, ".")
		downstream[from] = append(downstream[from], to)
	}

	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int)
	var visit func(string) string
	visit = func(n string) string {
		switch state[n] {
		case active:
			return n
		case done:
			return ""
		}
		state[n] = active
		for _, next := range downstream[n] {
			if found := visit(next); found != "" {
				return found
			}
		}
		state[n] = done
		return ""
	}

	for _, n := range s.Nodes {
		if found := visit(n.Name); found != "" {
			return found
		}
	}
	return ""
}
