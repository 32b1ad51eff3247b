package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/sinew/pkg/registry"
)

// TypesMarkdown documents node types as markdown: one section per type with
// a table of its attributes.
func TypesMarkdown(defs []*registry.Definition) string {
	var sb strings.Builder
	sb.WriteString("# Node types\n")
	for _, d := range defs {
		fmt.Fprintf(&sb, "\n## %s\n\nType id `%s`\n\n", d.Name, d.ID)
		sb.WriteString("| Attribute | Short | Type | Direction | Flags | Affects |\n")
		sb.WriteString("|---|---|---|---|---|---|\n")
		for _, h := range d.Schema.Handles() {
			a, _ := d.Schema.Attribute(h)
			var affects []string
			for _, o := range d.Schema.Affects(h) {
				oa, _ := d.Schema.Attribute(o)
				affects = append(affects, oa.Name)
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
				a.Name, a.ShortName, a.Type.Name(), a.Direction, strings.Join(a.Flags.Names(), ", "), strings.Join(affects, ", "))
		}
	}
	return sb.String()
}
