package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/sinew/internal/runtime"
)

// Overlay selects the evaluation state to draw on top of the graph.
type Overlay struct {
	// Dirty colours every node by whether any of its outputs is dirty.
	Dirty bool
	// Current highlights one node, usually the owner of the plug just read.
	Current string
}

// GenerateMermaid produces a Mermaid flowchart from a graph snapshot.
// Shapes follow the node type:
// - locator: ((Circle))
// - aimConstraint: [[Subroutine]]
// - sineNode: [/Parallelogram/]
// - anything else: [Rectangle]
// Each connection is an edge labelled "output → input".
func GenerateMermaid(snap runtime.Snapshot, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, node := range snap.Nodes {
		opener, closer := "[", "]"
		switch node.Type {
		case "locator":
			opener, closer = "((", "))"
		case "aimConstraint":
			opener, closer = "[[", "]]"
		case "sineNode":
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s<br/>%s\"%s\n",
			sanitizeMermaidID(node.Name), opener, escapeLabel(node.Name), escapeLabel(node.Type), closer)
	}

	for _, c := range snap.Connections {
		fromNode, fromAttr, _ := strings.Cut(c.From, ".")
		toNode, toAttr, _ := strings.Cut(c.To, ".")
		fmt.Fprintf(&sb, "    %s -- \"%s → %s\" --> %s\n",
			sanitizeMermaidID(fromNode), escapeLabel(fromAttr), escapeLabel(toAttr), sanitizeMermaidID(toNode))
	}

	if overlay != nil && (overlay.Dirty || overlay.Current != "") {
		sb.WriteString("\n    %% Evaluation state\n")
		// black text stays readable on both light and dark themes
		sb.WriteString("    classDef dirty fill:#ffe0b2,stroke:#e65100,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef clean fill:#e8f5e9,stroke:#1b5e20,stroke-width:1px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		if overlay.Dirty {
			for _, node := range snap.Nodes {
				class := "clean"
				for _, dirty := range node.Dirty {
					if dirty {
						class = "dirty"
						break
					}
				}
				fmt.Fprintf(&sb, "    class %s %s;\n", sanitizeMermaidID(node.Name), class)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "\"", "_")
	return s
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
