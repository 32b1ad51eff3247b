package scene

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclFile is the top-level shape of an .hcl scene:
//
//	node "con" "locator" {
//	  translate = [1, 1, 3]
//	}
//	connect {
//	  from = "con.worldMatrix"
//	  to   = "solver.constraintMatrix"
//	}
//	curve "circle1" {
//	  cv_position    = [[0, 0, 0], [1, 0, 0]]
//	  override_color = 13
//	}
//	anim_curve "hip_translateY" {
//	  keys = [[1, 0], [2, 0.5]]
//	}
//	evaluate = ["solver.constraintRotate"]
type hclFile struct {
	Nodes      []*hclNode      `hcl:"node,block"`
	Connects   []*hclConnect   `hcl:"connect,block"`
	Curves     []*hclCurve     `hcl:"curve,block"`
	AnimCurves []*hclAnimCurve `hcl:"anim_curve,block"`
	Evaluate   []string        `hcl:"evaluate,optional"`
}

type hclNode struct {
	Name   string         `hcl:"name,label"`
	Type   string         `hcl:"type,label"`
	Values hcl.Attributes `hcl:",remain"`
}

type hclConnect struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

type hclCurve struct {
	Path          string      `hcl:"path,label"`
	Points        [][]float64 `hcl:"cv_position"`
	OverrideColor int         `hcl:"override_color,optional"`
}

type hclAnimCurve struct {
	ID   string      `hcl:"id,label"`
	Keys [][]float64 `hcl:"keys"`
}

func parseHCL(src []byte, filename string) (*Scene, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	raw := rawScene{
		Evaluate:   parsed.Evaluate,
		Curves:     make(map[string]rawCurve, len(parsed.Curves)),
		AnimCurves: make(map[string][][]float64, len(parsed.AnimCurves)),
	}
	for _, n := range parsed.Nodes {
		values, err := attributeValues(n.Values)
		if err != nil {
			return nil, fmt.Errorf("%s: node %s: %w", filename, n.Name, err)
		}
		raw.Nodes = append(raw.Nodes, Node{Name: n.Name, Type: n.Type, Values: values})
	}
	for _, c := range parsed.Connects {
		raw.Connections = append(raw.Connections, Connection{From: c.From, To: c.To})
	}
	for _, c := range parsed.Curves {
		if _, dup := raw.Curves[c.Path]; dup {
			return nil, fmt.Errorf("%s: duplicate curve %q", filename, c.Path)
		}
		raw.Curves[c.Path] = rawCurve{Points: c.Points, OverrideColor: c.OverrideColor}
	}
	for _, a := range parsed.AnimCurves {
		if _, dup := raw.AnimCurves[a.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate anim curve %q", filename, a.ID)
		}
		raw.AnimCurves[a.ID] = a.Keys
	}

	s, err := raw.build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// attributeValues evaluates literal node attributes. No variables or
// functions are available.
func attributeValues(attrs hcl.Attributes) (map[string]any, error) {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]any, len(attrs))
	for _, name := range names {
		v, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		gv, err := ctyToGo(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = gv
	}
	return out, nil
}

func ctyToGo(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	switch {
	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			gv, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = gv
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			gv, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out = append(out, gv)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}
