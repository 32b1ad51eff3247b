package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/vecmath"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format selects a parser.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatOf picks the format from a file extension. Unknown extensions are
// read as YAML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return FormatHCL
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// LoadFile reads and parses a scene file.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data, FormatOf(path), path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Parse decodes data in the given format. filename only labels
// diagnostics.
func Parse(data []byte, format Format, filename string) (*Scene, error) {
	switch format {
	case FormatHCL:
		return parseHCL(data, filename)
	case FormatYAML, FormatJSON:
		// JSON is a subset of YAML 1.2
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		s, err := FromMap(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown scene format %q", format)
}

type rawCurve struct {
	Points        [][]float64 `mapstructure:"cv_position"`
	OverrideColor int         `mapstructure:"override_color"`
}

type rawScene struct {
	Nodes       []Node                 `mapstructure:"nodes"`
	Connections []Connection           `mapstructure:"connections"`
	Evaluate    []string               `mapstructure:"evaluate"`
	Curves      map[string]rawCurve    `mapstructure:"curves"`
	AnimCurves  map[string][][]float64 `mapstructure:"anim_curves"`
}

// FromMap decodes a generic document, as produced by a YAML or JSON
// decoder, into a Scene. Unknown keys are rejected.
func FromMap(m map[string]any) (*Scene, error) {
	var raw rawScene
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &raw,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return raw.build()
}

func (raw rawScene) build() (*Scene, error) {
	s := &Scene{
		Nodes:       raw.Nodes,
		Connections: raw.Connections,
		Evaluate:    raw.Evaluate,
	}
	for i, n := range s.Nodes {
		if n.Name == "" || n.Type == "" {
			return nil, fmt.Errorf("node %d: name and type are required", i)
		}
	}
	for i, c := range s.Connections {
		if c.From == "" || c.To == "" {
			return nil, fmt.Errorf("connection %d: from and to are required", i)
		}
	}

	if len(raw.Curves) > 0 {
		s.Curves = make(domain.CurveDocument, len(raw.Curves))
		for path, rc := range raw.Curves {
			pts, err := points(rc.Points)
			if err != nil {
				return nil, fmt.Errorf("curve %s: %w", path, err)
			}
			s.Curves[path] = domain.Curve{Path: path, Points: pts, OverrideColor: rc.OverrideColor}
		}
	}

	if len(raw.AnimCurves) > 0 {
		s.AnimCurves = make(map[string][]domain.Keyframe, len(raw.AnimCurves))
		for id, pairs := range raw.AnimCurves {
			keys, err := keyframes(pairs)
			if err != nil {
				return nil, fmt.Errorf("anim curve %s: %w", id, err)
			}
			s.AnimCurves[id] = keys
		}
	}
	return s, nil
}

func points(raw [][]float64) ([]vecmath.Vector3, error) {
	out := make([]vecmath.Vector3, len(raw))
	for i, p := range raw {
		if len(p) != 3 {
			return nil, fmt.Errorf("cv %d: expected 3 components, got %d", i, len(p))
		}
		out[i] = vecmath.Vec3(p[0], p[1], p[2])
	}
	return out, nil
}

func keyframes(raw [][]float64) ([]domain.Keyframe, error) {
	out := make([]domain.Keyframe, len(raw))
	for i, p := range raw {
		if len(p) != 2 {
			return nil, fmt.Errorf("key %d: expected [time, value], got %d numbers", i, len(p))
		}
		out[i] = domain.Keyframe{Time: p[0], Value: p[1]}
	}
	return out, nil
}
