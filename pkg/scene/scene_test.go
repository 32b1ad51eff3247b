package scene_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/sinew/internal/runtime"
	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/nodes"
	"github.com/aretw0/sinew/pkg/registry"
	"github.com/aretw0/sinew/pkg/scene"
	"github.com/aretw0/sinew/pkg/schema"
	"github.com/aretw0/sinew/pkg/vecmath"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rigYAML = `
nodes:
  - {name: con, type: locator, values: {translate: [1, 1, 3]}}
  - {name: target, type: locator, values: {t: [2, 1, 1]}}
  - {name: up, type: locator, values: {translate: [2, 10, 1]}}
  - name: solver
    type: aimConstraint
connections:
  - {from: con.worldMatrix, to: solver.constraintMatrix}
  - {from: target.wm, to: solver.aimMatrix}
  - {from: up.wm, to: solver.worldUpMatrix}
evaluate: [solver.constraintRotate]
curves:
  circle1:
    cv_position: [[0, 0, 0], [1, 0.5, 2]]
    override_color: 13
anim_curves:
  hip_translateY: [[1, 0.0], [2, 0.5]]
`

const rigHCL = `
node "con" "locator" {
  translate = [1, 1, 3]
}
node "target" "locator" {
  t = [2, 1, 1]
}
node "up" "locator" {
  translate = [2, 10, 1]
}
node "solver" "aimConstraint" {}

connect {
  from = "con.worldMatrix"
  to   = "solver.constraintMatrix"
}
connect {
  from = "target.wm"
  to   = "solver.aimMatrix"
}
connect {
  from = "up.wm"
  to   = "solver.worldUpMatrix"
}

curve "circle1" {
  cv_position    = [[0, 0, 0], [1, 0.5, 2]]
  override_color = 13
}

anim_curve "hip_translateY" {
  keys = [[1, 0.0], [2, 0.5]]
}

evaluate = ["solver.constraintRotate"]
`

const rigJSON = `{
  "nodes": [
    {"name": "con", "type": "locator", "values": {"translate": [1, 1, 3]}},
    {"name": "target", "type": "locator", "values": {"t": [2, 1, 1]}},
    {"name": "up", "type": "locator", "values": {"translate": [2, 10, 1]}},
    {"name": "solver", "type": "aimConstraint"}
  ],
  "connections": [
    {"from": "con.worldMatrix", "to": "solver.constraintMatrix"},
    {"from": "target.wm", "to": "solver.aimMatrix"},
    {"from": "up.wm", "to": "solver.worldUpMatrix"}
  ],
  "evaluate": ["solver.constraintRotate"],
  "curves": {"circle1": {"cv_position": [[0, 0, 0], [1, 0.5, 2]], "override_color": 13}},
  "anim_curves": {"hip_translateY": [[1, 0.0], [2, 0.5]]}
}`

func newEngine(t *testing.T) *runtime.Engine {
	t.Helper()
	reg := registry.NewRegistry()
	for _, nt := range nodes.Builtin() {
		require.NoError(t, reg.RegisterType(nt))
	}
	return runtime.NewEngine(reg)
}

func TestParse_FormatsAgree(t *testing.T) {
	fromYAML, err := scene.Parse([]byte(rigYAML), scene.FormatYAML, "rig.yaml")
	require.NoError(t, err)
	fromHCL, err := scene.Parse([]byte(rigHCL), scene.FormatHCL, "rig.hcl")
	require.NoError(t, err)
	fromJSON, err := scene.Parse([]byte(rigJSON), scene.FormatJSON, "rig.json")
	require.NoError(t, err)

	for name, other := range map[string]*scene.Scene{"hcl": fromHCL, "json": fromJSON} {
		if diff := cmp.Diff(fromYAML.Connections, other.Connections); diff != "" {
			t.Errorf("%s connections (-yaml +%s):\n%s", name, name, diff)
		}
		if diff := cmp.Diff(fromYAML.Curves, other.Curves); diff != "" {
			t.Errorf("%s curves (-yaml +%s):\n%s", name, name, diff)
		}
		if diff := cmp.Diff(fromYAML.AnimCurves, other.AnimCurves); diff != "" {
			t.Errorf("%s anim curves (-yaml +%s):\n%s", name, name, diff)
		}
		assert.Equal(t, fromYAML.Evaluate, other.Evaluate)
		require.Len(t, other.Nodes, len(fromYAML.Nodes))
		for i, n := range fromYAML.Nodes {
			assert.Equal(t, n.Name, other.Nodes[i].Name)
			assert.Equal(t, n.Type, other.Nodes[i].Type)
			assert.Len(t, other.Nodes[i].Values, len(n.Values))
		}
	}

	assert.Equal(t, []string{"solver.constraintRotate"}, fromYAML.Evaluate)
	assert.Equal(t, domain.Curve{
		Path:          "circle1",
		Points:        []vecmath.Vector3{vecmath.Zero, vecmath.Vec3(1, 0.5, 2)},
		OverrideColor: 13,
	}, fromYAML.Curves["circle1"])
	assert.Equal(t, []domain.Keyframe{{Time: 1, Value: 0}, {Time: 2, Value: 0.5}}, fromYAML.AnimCurves["hip_translateY"])
}

func TestApply_AimRig(t *testing.T) {
	for name, src := range map[scene.Format]string{
		scene.FormatYAML: rigYAML,
		scene.FormatHCL:  rigHCL,
		scene.FormatJSON: rigJSON,
	} {
		t.Run(string(name), func(t *testing.T) {
			s, err := scene.Parse([]byte(src), name, "rig")
			require.NoError(t, err)

			e := newEngine(t)
			require.NoError(t, scene.Apply(context.Background(), e, s))

			v, err := e.Evaluate(context.Background(), s.Evaluate[0])
			require.NoError(t, err)
			assert.InDelta(t, 63.43494882292201, v.(vecmath.Vector3).Y, 1e-9)
		})
	}
}

func TestApply_AggregatesValueErrors(t *testing.T) {
	s := &scene.Scene{
		Nodes: []scene.Node{
			{Name: "a", Type: "locator", Values: map[string]any{"translate": "here", "bogus": 1}},
			{Name: "w", Type: "sineNode", Values: map[string]any{"amp": 2}},
		},
	}
	e := newEngine(t)
	err := scene.Apply(context.Background(), e, s)

	var agg *schema.AggregateError
	require.True(t, errors.As(err, &agg))
	assert.Len(t, agg.Errors, 2)

	// the good value was still applied
	v, err := e.Evaluate(context.Background(), "w.amplitude")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestApply_StopsOnStructuralErrors(t *testing.T) {
	e := newEngine(t)
	err := scene.Apply(context.Background(), e, &scene.Scene{
		Nodes: []scene.Node{{Name: "a", Type: "nurbsCurve"}},
	})
	assert.ErrorIs(t, err, registry.ErrUnknownType)

	e = newEngine(t)
	err = scene.Apply(context.Background(), e, &scene.Scene{
		Nodes:       []scene.Node{{Name: "a", Type: "sineNode"}, {Name: "b", Type: "locator"}},
		Connections: []scene.Connection{{From: "a.output", To: "b.translate"}},
	})
	assert.ErrorIs(t, err, domain.ErrIncompatiblePlugs)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format scene.Format
		src    string
	}{
		{"unknown key", scene.FormatYAML, "nodez: []"},
		{"node without type", scene.FormatYAML, "nodes: [{name: a}]"},
		{"short cv", scene.FormatYAML, "curves: {c: {cv_position: [[1, 2]]}}"},
		{"bad key pair", scene.FormatYAML, "anim_curves: {a: [[1]]}"},
		{"broken yaml", scene.FormatYAML, "nodes: [\n"},
		{"hcl syntax", scene.FormatHCL, `node "a" {`},
		{"hcl missing label", scene.FormatHCL, `node "a" {}`},
		{"hcl duplicate curve", scene.FormatHCL, "curve \"c\" {\n cv_position = []\n}\ncurve \"c\" {\n cv_position = []\n}\n"},
		{"hcl function call", scene.FormatHCL, "node \"a\" \"locator\" {\n translate = abs(1)\n}\n"},
		{"unknown format", scene.Format("toml"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scene.Parse([]byte(tt.src), tt.format, "bad")
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rig.hcl")
	require.NoError(t, os.WriteFile(path, []byte(rigHCL), 0644))

	s, err := scene.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, s.Nodes, 4)

	_, err = scene.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, scene.FormatHCL, scene.FormatOf("a/b.HCL"))
	assert.Equal(t, scene.FormatJSON, scene.FormatOf("b.json"))
	assert.Equal(t, scene.FormatYAML, scene.FormatOf("b.yml"))
	assert.Equal(t, scene.FormatYAML, scene.FormatOf("noext"))
}

func TestScene_Host(t *testing.T) {
	s, err := scene.Parse([]byte(rigYAML), scene.FormatYAML, "rig.yaml")
	require.NoError(t, err)

	host, err := s.Host()
	require.NoError(t, err)
	assert.Equal(t, []string{"circle1"}, host.Paths())

	keys, err := host.Keys(context.Background(), "hip_translateY")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}
