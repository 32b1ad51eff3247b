package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/sinew/internal/presentation/graph"
	"github.com/aretw0/sinew/internal/runtime"
	"github.com/aretw0/sinew/pkg/nodes"
	"github.com/aretw0/sinew/pkg/registry"
	"github.com/sebdah/goldie/v2"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		snap     runtime.Snapshot
		contains []string
	}{
		{
			name: "Node Shapes",
			snap: runtime.Snapshot{Nodes: []runtime.NodeInfo{
				{Name: "loc", Type: "locator"},
				{Name: "aim", Type: "aimConstraint"},
				{Name: "wave", Type: "sineNode"},
				{Name: "other", Type: "custom"},
			}},
			contains: []string{
				`loc(("loc<br/>locator"))`,
				`aim[["aim<br/>aimConstraint"]]`,
				`wave[/"wave<br/>sineNode"/]`,
				`other["other<br/>custom"]`,
			},
		},
		{
			name: "ID Sanitization",
			snap: runtime.Snapshot{Nodes: []runtime.NodeInfo{
				{Name: "hip-ctrl", Type: "locator"},
				{Name: `say "hi"`, Type: "locator"},
			}},
			contains: []string{
				`hip_ctrl(("hip-ctrl<br/>locator"))`,
				`say__hi_(("say 'hi'<br/>locator"))`,
			},
		},
		{
			name: "Connection Labels",
			snap: runtime.Snapshot{
				Nodes:       []runtime.NodeInfo{{Name: "a", Type: "sineNode"}, {Name: "b", Type: "sineNode"}},
				Connections: []runtime.Connection{{From: "a.output", To: "b.input"}},
			},
			contains: []string{`a -- "output → input" --> b`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.snap, nil)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			if strings.Contains(got, "classDef") {
				t.Error("Expected no overlay styles without an overlay")
			}
		})
	}
}

func TestGenerateMermaid_AimRigGolden(t *testing.T) {
	reg := registry.NewRegistry()
	for _, nt := range nodes.Builtin() {
		if err := reg.RegisterType(nt); err != nil {
			t.Fatal(err)
		}
	}
	e := runtime.NewEngine(reg)
	ctx := context.Background()

	steps := []func() error{
		func() error { return e.CreateNode("con", "locator") },
		func() error { return e.CreateNode("target", "locator") },
		func() error { return e.CreateNode("up", "locator") },
		func() error { return e.CreateNode("solver", "aimConstraint") },
		func() error { return e.Connect("con.worldMatrix", "solver.constraintMatrix") },
		func() error { return e.Connect("target.worldMatrix", "solver.aimMatrix") },
		func() error { return e.Connect("up.worldMatrix", "solver.worldUpMatrix") },
		func() error { _, err := e.Evaluate(ctx, "solver.constraintRotate"); return err },
		func() error { return e.SetValue("con.translate", []float64{1, 1, 3}) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	got := graph.GenerateMermaid(e.Inspect(), &graph.Overlay{Dirty: true, Current: "solver"})

	g := goldie.New(t)
	g.Assert(t, "aim_rig", []byte(got))
}
