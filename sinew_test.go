package sinew_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/sinew"
	"github.com/aretw0/sinew/internal/logging"
	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/nodes/sine"
	"github.com/aretw0/sinew/pkg/registry"
	"github.com/aretw0/sinew/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sineCopy collides with the built-in sine node by name.
type sineCopy struct{ sine.Type }

func (sineCopy) TypeID() domain.TypeID { return 0x7f0100 }

func TestNew_FailedRegistrationIsLogged(t *testing.T) {
	var buf bytes.Buffer
	eng := sinew.New(
		sinew.WithLogger(logging.NewWithWriter(&buf, slog.LevelInfo, false)),
		sinew.WithNodeTypes(sineCopy{}),
	)

	assert.Contains(t, buf.String(), "node type registration failed")
	assert.Contains(t, buf.String(), "type_id=0x7f0100")

	def, err := eng.Registry().Lookup(sine.TypeName)
	require.NoError(t, err)
	assert.Equal(t, sine.TypeID, def.ID)
	assert.Len(t, eng.Registry().Types(), 3)
}

func TestEngine_Deregister(t *testing.T) {
	var buf bytes.Buffer
	eng := sinew.New(sinew.WithLogger(logging.NewWithWriter(&buf, slog.LevelInfo, false)))

	require.NoError(t, eng.Deregister("locator"))
	_, err := eng.Registry().Lookup("locator")
	assert.ErrorIs(t, err, registry.ErrUnknownType)

	err = eng.Deregister("locator")
	assert.ErrorIs(t, err, registry.ErrUnknownType)
	assert.Contains(t, buf.String(), "node type deregistration failed")

	assert.ErrorIs(t, eng.NewGraph().CreateNode("l", "locator"), registry.ErrUnknownType)
}

func TestEngine_Evaluate(t *testing.T) {
	var computes int
	eng := sinew.New(sinew.WithLifecycleHooks(domain.LifecycleHooks{
		OnCompute: func(context.Context, *domain.ComputeEvent) { computes++ },
	}))

	s := &scene.Scene{
		Nodes: []scene.Node{{Name: "w", Type: "sineNode", Values: map[string]any{"in": 0.0}}},
	}
	ev, err := eng.Evaluate(context.Background(), s, "w.output", "w.missing", "w.amplitude")
	require.NoError(t, err)

	assert.Equal(t, 0.0, ev.Results["w.output"])
	assert.Equal(t, 1.0, ev.Results["w.amplitude"])
	assert.Contains(t, ev.Errors, "w.missing")
	assert.NotContains(t, ev.Results, "w.missing")
	assert.Equal(t, 1, computes)

	dirty, err := ev.Graph.IsDirty("w.output")
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestEngine_EvaluateBuildError(t *testing.T) {
	_, err := sinew.New().Evaluate(context.Background(), &scene.Scene{
		Nodes: []scene.Node{{Name: "a", Type: "nurbsCurve"}},
	})
	assert.ErrorIs(t, err, registry.ErrUnknownType)
}
