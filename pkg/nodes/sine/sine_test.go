package sine_test

import (
	"math"
	"testing"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/nodes/sine"
	"github.com/aretw0/sinew/pkg/ports"
	contract "github.com/aretw0/sinew/pkg/ports/tests"
	"github.com/aretw0/sinew/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T) (*schema.Schema, ports.Node) {
	t.Helper()
	b := schema.NewBuilder(sine.TypeName, sine.TypeID)
	require.NoError(t, sine.Type{}.Initialize(b))
	s, err := b.Build()
	require.NoError(t, err)
	n, err := sine.Type{}.New(s)
	require.NoError(t, err)
	return s, n
}

func TestSine_Contract(t *testing.T) {
	contract.NodeTypeContractTest(t, sine.Type{})
}

func TestSine_Compute(t *testing.T) {
	s, n := build(t)
	out, _ := s.Lookup("output")

	tests := []struct {
		t, amp, freq float64
	}{
		{1, 1, 1},
		{0, 5, 3},
		{math.Pi / 2, 2, 1},
		{-3.7, 0.25, 12},
		{100, -1, 0.01},
	}

	for _, tt := range tests {
		ec := contract.NewContext(s)
		require.NoError(t, ec.Set("in", tt.t))
		require.NoError(t, ec.Set("amp", tt.amp))
		require.NoError(t, ec.Set("fre", tt.freq))

		status, err := n.Compute(out, ec)
		require.NoError(t, err)
		assert.Equal(t, domain.Handled, status)

		got, ok := ec.Output("out")
		require.True(t, ok)
		assert.InDelta(t, math.Sin(tt.t*tt.freq)*tt.amp, got.(float64), 1e-12)
		assert.True(t, ec.Clean[out])
	}
}

func TestSine_Defaults(t *testing.T) {
	s, n := build(t)
	out, _ := s.Lookup("out")

	ec := contract.NewContext(s)
	_, err := n.Compute(out, ec)
	require.NoError(t, err)

	got, _ := ec.Output("output")
	assert.InDelta(t, math.Sin(1), got.(float64), 1e-12)
}

func TestSine_UnhandledPlugs(t *testing.T) {
	s, n := build(t)

	for _, name := range []string{"input", "amplitude", "frequency"} {
		h, _ := s.Lookup(name)
		ec := contract.NewContext(s)
		status, err := n.Compute(h, ec)
		require.NoError(t, err)
		assert.Equal(t, domain.Unhandled, status, name)
		assert.Zero(t, ec.Reads, "unhandled compute must not read inputs")
		assert.Empty(t, ec.Outputs)
	}
}

func TestSine_Schema(t *testing.T) {
	s, _ := build(t)

	in, _ := s.Lookup("in")
	attr, _ := s.Attribute(in)
	assert.False(t, attr.Flags.Has(schema.Keyable), "input is not keyable")
	assert.True(t, attr.Flags.Has(schema.Storable))

	amp, _ := s.Lookup("amp")
	attr, _ = s.Attribute(amp)
	assert.True(t, attr.Flags.Has(schema.Keyable))

	out, _ := s.Lookup("out")
	assert.Len(t, s.AffectedBy(out), 3)
}
