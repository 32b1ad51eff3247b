package schema

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/sinew/pkg/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatType(t *testing.T) {
	typ := Float()

	if typ.Name() != "float" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "float")
	}

	tests := []struct {
		value   any
		want    float64
		wantErr bool
	}{
		{3.14, 3.14, false},
		{float32(2), 2, false},
		{42, 42, false},
		{int64(-7), -7, false},
		{uint8(3), 3, false},
		{json.Number("1.5"), 1.5, false},
		{"3.14", 0, true},
		{true, 0, true},
		{nil, 0, true},
	}

	for _, tt := range tests {
		got, err := typ.Coerce(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Coerce(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("Coerce(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}

	if err := typ.Validate(42); err == nil {
		t.Errorf("Validate(42) should require float64")
	}
	if err := typ.Validate(42.0); err != nil {
		t.Errorf("Validate(42.0) error = %v", err)
	}
}

func TestPointType(t *testing.T) {
	typ := Point()
	assert.Equal(t, "point", typ.Name())

	tests := []struct {
		desc    string
		value   any
		want    vecmath.Vector3
		wantErr bool
	}{
		{"vector", vecmath.Vec3(1, 2, 3), vecmath.Vec3(1, 2, 3), false},
		{"array", [3]float64{1, 2, 3}, vecmath.Vec3(1, 2, 3), false},
		{"any slice", []any{1, 2.5, -3}, vecmath.Vec3(1, 2.5, -3), false},
		{"float slice", []float64{4, 5, 6}, vecmath.Vec3(4, 5, 6), false},
		{"map", map[string]any{"x": 1, "y": 2, "z": 3}, vecmath.Vec3(1, 2, 3), false},
		{"map unknown key", map[string]any{"w": 1}, vecmath.Vector3{}, true},
		{"short slice", []any{1, 2}, vecmath.Vector3{}, true},
		{"strings", []any{"a", "b", "c"}, vecmath.Vector3{}, true},
		{"scalar", 1.0, vecmath.Vector3{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := typ.Coerce(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, typ.Validate(got))
		})
	}
}

func TestMatrixType(t *testing.T) {
	typ := Matrix()
	assert.Equal(t, "matrix", typ.Name())
	assert.Equal(t, vecmath.Identity(), typ.Zero())

	flat := vecmath.Translation(vecmath.Vec3(1, 2, 3)).Slice()
	anyFlat := make([]any, len(flat))
	for i, v := range flat {
		anyFlat[i] = v
	}

	tests := []struct {
		desc    string
		value   any
		want    vecmath.Vector3 // expected translation
		wantErr bool
	}{
		{"matrix", vecmath.Translation(vecmath.Vec3(1, 2, 3)), vecmath.Vec3(1, 2, 3), false},
		{"flat", anyFlat, vecmath.Vec3(1, 2, 3), false},
		{"rows", []any{
			[]any{1, 0, 0, 0},
			[]any{0, 1, 0, 0},
			[]any{0, 0, 1, 0},
			[]any{4, 5, 6, 1},
		}, vecmath.Vec3(4, 5, 6), false},
		{"translate map", map[string]any{"translate": []any{7, 8, 9}}, vecmath.Vec3(7, 8, 9), false},
		{"translate and rotate", map[string]any{"translate": []any{1, 0, 0}, "rotate": []any{0, 90, 0}}, vecmath.Vec3(1, 0, 0), false},
		{"bad translate", map[string]any{"translate": []any{1, 2}}, vecmath.Vector3{}, true},
		{"unknown key", map[string]any{"scale": []any{1, 1, 1}}, vecmath.Vector3{}, true},
		{"wrong length", []any{1, 2, 3}, vecmath.Vector3{}, true},
		{"string", "identity", vecmath.Vector3{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := typ.Coerce(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			m := got.(vecmath.Matrix4)
			assert.True(t, m.Translate().ApproxEqual(tt.want, 1e-12), "translate %v", m.Translate())
		})
	}
}

func TestMatrixType_RotateMap(t *testing.T) {
	got, err := Matrix().Coerce(map[string]any{"rotate": []any{0, 0, 90}})
	require.NoError(t, err)
	m := got.(vecmath.Matrix4)
	// +X rotated 90° about Z lands on +Y
	assert.True(t, m.Row(0).ApproxEqual(vecmath.UnitY, 1e-12), "row0 %v", m.Row(0))
}

func TestParseType(t *testing.T) {
	tests := []struct {
		typeStr  string
		wantName string
		wantErr  bool
	}{
		{"float", "float", false},
		{"point", "point", false},
		{"matrix", "matrix", false},
		{"string", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		typ, err := ParseType(tt.typeStr)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.typeStr, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && typ.Name() != tt.wantName {
			t.Errorf("ParseType(%q).Name() = %q, want %q", tt.typeStr, typ.Name(), tt.wantName)
		}
	}
}
