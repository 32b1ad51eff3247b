package vecmath

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector3_Basics(t *testing.T) {
	a := Vec3(1, 2, 3)
	b := Vec3(4, 5, 6)

	assert.Equal(t, Vec3(5, 7, 9), a.Add(b))
	assert.Equal(t, Vec3(-3, -3, -3), a.Sub(b))
	assert.Equal(t, Vec3(2, 4, 6), a.Scale(2))
	assert.Equal(t, 32.0, a.Dot(b))
	assert.Equal(t, UnitZ, UnitX.Cross(UnitY))
	assert.Equal(t, UnitX, UnitY.Cross(UnitZ))
	assert.InDelta(t, math.Sqrt(14), a.Length(), 1e-12)
}

func TestVector3_Normalize(t *testing.T) {
	tests := []struct {
		name   string
		in     Vector3
		want   Vector3
		wantOK bool
	}{
		{"axis", Vec3(0, 5, 0), UnitY, true},
		{"diagonal", Vec3(3, 0, 4), Vec3(0.6, 0, 0.8), true},
		{"zero", Zero, Zero, false},
		{"below epsilon", Vec3(1e-12, 0, 0), Vec3(1e-12, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.Normalize()
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, got.ApproxEqual(tt.want, 1e-12), "got %v want %v", got, tt.want)
		})
	}
}

func TestVector3_IsFinite(t *testing.T) {
	assert.True(t, Vec3(1, 2, 3).IsFinite())
	assert.False(t, Vec3(math.NaN(), 0, 0).IsFinite())
	assert.False(t, Vec3(0, math.Inf(1), 0).IsFinite())
}

func TestVector3_JSON(t *testing.T) {
	b, err := json.Marshal(Vec3(1, 2.5, -3))
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2.5, -3]`, string(b))

	var v Vector3
	require.NoError(t, json.Unmarshal([]byte(`[4,5,6]`), &v))
	assert.Equal(t, Vec3(4, 5, 6), v)

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &v))
}

func TestMatrix4_Translate(t *testing.T) {
	m := Translation(Vec3(1, 2, 3))
	assert.Equal(t, Vec3(1, 2, 3), m.Translate())

	r := ComposeXYZ(Vec3(0.3, 0.2, 0.1)).Mul(m)
	assert.True(t, r.Translate().ApproxEqual(Vec3(1, 2, 3), 1e-12))
}

func TestMatrix4_FromSlice(t *testing.T) {
	vals := Identity().Slice()
	vals[12], vals[13], vals[14] = 7, 8, 9
	m, ok := FromSlice(vals)
	require.True(t, ok)
	assert.Equal(t, Vec3(7, 8, 9), m.Translate())

	_, ok = FromSlice(vals[:15])
	assert.False(t, ok)
}

func TestEulerXYZ_RoundTrip(t *testing.T) {
	tests := []Vector3{
		{0, 0, 0},
		{0.1, 0.2, 0.3},
		{-1.2, 0.7, 2.9},
		{math.Pi / 3, -math.Pi / 4, math.Pi / 6},
		{0, 1.5707, 0},
	}
	for _, e := range tests {
		m := ComposeXYZ(e)
		got := m.EulerXYZ()
		assert.True(t, got.ApproxEqual(e, 1e-9), "euler %v extracted as %v", e, got)
	}
}

func TestEulerXYZ_Gimbal(t *testing.T) {
	// At Y = ±90° only x-z is recoverable; the matrix must still round trip.
	for _, y := range []float64{math.Pi / 2, -math.Pi / 2} {
		e := Vec3(ToRadians(30), y, ToRadians(20))
		m := ComposeXYZ(e)
		got := m.EulerXYZ()

		assert.Equal(t, 0.0, got.Z)
		assert.False(t, math.IsNaN(got.X))
		assert.True(t, ComposeXYZ(got).ApproxEqual(m, 1e-9), "y=%v got %v", y, got)
	}
}

func TestEulerXYZ_NearGimbal(t *testing.T) {
	e := Vec3(0.4, math.Pi/2-1e-7, -0.2)
	m := ComposeXYZ(e)
	got := m.EulerXYZ()
	assert.True(t, got.IsFinite())
	assert.True(t, ComposeXYZ(got).ApproxEqual(m, 1e-6))
}

func TestEulerXYZ_AxisAligned(t *testing.T) {
	// rows [aim, up, side] for an aim tilted 63.43° about Y
	s5 := math.Sqrt(5)
	m := FromRows(Vec3(1/s5, 0, -2/s5), UnitY, Vec3(2/s5, 0, 1/s5))
	got := m.EulerXYZ().Degrees()
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 63.43494882292201, got.Y, 1e-9)
	assert.InDelta(t, 0, got.Z, 1e-9)
}
