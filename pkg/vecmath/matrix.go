package vecmath

import (
	"math"
)

// Matrix4 is a row-major 4x4 matrix using the row-vector convention
// (p' = p·M). Translation lives in row 3.
type Matrix4 [4][4]float64

// Identity returns the 4x4 identity matrix.
func Identity() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation returns an identity matrix translated by t.
func Translation(t Vector3) Matrix4 {
	m := Identity()
	m[3][0], m[3][1], m[3][2] = t.X, t.Y, t.Z
	return m
}

// FromRows builds a pure rotation/scale matrix with the given 3x3 rows and
// zero translation.
func FromRows(r0, r1, r2 Vector3) Matrix4 {
	m := Identity()
	m.SetRow(0, r0)
	m.SetRow(1, r1)
	m.SetRow(2, r2)
	return m
}

// FromSlice builds a matrix from 16 row-major values.
func FromSlice(vals []float64) (Matrix4, bool) {
	if len(vals) != 16 {
		return Matrix4{}, false
	}
	var m Matrix4
	for i := 0; i < 16; i++ {
		m[i/4][i%4] = vals[i]
	}
	return m, true
}

// Slice flattens the matrix row-major.
func (m Matrix4) Slice() []float64 {
	out := make([]float64, 0, 16)
	for _, row := range m {
		out = append(out, row[:]...)
	}
	return out
}

// Translate returns the translation stored in row 3.
func (m Matrix4) Translate() Vector3 {
	return Vector3{m[3][0], m[3][1], m[3][2]}
}

// Row returns the first three components of row i.
func (m Matrix4) Row(i int) Vector3 {
	return Vector3{m[i][0], m[i][1], m[i][2]}
}

// SetRow overwrites the first three components of row i.
func (m *Matrix4) SetRow(i int, v Vector3) {
	m[i][0], m[i][1], m[i][2] = v.X, v.Y, v.Z
}

// Mul returns m·o.
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += m[i][k] * o[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

// IsFinite reports whether every element is finite.
func (m Matrix4) IsFinite() bool {
	for _, row := range m {
		for _, v := range row {
			if !isFinite(v) {
				return false
			}
		}
	}
	return true
}

// ApproxEqual compares element-wise within tol.
func (m Matrix4) ApproxEqual(o Matrix4, tol float64) bool {
	for i := range m {
		for j := range m[i] {
			if math.Abs(m[i][j]-o[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// RotateX, RotateY and RotateZ return single-axis rotations (radians) in
// row-vector form.
func RotateX(a float64) Matrix4 {
	s, c := math.Sincos(a)
	m := Identity()
	m[1][1], m[1][2] = c, s
	m[2][1], m[2][2] = -s, c
	return m
}

func RotateY(a float64) Matrix4 {
	s, c := math.Sincos(a)
	m := Identity()
	m[0][0], m[0][2] = c, -s
	m[2][0], m[2][2] = s, c
	return m
}

func RotateZ(a float64) Matrix4 {
	s, c := math.Sincos(a)
	m := Identity()
	m[0][0], m[0][1] = c, s
	m[1][0], m[1][1] = -s, c
	return m
}

// ComposeXYZ builds the rotation for XYZ Euler angles in radians: X is
// applied first, then Y, then Z.
func ComposeXYZ(euler Vector3) Matrix4 {
	return RotateX(euler.X).Mul(RotateY(euler.Y)).Mul(RotateZ(euler.Z))
}

// EulerXYZ extracts XYZ Euler angles in radians from the upper 3x3 of m,
// the inverse of ComposeXYZ. When cos(Y) is not greater than Epsilon the Y
// axis is locked at ±90°; Z is then fixed to 0 and the whole twist goes to X.
func (m Matrix4) EulerXYZ() Vector3 {
	cy := math.Hypot(m[0][0], m[0][1])
	y := math.Atan2(-m[0][2], cy)
	if cy <= Epsilon {
		sy := -clamp(m[0][2], -1, 1)
		x := math.Atan2(sy*m[1][0], m[1][1])
		return Vector3{x, y, 0}
	}
	x := math.Atan2(m[1][2], m[2][2])
	z := math.Atan2(m[0][1], m[0][0])
	return Vector3{x, y, z}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
