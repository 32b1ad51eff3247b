package vecmath

import (
	"encoding/json"
	"fmt"
	"math"
)

// Epsilon is the tolerance shared by every degeneracy check in the module:
// vector normalization, aim/up fallbacks and gimbal detection.
const Epsilon = 1e-9

// Vector3 is a 3-component double precision vector.
// It marshals to JSON as a [x, y, z] array.
type Vector3 struct {
	X, Y, Z float64
}

var (
	Zero  = Vector3{}
	UnitX = Vector3{1, 0, 0}
	UnitY = Vector3{0, 1, 0}
	UnitZ = Vector3{0, 0, 1}
)

// Vec3 is shorthand for Vector3{x, y, z}.
func Vec3(x, y, z float64) Vector3 { return Vector3{x, y, z} }

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vector3) Scale(s float64) Vector3 { return Vector3{v.X * s, v.Y * s, v.Z * s} }

func (v Vector3) Dot(o Vector3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns v × o (right-handed).
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns the unit vector along v. ok is false when the length is
// not greater than Epsilon, in which case v is returned unchanged.
func (v Vector3) Normalize() (Vector3, bool) {
	l := v.Length()
	if !(l > Epsilon) {
		return v, false
	}
	return v.Scale(1 / l), true
}

// IsFinite reports whether no component is NaN or ±Inf.
func (v Vector3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// ApproxEqual compares component-wise within tol.
func (v Vector3) ApproxEqual(o Vector3, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol && math.Abs(v.Z-o.Z) <= tol
}

// Array returns the components as [x, y, z].
func (v Vector3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

func (v Vector3) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Array())
}

func (v *Vector3) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("vector3: %w", err)
	}
	if len(arr) != 3 {
		return fmt.Errorf("vector3: expected 3 components, got %d", len(arr))
	}
	*v = Vector3{arr[0], arr[1], arr[2]}
	return nil
}

// Radians converts each component from degrees.
func (v Vector3) Radians() Vector3 {
	return Vector3{ToRadians(v.X), ToRadians(v.Y), ToRadians(v.Z)}
}

// Degrees converts each component from radians.
func (v Vector3) Degrees() Vector3 {
	return Vector3{ToDegrees(v.X), ToDegrees(v.Y), ToDegrees(v.Z)}
}

func ToRadians(deg float64) float64 { return deg * math.Pi / 180 }

func ToDegrees(rad float64) float64 { return rad * 180 / math.Pi }

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
