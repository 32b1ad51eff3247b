package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/aretw0/sinew/pkg/vecmath"
	"github.com/mitchellh/mapstructure"
)

// Type defines the contract for attribute value types.
// Validate accepts only the canonical Go value; Coerce converts the loosely
// typed values produced by YAML, JSON or HCL decoding into it.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "float", "matrix").
	Name() string
	// Validate checks if a value is the canonical representation of this type.
	Validate(value any) error
	// Coerce converts value into the canonical representation.
	Coerce(value any) (any, error)
	// Zero returns the value used when an attribute declares no default.
	Zero() any
}

// --- Built-in Type Implementations ---

// FloatType holds float64 values.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value any) error {
	if _, ok := value.(float64); !ok {
		return fmt.Errorf("expected float64, got %T", value)
	}
	return nil
}

func (t *FloatType) Coerce(value any) (any, error) {
	return toFloat(value)
}

func (t *FloatType) Zero() any { return 0.0 }

// PointType holds vecmath.Vector3 values.
type PointType struct{}

func (t *PointType) Name() string { return "point" }

func (t *PointType) Validate(value any) error {
	if _, ok := value.(vecmath.Vector3); !ok {
		return fmt.Errorf("expected vecmath.Vector3, got %T", value)
	}
	return nil
}

func (t *PointType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case vecmath.Vector3:
		return v, nil
	case *vecmath.Vector3:
		return *v, nil
	case [3]float64:
		return vecmath.Vec3(v[0], v[1], v[2]), nil
	case map[string]any:
		var xyz struct{ X, Y, Z float64 }
		if err := decodeStrict(v, &xyz); err != nil {
			return nil, fmt.Errorf("point: %w", err)
		}
		return vecmath.Vec3(xyz.X, xyz.Y, xyz.Z), nil
	}
	vals, err := toFloats(value)
	if err != nil {
		return nil, fmt.Errorf("point: %w", err)
	}
	if len(vals) != 3 {
		return nil, fmt.Errorf("point: expected 3 components, got %d", len(vals))
	}
	return vecmath.Vec3(vals[0], vals[1], vals[2]), nil
}

func (t *PointType) Zero() any { return vecmath.Zero }

// MatrixType holds vecmath.Matrix4 values.
type MatrixType struct{}

func (t *MatrixType) Name() string { return "matrix" }

func (t *MatrixType) Validate(value any) error {
	if _, ok := value.(vecmath.Matrix4); !ok {
		return fmt.Errorf("expected vecmath.Matrix4, got %T", value)
	}
	return nil
}

// transform is the map form of a matrix: rotate (XYZ degrees) then translate.
type transform struct {
	Translate []float64 `mapstructure:"translate"`
	Rotate    []float64 `mapstructure:"rotate"`
}

// Coerce accepts a Matrix4, 16 row-major numbers, 4 rows of 4 numbers, or a
// map with optional "translate" and "rotate" (degrees, XYZ) entries.
func (t *MatrixType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case vecmath.Matrix4:
		return v, nil
	case *vecmath.Matrix4:
		return *v, nil
	case map[string]any:
		var tr transform
		if err := decodeStrict(v, &tr); err != nil {
			return nil, fmt.Errorf("matrix: %w", err)
		}
		return tr.matrix()
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if rv.Len() == 4 {
			// nested rows
			var flat []float64
			for i := 0; i < 4; i++ {
				row, err := toFloats(rv.Index(i).Interface())
				if err != nil || len(row) != 4 {
					flat = nil
					break
				}
				flat = append(flat, row...)
			}
			if m, ok := vecmath.FromSlice(flat); ok {
				return m, nil
			}
		}
	}
	vals, err := toFloats(value)
	if err != nil {
		return nil, fmt.Errorf("matrix: %w", err)
	}
	m, ok := vecmath.FromSlice(vals)
	if !ok {
		return nil, fmt.Errorf("matrix: expected 16 values, got %d", len(vals))
	}
	return m, nil
}

func (t *MatrixType) Zero() any { return vecmath.Identity() }

func (tr transform) matrix() (vecmath.Matrix4, error) {
	var tv, rv vecmath.Vector3
	if tr.Translate != nil {
		if len(tr.Translate) != 3 {
			return vecmath.Matrix4{}, fmt.Errorf("matrix: translate needs 3 values, got %d", len(tr.Translate))
		}
		tv = vecmath.Vec3(tr.Translate[0], tr.Translate[1], tr.Translate[2])
	}
	if tr.Rotate != nil {
		if len(tr.Rotate) != 3 {
			return vecmath.Matrix4{}, fmt.Errorf("matrix: rotate needs 3 values, got %d", len(tr.Rotate))
		}
		rv = vecmath.Vec3(tr.Rotate[0], tr.Rotate[1], tr.Rotate[2])
	}
	return vecmath.ComposeXYZ(rv.Radians()).Mul(vecmath.Translation(tv)), nil
}

// --- Factory Functions ---

// Float creates the float attribute type.
func Float() Type { return &FloatType{} }

// Point creates the 3-component point attribute type.
func Point() Type { return &PointType{} }

// Matrix creates the 4x4 matrix attribute type.
func Matrix() Type { return &MatrixType{} }

// ParseType converts a string type name to a Type.
func ParseType(typeStr string) (Type, error) {
	switch typeStr {
	case "float":
		return Float(), nil
	case "point":
		return Point(), nil
	case "matrix":
		return Matrix(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// --- helpers ---

func decodeStrict(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("expected number, got %T", value)
	}
}

func toFloats(value any) ([]float64, error) {
	if fs, ok := value.([]float64); ok {
		return fs, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected list of numbers, got %T", value)
	}
	out := make([]float64, rv.Len())
	for i := range out {
		f, err := toFloat(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}
