package domain

import "github.com/aretw0/sinew/pkg/vecmath"

// Curve is the exchangeable state of one NURBS-like curve object: the
// world-space position of each control point and its display color index.
type Curve struct {
	Path          string            `json:"-"`
	Points        []vecmath.Vector3 `json:"cv_position"`
	OverrideColor int               `json:"override_color"`
}

// CurveDocument maps object paths to curve state.
type CurveDocument map[string]Curve

// Clone returns a deep copy.
func (d CurveDocument) Clone() CurveDocument {
	if d == nil {
		return nil
	}
	out := make(CurveDocument, len(d))
	for k, c := range d {
		c.Points = append([]vecmath.Vector3(nil), c.Points...)
		out[k] = c
	}
	return out
}

// Keyframe is one (time, value) sample of an animation curve.
type Keyframe struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}
