package aim

import (
	"math"
	"strings"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/vecmath"
)

// Fallback records which degenerate-geometry rule a solve used.
type Fallback uint8

const (
	// AimFallback: the aim target coincides with the constrained object;
	// +X is used as the aim direction.
	AimFallback Fallback = 1 << iota
	// UpFallback: the up reference is on the aim line (or coincides with the
	// object); the principal axis least aligned with aim is used instead.
	UpFallback
)

func (f Fallback) String() string {
	var parts []string
	if f&AimFallback != 0 {
		parts = append(parts, "aim")
	}
	if f&UpFallback != 0 {
		parts = append(parts, "up")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// MarshalText encodes the fallback set as its String form.
func (f Fallback) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// Solution is the full result of an aim solve.
type Solution struct {
	Aim  vecmath.Vector3 `json:"aim"`
	Up   vecmath.Vector3 `json:"up"`
	Side vecmath.Vector3 `json:"side"`
	// Basis has rows [Aim, Up, Side] and zero translation.
	Basis vecmath.Matrix4 `json:"basis"`
	// Rotation holds XYZ Euler angles in degrees.
	Rotation  vecmath.Vector3 `json:"rotate"`
	Fallbacks Fallback        `json:"fallback"`
}

type options struct {
	strict bool
}

// Option configures Solve.
type Option func(*options)

// WithStrict makes degenerate geometry an error instead of a fallback.
func WithStrict() Option {
	return func(o *options) { o.strict = true }
}

// upCandidates is the tie-break order for the up fallback.
var upCandidates = [...]vecmath.Vector3{vecmath.UnitY, vecmath.UnitZ, vecmath.UnitX}

// Solve orients the constrained transform toward the aim transform, using
// the up transform to fix the roll. Only the translations of the three
// matrices are used.
func Solve(con, aim, up vecmath.Matrix4, opts ...Option) (Solution, error) {
	return SolvePositions(con.Translate(), aim.Translate(), up.Translate(), opts...)
}

// SolvePositions is Solve on world positions.
func SolvePositions(pc, pa, pu vecmath.Vector3, opts ...Option) (Solution, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	for _, p := range []struct {
		name string
		v    vecmath.Vector3
	}{{"constraint", pc}, {"aim", pa}, {"up", pu}} {
		if !p.v.IsFinite() {
			return Solution{}, &domain.DegenerateVectorError{Vector: p.name, Reason: "non-finite translation " + p.v.String()}
		}
	}

	var sol Solution

	aimVec, ok := pa.Sub(pc).Normalize()
	if !ok {
		if o.strict {
			return Solution{}, &domain.DegenerateVectorError{Vector: "aim", Reason: "aim target coincides with constrained object"}
		}
		aimVec = vecmath.UnitX
		sol.Fallbacks |= AimFallback
	}

	rawUp := pu.Sub(pc)
	upVec, ok := orthogonalize(rawUp, aimVec).Normalize()
	if !ok {
		if o.strict {
			return Solution{}, &domain.DegenerateVectorError{Vector: "up", Reason: "up reference is parallel to the aim vector"}
		}
		upVec = fallbackUp(aimVec)
		sol.Fallbacks |= UpFallback
	}

	// aim × up, never up × aim: the order fixes handedness.
	side, _ := aimVec.Cross(upVec).Normalize()

	sol.Aim, sol.Up, sol.Side = aimVec, upVec, side
	sol.Basis = vecmath.FromRows(aimVec, upVec, side)
	sol.Rotation = sol.Basis.EulerXYZ().Degrees()
	return sol, nil
}

// orthogonalize removes the component of v along the unit vector axis
// (one Gram-Schmidt step).
func orthogonalize(v, axis vecmath.Vector3) vecmath.Vector3 {
	return v.Sub(axis.Scale(axis.Dot(v)))
}

// fallbackUp picks the principal axis least aligned with aim and makes it
// orthogonal to aim. Ties go to the earlier candidate.
func fallbackUp(aimVec vecmath.Vector3) vecmath.Vector3 {
	best := upCandidates[0]
	bestDot := math.Abs(aimVec.Dot(best))
	for _, c := range upCandidates[1:] {
		if d := math.Abs(aimVec.Dot(c)); d < bestDot {
			best, bestDot = c, d
		}
	}
	// |dot| <= 1/sqrt(3) for the best axis, so this cannot collapse.
	up, _ := orthogonalize(best, aimVec).Normalize()
	return up
}
