package ports

import (
	"context"

	"github.com/aretw0/sinew/pkg/domain"
)

// CurveScene is the host-side view of curve objects used by curve export and import.
type CurveScene interface {
	// Curve returns the control points and color of the object at path.
	// Returns domain.ErrObjectNotFound if the path does not resolve.
	Curve(ctx context.Context, path string) (domain.Curve, error)

	// SetCurve overwrites control point positions and color.
	// Returns domain.ErrObjectNotFound or domain.ErrPointCountMismatch.
	SetCurve(ctx context.Context, c domain.Curve) error
}

// AnimCurveStore gives keyframe reduction access to animation curves.
type AnimCurveStore interface {
	// AnimCurves lists curve identifiers.
	AnimCurves(ctx context.Context) ([]string, error)

	// Keys returns the keyframes of a curve.
	// Returns domain.ErrCurveNotFound if the curve does not exist.
	Keys(ctx context.Context, id string) ([]domain.Keyframe, error)

	// SetKeys replaces the keyframes of an existing curve.
	SetKeys(ctx context.Context, id string, keys []domain.Keyframe) error
}

// CurveStore persists exported curve documents by name.
type CurveStore interface {
	// Save persists the document under name.
	Save(ctx context.Context, name string, doc domain.CurveDocument) error

	// Load retrieves a document.
	// Returns domain.ErrDocumentNotFound if the name is unknown.
	Load(ctx context.Context, name string) (domain.CurveDocument, error)

	// Delete removes a document.
	Delete(ctx context.Context, name string) error

	// List returns all stored document names.
	List(ctx context.Context) ([]string, error)
}
