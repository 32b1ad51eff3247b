package middleware

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/ports"
)

// ErrInvalidCurve is returned by Save for a record the stores cannot
// round-trip.
var ErrInvalidCurve = errors.New("invalid curve record")

type validationMiddleware struct {
	next ports.CurveStore
}

// NewValidationMiddleware rejects documents with an empty object path, a
// non-finite control point or a negative color index, and hands the store
// a deep copy so later edits by the caller never reach it.
func NewValidationMiddleware() Middleware {
	return func(next ports.CurveStore) ports.CurveStore {
		return &validationMiddleware{next: next}
	}
}

func (m *validationMiddleware) Save(ctx context.Context, name string, doc domain.CurveDocument) error {
	paths := make([]string, 0, len(doc))
	for p := range doc {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := checkCurve(p, doc[p]); err != nil {
			return err
		}
	}
	return m.next.Save(ctx, name, doc.Clone())
}

func (m *validationMiddleware) Load(ctx context.Context, name string) (domain.CurveDocument, error) {
	return m.next.Load(ctx, name)
}

func (m *validationMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *validationMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func checkCurve(path string, c domain.Curve) error {
	if path == "" {
		return fmt.Errorf("%w: empty object path", ErrInvalidCurve)
	}
	if c.OverrideColor < 0 {
		return fmt.Errorf("%w: %s: negative color index %d", ErrInvalidCurve, path, c.OverrideColor)
	}
	for i, p := range c.Points {
		for _, v := range p.Array() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s: cv %d is not finite", ErrInvalidCurve, path, i)
			}
		}
	}
	return nil
}
