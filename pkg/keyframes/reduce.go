// Package keyframes removes keys that linear interpolation between their
// neighbours already reproduces.
package keyframes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/ports"
)

var (
	ErrDuplicateTime  = errors.New("two keys share the same time")
	ErrInvalidEpsilon = errors.New("epsilon must be a finite non-negative number")
)

// Result is the outcome of reducing one curve.
type Result struct {
	Kept    []domain.Keyframe `json:"kept"`
	Removed []domain.Keyframe `json:"removed"`
}

// Reduce sorts keys by time and drops every interior key whose value lies
// strictly within epsilon of the line between the keys that survive on
// either side of it. The first and last keys always stay. With epsilon 0
// nothing is removed.
func Reduce(keys []domain.Keyframe, epsilon float64) (Result, error) {
	if epsilon < 0 || math.IsNaN(epsilon) || math.IsInf(epsilon, 0) {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidEpsilon, epsilon)
	}

	sorted := append([]domain.Keyframe(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Time == sorted[i-1].Time {
			return Result{}, fmt.Errorf("%w: t=%v", ErrDuplicateTime, sorted[i].Time)
		}
	}

	if len(sorted) <= 2 {
		return Result{Kept: sorted}, nil
	}

	res := Result{Kept: []domain.Keyframe{sorted[0]}}
	anchor := 0
	for i := 1; i < len(sorted)-1; i++ {
		// can the span anchor..i+1 absorb key i?
		if spanFits(sorted, anchor, i+1, epsilon) {
			continue
		}
		res.Removed = append(res.Removed, sorted[anchor+1:i]...)
		res.Kept = append(res.Kept, sorted[i])
		anchor = i
	}
	last := len(sorted) - 1
	res.Removed = append(res.Removed, sorted[anchor+1:last]...)
	res.Kept = append(res.Kept, sorted[last])
	return res, nil
}

// spanFits reports whether every key strictly between a and b is within
// epsilon of the segment from a to b.
func spanFits(keys []domain.Keyframe, a, b int, epsilon float64) bool {
	ka, kb := keys[a], keys[b]
	slope := (kb.Value - ka.Value) / (kb.Time - ka.Time)
	for i := a + 1; i < b; i++ {
		want := ka.Value + slope*(keys[i].Time-ka.Time)
		if !(math.Abs(keys[i].Value-want) < epsilon) {
			return false
		}
	}
	return true
}

// Reducer applies Reduce to curves held by a store.
type Reducer struct {
	Store  ports.AnimCurveStore
	Logger *slog.Logger
}

// ReduceCurve reduces one curve and writes the surviving keys back.
func (r *Reducer) ReduceCurve(ctx context.Context, id string, epsilon float64) (Result, error) {
	keys, err := r.Store.Keys(ctx, id)
	if err != nil {
		return Result{}, err
	}
	res, err := Reduce(keys, epsilon)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", id, err)
	}
	if len(res.Removed) == 0 {
		return res, nil
	}
	if err := r.Store.SetKeys(ctx, id, res.Kept); err != nil {
		return Result{}, fmt.Errorf("%s: %w", id, err)
	}
	if r.Logger != nil {
		r.Logger.Debug("curve reduced", "curve", id, "kept", len(res.Kept), "removed", len(res.Removed))
	}
	return res, nil
}

// ReduceAll reduces each curve in ids, or every curve in the store when ids
// is empty. A failing curve does not stop the others; failures are joined
// into the returned error.
func (r *Reducer) ReduceAll(ctx context.Context, ids []string, epsilon float64) (map[string]Result, error) {
	if len(ids) == 0 {
		var err error
		if ids, err = r.Store.AnimCurves(ctx); err != nil {
			return nil, err
		}
	}

	out := make(map[string]Result, len(ids))
	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := r.ReduceCurve(ctx, id, epsilon)
		if err != nil {
			if r.Logger != nil {
				r.Logger.Warn("curve not reduced", "curve", id, "error", err)
			}
			errs = append(errs, err)
			continue
		}
		out[id] = res
	}
	return out, errors.Join(errs...)
}
