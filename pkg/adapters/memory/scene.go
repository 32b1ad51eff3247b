package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/vecmath"
)

// Scene is an in-memory host scene holding curve objects and animation
// curves. It implements ports.CurveScene and ports.AnimCurveStore.
type Scene struct {
	mu     sync.RWMutex
	curves map[string]domain.Curve
	anim   map[string][]domain.Keyframe
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		curves: make(map[string]domain.Curve),
		anim:   make(map[string][]domain.Keyframe),
	}
}

// NewFromCurves creates a scene from curve objects keyed by their Path.
func NewFromCurves(curves ...domain.Curve) (*Scene, error) {
	s := NewScene()
	for _, c := range curves {
		if c.Path == "" {
			return nil, fmt.Errorf("curve missing path")
		}
		s.AddCurve(c)
	}
	return s, nil
}

// AddCurve creates or replaces a curve object.
func (s *Scene) AddCurve(c domain.Curve) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Points = append([]vecmath.Vector3(nil), c.Points...)
	s.curves[c.Path] = c
}

// AddAnimCurve creates or replaces an animation curve.
func (s *Scene) AddAnimCurve(id string, keys []domain.Keyframe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anim[id] = append([]domain.Keyframe(nil), keys...)
}

// Paths lists curve object paths in order.
func (s *Scene) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.curves))
	for p := range s.curves {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (s *Scene) Curve(ctx context.Context, path string) (domain.Curve, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.curves[path]
	if !ok {
		return domain.Curve{}, fmt.Errorf("%s: %w", path, domain.ErrObjectNotFound)
	}
	c.Points = append([]vecmath.Vector3(nil), c.Points...)
	return c, nil
}

// SetCurve only updates existing objects and never changes their point count.
func (s *Scene) SetCurve(ctx context.Context, c domain.Curve) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.curves[c.Path]
	if !ok {
		return fmt.Errorf("%s: %w", c.Path, domain.ErrObjectNotFound)
	}
	if len(cur.Points) != len(c.Points) {
		return fmt.Errorf("%s: %w: has %d, got %d", c.Path, domain.ErrPointCountMismatch, len(cur.Points), len(c.Points))
	}
	c.Points = append([]vecmath.Vector3(nil), c.Points...)
	s.curves[c.Path] = c
	return nil
}

func (s *Scene) AnimCurves(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.anim))
	for id := range s.anim {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Scene) Keys(ctx context.Context, id string) ([]domain.Keyframe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys, ok := s.anim[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrCurveNotFound)
	}
	return append([]domain.Keyframe(nil), keys...), nil
}

func (s *Scene) SetKeys(ctx context.Context, id string, keys []domain.Keyframe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.anim[id]; !ok {
		return fmt.Errorf("%s: %w", id, domain.ErrCurveNotFound)
	}
	s.anim[id] = append([]domain.Keyframe(nil), keys...)
	return nil
}
