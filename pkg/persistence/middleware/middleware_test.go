package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/aretw0/sinew/pkg/adapters/memory"
	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/persistence/middleware"
	"github.com/aretw0/sinew/pkg/ports"
	"github.com/aretw0/sinew/pkg/vecmath"
)

func TestChain_Contract(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	store := middleware.Chain(memory.NewStore(),
		middleware.NewValidationMiddleware(),
		middleware.NewLoggingMiddleware(logger),
	)
	ports.RunCurveStoreContract(t, store)
}

func TestValidationMiddleware(t *testing.T) {
	underlyingStore := memory.NewStore()
	store := middleware.NewValidationMiddleware()(underlyingStore)
	ctx := context.Background()

	tests := []struct {
		name string
		doc  domain.CurveDocument
	}{
		{"empty path", domain.CurveDocument{"": {}}},
		{"negative color", domain.CurveDocument{"ctrl": {OverrideColor: -1}}},
		{"NaN point", domain.CurveDocument{"ctrl": {Points: []vecmath.Vector3{vecmath.Vec3(0, math.NaN(), 0)}}}},
		{"infinite point", domain.CurveDocument{"ctrl": {Points: []vecmath.Vector3{vecmath.Vec3(math.Inf(1), 0, 0)}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Save(ctx, "doc", tt.doc)
			if !errors.Is(err, middleware.ErrInvalidCurve) {
				t.Fatalf("Expected ErrInvalidCurve, got %v", err)
			}
		})
	}
	if names, _ := underlyingStore.List(ctx); len(names) != 0 {
		t.Fatalf("Expected nothing to be stored, found %v", names)
	}

	// Saved documents are detached from the caller
	doc := domain.CurveDocument{"ctrl": {Points: []vecmath.Vector3{vecmath.Vec3(1, 2, 3)}}}
	if err := store.Save(ctx, "doc", doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	doc["ctrl"].Points[0] = vecmath.Vec3(9, 9, 9)

	loaded, err := store.Load(ctx, "doc")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded["ctrl"].Points[0] != vecmath.Vec3(1, 2, 3) {
		t.Errorf("Expected stored point to be unchanged, got %v", loaded["ctrl"].Points[0])
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := middleware.NewLoggingMiddleware(logger)(memory.NewStore())
	ctx := context.Background()

	if err := store.Save(ctx, "rig", domain.CurveDocument{"ctrl": {}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := store.Load(ctx, "missing"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("Expected ErrDocumentNotFound, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "op=save name=rig") || !strings.Contains(out, "objects=1") {
		t.Errorf("Expected a save record, got:\n%s", out)
	}
	if !strings.Contains(out, "level=WARN msg=\"curve store call failed\" op=load name=missing") {
		t.Errorf("Expected a failed load record, got:\n%s", out)
	}
}
