package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCurveStoreContract runs a suite of tests to verify that a CurveStore implementation
// adheres to the defined interface contract.
func RunCurveStoreContract(t *testing.T, store CurveStore) {
	ctx := context.Background()
	name := "contract-test-doc-" + time.Now().Format("20060102150405")

	sample := func() domain.CurveDocument {
		return domain.CurveDocument{
			"rig|ctrl_hip": {
				Points:        []vecmath.Vector3{vecmath.Vec3(0, 0, 0), vecmath.Vec3(1, 2, 3)},
				OverrideColor: 13,
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		// 1. Save
		err := store.Save(ctx, name, sample())
		require.NoError(t, err, "Save should not return error")

		// 2. Load
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		require.Contains(t, loaded, "rig|ctrl_hip")
		assert.Equal(t, sample()["rig|ctrl_hip"].Points, loaded["rig|ctrl_hip"].Points)
		assert.Equal(t, 13, loaded["rig|ctrl_hip"].OverrideColor)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, sample()))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		loaded["rig|ctrl_hip"].Points[0] = vecmath.Vec3(9, 9, 9)

		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, vecmath.Zero, again["rig|ctrl_hip"].Points[0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		// Setup
		err := store.Save(ctx, name, sample())
		require.NoError(t, err)

		// Delete
		err = store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		// Verify gone
		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, "Load after Delete should return ErrDocumentNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		_ = store.Save(ctx, id1, sample())
		_ = store.Save(ctx, id2, sample())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})
}

// RunAnimCurveStoreContract verifies an AnimCurveStore. The store must
// already hold a curve named id with at least one key.
func RunAnimCurveStoreContract(t *testing.T, store AnimCurveStore, id string) {
	ctx := context.Background()

	t.Run("Keys", func(t *testing.T) {
		keys, err := store.Keys(ctx, id)
		require.NoError(t, err)
		assert.NotEmpty(t, keys)

		ids, err := store.AnimCurves(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id)
	})

	t.Run("SetKeys", func(t *testing.T) {
		want := []domain.Keyframe{{Time: 1, Value: 0}, {Time: 10, Value: 5}}
		require.NoError(t, store.SetKeys(ctx, id, want))

		got, err := store.Keys(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Unknown curve", func(t *testing.T) {
		_, err := store.Keys(ctx, "no-such-curve")
		assert.ErrorIs(t, err, domain.ErrCurveNotFound)
		err = store.SetKeys(ctx, "no-such-curve", nil)
		assert.ErrorIs(t, err, domain.ErrCurveNotFound)
	})
}
