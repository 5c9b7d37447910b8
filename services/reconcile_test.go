package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/storage"
)

type staticPaths []string

func (p staticPaths) ReferencedPaths(context.Context) ([]string, error) { return p, nil }

func TestReconcilerRun(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(storage.Buckets()...)
	gateway := storage.NewGateway(store, publicBase, 0)

	now := time.UnixMilli(1_700_000_000_000)
	old := now.Add(-48 * time.Hour).UnixMilli()
	fresh := now.Add(-time.Minute).UnixMilli()

	keys := map[string]string{
		"kept":     "images/" + strconv.FormatInt(old, 10) + "-kept.png",
		"orphan":   "images/" + strconv.FormatInt(old, 10) + "-orphan.png",
		"fresh":    "gallery/" + strconv.FormatInt(fresh, 10) + "-fresh.png",
		"unparsed": "images/logo.png",
		"numeric":  "2024-report.png",
	}
	for _, key := range keys {
		require.NoError(t, store.PutObject(ctx, storage.BucketProjects, key, []byte("x"), "image/png"))
	}

	r := NewReconciler(gateway, map[string]PathSource{
		storage.BucketProjects: staticPaths{keys["kept"]},
	})
	r.now = func() time.Time { return now.Add(time.Hour * 24 * 365) }

	dry, err := r.Run(ctx, ReconcileOptions{MinAge: 24 * time.Hour, DryRun: true})
	require.NoError(t, err)
	assert.Len(t, dry, 4)
	assert.Equal(t, 5, store.Count(storage.BucketProjects))

	r.now = func() time.Time { return now }
	orphans, err := r.Run(ctx, ReconcileOptions{MinAge: 24 * time.Hour})
	require.NoError(t, err)

	actions := map[string]string{}
	for _, o := range orphans {
		actions[o.Key] = o.Action
	}
	assert.Equal(t, orphanDeleted, actions[keys["orphan"]])
	assert.Equal(t, orphanSkipped, actions[keys["fresh"]])
	assert.Equal(t, orphanReport, actions[keys["unparsed"]])
	assert.Equal(t, orphanReport, actions[keys["numeric"]])
	assert.NotContains(t, actions, keys["kept"])

	assert.True(t, store.Has(storage.BucketProjects, keys["kept"]))
	assert.False(t, store.Has(storage.BucketProjects, keys["orphan"]))
	assert.True(t, store.Has(storage.BucketProjects, keys["fresh"]))
	assert.True(t, store.Has(storage.BucketProjects, keys["unparsed"]))
	assert.True(t, store.Has(storage.BucketProjects, keys["numeric"]))
}
