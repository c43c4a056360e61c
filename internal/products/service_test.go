package products

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/apperr"
	"dashboard/internal/db"
	"dashboard/internal/logging"
	"dashboard/internal/revalidate"
)

func newService(t *testing.T) (*Service, *[]string) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	var paths []string
	bus := revalidate.NewBus()
	bus.Subscribe(func(p string) { paths = append(paths, p) })
	return NewService(database, bus, logging.Discard()), &paths
}

func ptr(s string) *string { return &s }

func TestProductLifecycle(t *testing.T) {
	svc, paths := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{Name: "Lamp", Price: "19.99", Stock: 3, ImageURL: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, created.ImageURL, "empty image URL is stored as null")

	updated, err := svc.Update(ctx, UpdateInput{ID: created.ID, Input: Input{
		Name: "Desk lamp", Description: ptr("brass"), Price: "24", Stock: 0,
		ImageURL: ptr("https://example.com/lamp.png"), Published: true,
	}})
	require.NoError(t, err)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk lamp", got.Name)
	assert.Equal(t, "24", got.Price)
	assert.Equal(t, "brass", *got.Description)
	assert.True(t, got.Published)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	id, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, id)

	_, err = svc.Get(ctx, created.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, []string{ListingPath, ListingPath, ListingPath}, *paths)
}

func TestEmptyImageURLClearsImage(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{Name: "Lamp", Price: "1", ImageURL: ptr("https://example.com/a.png")})
	require.NoError(t, err)
	require.NotNil(t, created.ImageURL)

	_, err = svc.Update(ctx, UpdateInput{ID: created.ID, Input: Input{Name: "Lamp", Price: "1", ImageURL: ptr("")}})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ImageURL)
}

func TestProductValidation(t *testing.T) {
	svc, paths := newService(t)
	_, err := svc.Create(context.Background(), Input{Name: "", Price: "1.999", Stock: -2, ImageURL: ptr("nope")})
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.ElementsMatch(t, []string{"name", "price", "stock", "imageUrl"}, keys(e.Fields))
	assert.Empty(t, *paths)
}

func TestProductMissing(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	missing := uuid.NewString()

	_, err := svc.Update(ctx, UpdateInput{ID: missing, Input: Input{Name: "x", Price: "1"}})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = svc.Delete(ctx, missing)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = svc.Delete(ctx, "bad")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
