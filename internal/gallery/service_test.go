package gallery_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/galleri/internal/gallery"
)

func newService(t *testing.T) *gallery.Service {
	t.Helper()
	return gallery.NewService(gallery.NewMemoryStore())
}

func problems(t *testing.T, err error) []string {
	t.Helper()
	var verr *gallery.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Problems
}

func TestService_AddCategory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("derives slug from name", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		c, err := svc.AddCategory(ctx, "  Śpiące Koty  ")
		require.NoError(t, err)
		assert.Equal(t, "Śpiące Koty", c.Name)
		assert.Equal(t, "spiace-koty", c.Slug)

		ok, err := svc.HasCategory(ctx, "spiace-koty")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects taken slug", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		_, err := svc.AddCategory(ctx, "Emoji")
		require.NoError(t, err)

		_, err = svc.AddCategory(ctx, "emoji!")
		assert.Equal(t, []string{"Category id is already taken"}, problems(t, err))
	})

	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "blank", in: "   "},
		{name: "too long", in: strings.Repeat("a", gallery.MaxNameLength+1)},
		{name: "no letters", in: "!!!"},
	}
	for _, tt := range tests {
		t.Run("invalid "+tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newService(t)

			_, err := svc.AddCategory(ctx, tt.in)
			assert.Len(t, problems(t, err), 1)

			sums, err := svc.Summaries(ctx)
			require.NoError(t, err)
			assert.Empty(t, sums)
		})
	}
}

func TestService_UpdateCategory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newService(t)

	first, err := svc.AddCategory(ctx, "First")
	require.NoError(t, err)
	_, err = svc.AddCategory(ctx, "Second")
	require.NoError(t, err)
	_, err = svc.AddKitty(ctx, "first", ":3")
	require.NoError(t, err)

	renamed, err := svc.UpdateCategory(ctx, "first", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, first.ID, renamed.ID)
	assert.Equal(t, "renamed", renamed.Slug)

	c, err := svc.CategoryBySlug(ctx, "renamed")
	require.NoError(t, err)
	assert.Len(t, c.Kitties, 1, "kitties follow the renamed category")

	_, err = svc.CategoryBySlug(ctx, "first")
	assert.ErrorIs(t, err, gallery.ErrCategoryNotFound)

	_, err = svc.UpdateCategory(ctx, "renamed", "second")
	assert.Equal(t, []string{"Category id is already taken"}, problems(t, err))

	same, err := svc.UpdateCategory(ctx, "renamed", "RENAMED")
	require.NoError(t, err, "keeping the same slug is allowed")
	assert.Equal(t, "RENAMED", same.Name)

	_, err = svc.UpdateCategory(ctx, "missing", "Whatever")
	assert.ErrorIs(t, err, gallery.ErrCategoryNotFound)
}

func TestService_Kitties(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newService(t)

	_, err := svc.AddCategory(ctx, "Cats")
	require.NoError(t, err)

	k1, err := svc.AddKitty(ctx, "cats", ":3")
	require.NoError(t, err)
	k2, err := svc.AddKitty(ctx, "cats", ">:3")
	require.NoError(t, err)

	_, err = svc.AddKitty(ctx, "cats", "  ")
	assert.Equal(t, []string{"ASCII art is required"}, problems(t, err))
	_, err = svc.AddKitty(ctx, "cats", strings.Repeat("=", gallery.MaxArtLength+1))
	assert.Len(t, problems(t, err), 1)
	_, err = svc.AddKitty(ctx, "dogs", ":3")
	assert.ErrorIs(t, err, gallery.ErrCategoryNotFound)

	require.NoError(t, svc.UpdateKitty(ctx, "cats", k1.ID, "=^.^="))
	assert.ErrorIs(t, svc.UpdateKitty(ctx, "cats", 999, "x"), gallery.ErrKittyNotFound)

	require.NoError(t, svc.DeleteKitty(ctx, "cats", k2.ID))
	assert.ErrorIs(t, svc.DeleteKitty(ctx, "cats", k2.ID), gallery.ErrKittyNotFound)

	c, err := svc.CategoryBySlug(ctx, "cats")
	require.NoError(t, err)
	require.Len(t, c.Kitties, 1)
	assert.Equal(t, "=^.^=", c.Kitties[0].ASCIIArt)
}

func TestService_KittyFromAnotherCategory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newService(t)

	_, err := svc.AddCategory(ctx, "A")
	require.NoError(t, err)
	_, err = svc.AddCategory(ctx, "B")
	require.NoError(t, err)
	k, err := svc.AddKitty(ctx, "a", ":3")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.UpdateKitty(ctx, "b", k.ID, ";3"), gallery.ErrKittyNotFound)
	assert.ErrorIs(t, svc.DeleteKitty(ctx, "b", k.ID), gallery.ErrKittyNotFound)
}

func TestService_Summaries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newService(t)

	a, err := svc.AddCategory(ctx, "A")
	require.NoError(t, err)
	b, err := svc.AddCategory(ctx, "B")
	require.NoError(t, err)
	_, err = svc.AddKitty(ctx, "b", "first")
	require.NoError(t, err)
	_, err = svc.AddKitty(ctx, "b", "second")
	require.NoError(t, err)

	sums, err := svc.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, gallery.Summary{ID: a.ID, Slug: "a", Name: "A"}, sums[0])
	assert.Equal(t, gallery.Summary{ID: b.ID, Slug: "b", Name: "B", KittyCount: 2, Preview: "first"}, sums[1])

	ordered, err := svc.SummariesByIDs(ctx, []int64{b.ID, 404, a.ID})
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, b.ID, ordered[0].ID)
	assert.Equal(t, a.ID, ordered[1].ID)

	one, err := svc.Summary(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", one.Name)

	_, err = svc.Summary(ctx, 404)
	assert.ErrorIs(t, err, gallery.ErrCategoryNotFound)

	none, err := svc.SummariesByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

type failingStore struct {
	gallery.Store
}

func (failingStore) ListCategories(context.Context) ([]gallery.Category, error) {
	return nil, errors.New("connection reset")
}

func TestService_StorageErrors(t *testing.T) {
	t.Parallel()

	svc := gallery.NewService(failingStore{Store: gallery.NewMemoryStore()})
	_, err := svc.Summaries(context.Background())
	assert.ErrorIs(t, err, gallery.ErrStorage)
}

func TestSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newService(t)

	created, err := gallery.Seed(ctx, svc, gallery.DemoData)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "complex-cats", created[0].Slug)
	assert.Equal(t, "complex kitties", created[0].Name)
	assert.Len(t, created[0].Kitties, 5)

	emoji, err := svc.CategoryBySlug(ctx, "emoji")
	require.NoError(t, err)
	arts := make([]string, 0, len(emoji.Kitties))
	for _, k := range emoji.Kitties {
		arts = append(arts, k.ASCIIArt)
	}
	assert.Equal(t, []string{":3", ";3", ">:3", "3:", "3:<"}, arts)

	again, err := gallery.Seed(ctx, svc, gallery.DemoData)
	require.NoError(t, err)
	assert.Empty(t, again)

	sums, err := svc.Summaries(ctx)
	require.NoError(t, err)
	assert.Len(t, sums, 2)
}
