package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmitchellscott/bannermaster/internal/banner"
)

func newTestService(t *testing.T) *BannerService {
	t.Helper()
	db, err := Open(DatabaseConfig{Type: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewBannerService(db)
}

func TestCreateAndGetBanner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	s := banner.Defaults()
	s.HeadingText = "Sale"
	s.HeadingAnimationTexts = []string{"A", "B"}
	created := time.Date(2025, 10, 18, 12, 0, 0, 0, time.UTC)

	rec, err := svc.CreateBanner(ctx, "autumn", s, created)
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)

	got, err := svc.GetBanner(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "autumn", got.Name)
	assert.Equal(t, "Sale", got.Settings.Data().HeadingText)
	assert.Equal(t, []string{"A", "B"}, got.Settings.Data().HeadingAnimationTexts)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestCreateBannerDefaultsCreatedAt(t *testing.T) {
	svc := newTestService(t)
	before := time.Now().Add(-time.Second)

	rec, err := svc.CreateBanner(context.Background(), "", banner.Defaults(), time.Time{})
	require.NoError(t, err)
	assert.True(t, rec.CreatedAt.After(before))
}

func TestListBannersInCreationOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := svc.CreateBanner(ctx, name, banner.Defaults(), time.Time{})
		require.NoError(t, err)
	}

	records, err := svc.ListBanners(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "first", records[0].Name)
	assert.Equal(t, "third", records[2].Name)

	count, err := svc.CountBanners(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestUpdateBannerMergesPatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	s := banner.Defaults()
	s.HeadingText = "Old"
	s.SubText = "Keep me"
	rec, err := svc.CreateBanner(ctx, "b", s, time.Time{})
	require.NoError(t, err)

	name := "renamed"
	updated, err := svc.UpdateBanner(ctx, rec.ID, &name, []byte(`{"headingText":"New","width":728}`))
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "New", updated.Settings.Data().HeadingText)
	assert.Equal(t, "Keep me", updated.Settings.Data().SubText)
	assert.Equal(t, 728, updated.Settings.Data().Width)

	reloaded, err := svc.GetBanner(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", reloaded.Settings.Data().HeadingText)
}

func TestUpdateBannerRejectsBadPatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	rec, err := svc.CreateBanner(ctx, "b", banner.Defaults(), time.Time{})
	require.NoError(t, err)

	_, err = svc.UpdateBanner(ctx, rec.ID, nil, []byte(`[1,2]`))
	assert.True(t, errors.Is(err, banner.ErrInvalidPatch))
}

func TestMissingBanner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetBanner(ctx, 42)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.UpdateBanner(ctx, 42, nil, []byte(`{}`))
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(svc.DeleteBanner(ctx, 42), ErrNotFound))
}

func TestDeleteBanner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	rec, err := svc.CreateBanner(ctx, "gone", banner.Defaults(), time.Time{})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBanner(ctx, rec.ID))
	_, err = svc.GetBanner(ctx, rec.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
