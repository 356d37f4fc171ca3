package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/phambaophuc/growth-journal/internal/config"
	"github.com/phambaophuc/growth-journal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*StorageService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	cfg.Storage.CacheDuration = time.Hour

	s, err := NewStorageService(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestKV(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	var got []string
	found, err := s.Get(ctx, "app_tags", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "app_tags", []string{"sea", "mountain"}))

	found, err = s.Get(ctx, "app_tags", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"sea", "mountain"}, got)

	require.NoError(t, s.Remove(ctx, "app_tags"))
	found, err = s.Get(ctx, "app_tags", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKV_CorruptValue(t *testing.T) {
	s, mr := newTestStorage(t)
	require.NoError(t, mr.Set("app_photos", "{not json"))

	var photos []models.Photo
	_, err := s.Get(context.Background(), "app_photos", &photos)
	assert.ErrorContains(t, err, "failed to decode app_photos")
}

func TestCache(t *testing.T) {
	s, mr := newTestStorage(t)
	ctx := context.Background()

	policy := models.EncodingPolicy{MaxDimension: 1400, TargetSizeBytes: 600_000}
	key := s.GenerateCacheKey("https://example.com/a.jpg", policy)
	assert.Contains(t, key, CacheKeyPrefix)
	assert.Equal(t, key, s.GenerateCacheKey("https://example.com/a.jpg", policy))

	policy.TargetSizeBytes = 500_000
	assert.NotEqual(t, key, s.GenerateCacheKey("https://example.com/a.jpg", policy))

	data, err := s.GetFromCache(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.SetCache(ctx, key, []byte(`{"size":1}`)))
	data, err = s.GetFromCache(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"size":1}`, string(data))
	assert.Equal(t, time.Hour, mr.TTL(key))
}

func TestBlobStoreDisabled(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	assert.False(t, s.BlobStoreEnabled())

	_, err := s.SaveEncoded(ctx, models.NewEncodedImage(models.MimeJPEG, []byte("x")), "photo")
	assert.ErrorIs(t, err, ErrBlobStoreDisabled)

	_, err = s.Download(ctx, "processed/a.jpg")
	assert.ErrorIs(t, err, ErrBlobStoreDisabled)

	urls, err := s.SaveEncodedMultiple(ctx, []NamedImage{
		{Name: "image", Image: models.NewEncodedImage(models.MimeJPEG, []byte("x"))},
		{Name: "thumbnail", Image: models.NewEncodedImage(models.MimeJPEG, []byte("y"))},
	})
	assert.ErrorContains(t, err, "failed to upload 2 files")
	assert.Len(t, urls, 2)
}

func TestHealthCheck(t *testing.T) {
	s, mr := newTestStorage(t)

	status := s.HealthCheck(context.Background())
	assert.Equal(t, "healthy", status["redis"])
	assert.Equal(t, "not configured", status["supabase"])

	mr.Close()
	status = s.HealthCheck(context.Background())
	assert.Contains(t, status["redis"], "unhealthy")
}

func TestCacheStats(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SetCache(ctx, s.GenerateCacheKey("a", models.EncodingPolicy{}), []byte("{}")))
	require.NoError(t, s.SetCache(ctx, s.GenerateCacheKey("b", models.EncodingPolicy{}), []byte("{}")))
	require.NoError(t, s.Set(ctx, "job:1", map[string]string{"status": "pending"}))
	require.NoError(t, s.Set(ctx, "app_photos", []string{}))

	stats, err := s.GetCacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats["db_keys"])
	assert.Equal(t, 2, stats["cached_images"])
	assert.Equal(t, 1, stats["jobs"])
}

func TestStorageKeyFromURL(t *testing.T) {
	s, _ := newTestStorage(t)
	s.bucket = "journal"

	tests := []struct {
		url  string
		key  string
		isOK bool
	}{
		{"https://x.supabase.co/storage/v1/object/public/journal/processed/20240101/a.jpg", "processed/20240101/a.jpg", true},
		{"https://x.supabase.co/storage/v1/object/public/journal/a.png?t=1", "a.png", true},
		{"https://x.supabase.co/storage/v1/object/public/other/a.png", "", false},
		{"https://x.supabase.co/storage/v1/object/public/journal/", "", false},
	}

	for _, tt := range tests {
		key, ok := s.StorageKeyFromURL(tt.url)
		assert.Equal(t, tt.isOK, ok, tt.url)
		assert.Equal(t, tt.key, key, tt.url)
	}

	assert.NoError(t, s.DeleteByURL(context.Background(), "data:image/png;base64,AAAA"))
	assert.ErrorIs(t, s.DeleteByURL(context.Background(), "https://x.supabase.co/storage/v1/object/public/journal/a.png"), ErrBlobStoreDisabled)
}
