package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/phambaophuc/growth-journal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	data   map[string][]byte
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memStore) Set(_ context.Context, key string, value interface{}) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memStore) Remove(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type stubPlaceholders struct{}

func (stubPlaceholders) Placeholder(width, height int) (*models.EncodedImage, error) {
	return &models.EncodedImage{DataURI: fmt.Sprintf("placeholder:%dx%d", width, height)}, nil
}

func newTestJournal() (*Journal, *memStore) {
	store := newMemStore()
	j := New(store, stubPlaceholders{})
	j.now = func() time.Time { return time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC) }
	return j, store
}

func TestAddAndListPhotos(t *testing.T) {
	j, _ := newTestJournal()
	ctx := context.Background()

	first, err := j.AddPhoto(ctx, models.PhotoUpload{Title: "Harbour", Tags: []string{"sea"}}, "data:image/jpeg;base64,AAAA", "data:image/jpeg;base64,BBBB")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, models.DefaultCategory, first.Category)
	assert.Equal(t, "self", first.UploadedBy)

	_, err = j.AddPhoto(ctx, models.PhotoUpload{Title: "Ridge", TripID: "trip-1", Liked: true}, "https://cdn/a.jpg", "")
	require.NoError(t, err)

	all, err := j.ListPhotos(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "https://cdn/a.jpg", all[1].Thumbnail)
	assert.Equal(t, 1, all[1].Likes)
	assert.Equal(t, []string{}, all[1].Tags)

	trip, err := j.ListPhotos(ctx, "trip-1")
	require.NoError(t, err)
	require.Len(t, trip, 1)
	assert.Equal(t, "Ridge", trip[0].Title)
}

func TestListPhotos_NormalizesStoredRecords(t *testing.T) {
	j, store := newTestJournal()
	store.data[KeyPhotos] = []byte(`[{"id":"p1","image":"data:x","liked":true},{"id":"p2","image":"data:y","likes":-3}]`)

	photos, err := j.ListPhotos(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, photos, 2)

	assert.True(t, photos[0].Liked)
	assert.Equal(t, 1, photos[0].Likes)
	assert.Equal(t, "data:x", photos[0].Thumbnail)
	assert.Equal(t, models.DefaultCategory, photos[0].Category)
	assert.Equal(t, []string{}, photos[0].Tags)
	assert.Equal(t, "self", photos[0].UploadedBy)

	assert.False(t, photos[1].Liked)
	assert.Equal(t, 0, photos[1].Likes)
}

func TestAddPhoto_WithoutImageUsesPlaceholder(t *testing.T) {
	j, _ := newTestJournal()

	photo, err := j.AddPhoto(context.Background(), models.PhotoUpload{Title: "Draft"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "placeholder:600x400", photo.Image)
	assert.Equal(t, "placeholder:600x400", photo.Thumbnail)
}

func TestAddPhoto_StoreFailure(t *testing.T) {
	j, store := newTestJournal()
	store.setErr = errors.New("quota exceeded")

	_, err := j.AddPhoto(context.Background(), models.PhotoUpload{}, "x", "y")
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestLikeAndDeletePhoto(t *testing.T) {
	j, store := newTestJournal()
	ctx := context.Background()

	photo, err := j.AddPhoto(ctx, models.PhotoUpload{Title: "Dunes"}, "x", "y")
	require.NoError(t, err)

	liked, err := j.SetPhotoLike(ctx, photo.ID, true)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.Equal(t, 1, liked.Likes)

	unliked, err := j.SetPhotoLike(ctx, photo.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes)

	unliked, err = j.SetPhotoLike(ctx, photo.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes)

	_, err = j.SetPhotoLike(ctx, "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, j.DeletePhoto(ctx, photo.ID))
	assert.NotContains(t, store.data, KeyPhotos)
	_, err = j.GetPhoto(ctx, photo.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, j.DeletePhoto(ctx, photo.ID), ErrNotFound)
}

func TestUserInfo(t *testing.T) {
	j, store := newTestJournal()
	ctx := context.Background()

	info, err := j.GetUserInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "me", info.Name)
	assert.Equal(t, "placeholder:300x300", info.Avatar)
	assert.NotContains(t, store.data, KeyUserInfo)

	updated, err := j.UpdateAvatar(ctx, "data:image/jpeg;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", updated.Avatar)

	info, err = j.GetUserInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", info.Avatar)
	assert.Equal(t, "me", info.Name)
}
