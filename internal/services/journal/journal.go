package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phambaophuc/growth-journal/internal/models"
	"github.com/phambaophuc/growth-journal/pkg/utils"
)

const (
	KeyPhotos   = "app_photos"
	KeyUserInfo = "app_user_info"
)

var ErrNotFound = errors.New("record not found")

// Store is the key-value persistence the journal is kept in. Values are JSON.
type Store interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Remove(ctx context.Context, key string) error
}

// Placeholders renders stand-in images for records saved without one.
type Placeholders interface {
	Placeholder(width, height int) (*models.EncodedImage, error)
}

type Journal struct {
	store        Store
	placeholders Placeholders
	now          func() time.Time
}

func New(store Store, placeholders Placeholders) *Journal {
	return &Journal{
		store:        store,
		placeholders: placeholders,
		now:          time.Now,
	}
}

func (j *Journal) placeholder(width, height int) string {
	if j.placeholders == nil {
		return ""
	}
	img, err := j.placeholders.Placeholder(width, height)
	if err != nil {
		return ""
	}
	return img.DataURI
}

// AddPhoto stores a new album entry. Image locations are data URIs or blob URLs.
func (j *Journal) AddPhoto(ctx context.Context, upload models.PhotoUpload, image, thumbnail string) (*models.Photo, error) {
	photos, err := j.ListPhotos(ctx, "")
	if err != nil {
		return nil, err
	}

	now := j.now().UTC()
	photo := models.Photo{
		ID:          utils.GenerateID(),
		Image:       image,
		Thumbnail:   thumbnail,
		Title:       upload.Title,
		Description: upload.Description,
		TripID:      upload.TripID,
		Category:    upload.Category,
		Tags:        upload.Tags,
		Liked:       upload.Liked,
		CreatedAt:   now,
		UpdatedAt:   now,
		UploadedBy:  "self",
	}
	if photo.Liked {
		photo.Likes = 1
	}
	j.normalize(&photo)

	photos = append(photos, photo)
	if err := j.store.Set(ctx, KeyPhotos, photos); err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}
	return &photo, nil
}

// ListPhotos returns all photos, or only those of one trip when tripID is set.
func (j *Journal) ListPhotos(ctx context.Context, tripID string) ([]models.Photo, error) {
	var photos []models.Photo
	if _, err := j.store.Get(ctx, KeyPhotos, &photos); err != nil {
		return nil, fmt.Errorf("failed to load photos: %w", err)
	}

	out := make([]models.Photo, 0, len(photos))
	for _, photo := range photos {
		if tripID != "" && photo.TripID != tripID {
			continue
		}
		j.normalize(&photo)
		out = append(out, photo)
	}
	return out, nil
}

func (j *Journal) GetPhoto(ctx context.Context, id string) (*models.Photo, error) {
	photos, err := j.ListPhotos(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range photos {
		if photos[i].ID == id {
			return &photos[i], nil
		}
	}
	return nil, fmt.Errorf("photo %s: %w", id, ErrNotFound)
}

func (j *Journal) SetPhotoLike(ctx context.Context, id string, liked bool) (*models.Photo, error) {
	var updated *models.Photo
	err := j.updatePhotos(ctx, func(photos []models.Photo) ([]models.Photo, error) {
		for i := range photos {
			if photos[i].ID != id {
				continue
			}
			photos[i].Liked = liked
			if liked {
				photos[i].Likes++
			} else {
				photos[i].Likes = max(0, photos[i].Likes-1)
			}
			photos[i].UpdatedAt = j.now().UTC()
			updated = &photos[i]
			return photos, nil
		}
		return nil, fmt.Errorf("photo %s: %w", id, ErrNotFound)
	})
	return updated, err
}

func (j *Journal) DeletePhoto(ctx context.Context, id string) error {
	return j.updatePhotos(ctx, func(photos []models.Photo) ([]models.Photo, error) {
		for i := range photos {
			if photos[i].ID == id {
				return append(photos[:i], photos[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("photo %s: %w", id, ErrNotFound)
	})
}

func (j *Journal) updatePhotos(ctx context.Context, fn func([]models.Photo) ([]models.Photo, error)) error {
	photos, err := j.ListPhotos(ctx, "")
	if err != nil {
		return err
	}
	photos, err = fn(photos)
	if err != nil {
		return err
	}
	if len(photos) == 0 {
		if err := j.store.Remove(ctx, KeyPhotos); err != nil {
			return fmt.Errorf("failed to clear photos: %w", err)
		}
		return nil
	}
	if err := j.store.Set(ctx, KeyPhotos, photos); err != nil {
		return fmt.Errorf("failed to save photos: %w", err)
	}
	return nil
}

func (j *Journal) normalize(photo *models.Photo) {
	if photo.Image == "" {
		photo.Image = j.placeholder(600, 400)
	}
	if photo.Thumbnail == "" {
		photo.Thumbnail = photo.Image
	}
	if photo.Category == "" {
		photo.Category = models.DefaultCategory
	}
	if photo.Tags == nil {
		photo.Tags = []string{}
	}
	if photo.Likes < 0 {
		photo.Likes = 0
	}
	if photo.Liked && photo.Likes == 0 {
		photo.Likes = 1
	}
	if photo.UploadedBy == "" {
		photo.UploadedBy = "self"
	}
}

// GetUserInfo returns the stored profile, or a default one with a placeholder avatar.
func (j *Journal) GetUserInfo(ctx context.Context) (*models.UserInfo, error) {
	var info models.UserInfo
	found, err := j.store.Get(ctx, KeyUserInfo, &info)
	if err != nil {
		return nil, fmt.Errorf("failed to load user info: %w", err)
	}
	if !found {
		info = models.UserInfo{Name: "me"}
	}
	if info.Avatar == "" {
		info.Avatar = j.placeholder(300, 300)
	}
	return &info, nil
}

func (j *Journal) UpdateAvatar(ctx context.Context, avatar string) (*models.UserInfo, error) {
	info, err := j.GetUserInfo(ctx)
	if err != nil {
		return nil, err
	}

	info.Avatar = avatar
	info.UpdatedAt = j.now().UTC()
	if err := j.store.Set(ctx, KeyUserInfo, info); err != nil {
		return nil, fmt.Errorf("failed to save user info: %w", err)
	}
	return info, nil
}
