package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/growth-journal/internal/models"
	"github.com/phambaophuc/growth-journal/internal/services/processor"
	"github.com/phambaophuc/growth-journal/internal/services/storage"
	"github.com/phambaophuc/growth-journal/pkg/utils"
	"go.uber.org/zap"
)

// UploadPhoto adds an album photo with a thumbnail, both re-encoded from the upload.
func (h *ImageHandler) UploadPhoto(c *gin.Context) {
	h.uploadPhoto(c, "", processor.ProfilePhoto, processor.ProfilePhotoThumbnail)
}

// UploadTripPhoto adds a photo to a trip. Trip photos always become JPEG.
func (h *ImageHandler) UploadTripPhoto(c *gin.Context) {
	h.uploadPhoto(c, c.Param("id"), processor.ProfileTripPhoto, processor.ProfileTripThumbnail)
}

func (h *ImageHandler) uploadPhoto(c *gin.Context, tripID, fullProfile, thumbProfile string) {
	full, err := h.profiles.Get(fullProfile)
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}
	thumb, err := h.profiles.Get(thumbProfile)
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}

	src, _, ok := h.decodeUpload(c, imageParamKey)
	if !ok {
		return
	}

	assets, err := h.processor.PrepareAssets(src, full, thumb)
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}

	locations := h.persistImages(c.Request.Context(), []storage.NamedImage{
		{Name: "photo", Image: assets.Image},
		{Name: "thumbnail", Image: assets.Thumbnail},
	})

	liked, _ := strconv.ParseBool(c.PostForm("liked"))
	upload := models.PhotoUpload{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		TripID:      tripID,
		Category:    c.PostForm("category"),
		Tags:        utils.ParseTags(c.PostForm("tags")),
		Liked:       liked,
		Image:       assets.Image,
		Thumbnail:   assets.Thumbnail,
	}

	photo, err := h.journal.AddPhoto(c.Request.Context(), upload, locations[0], locations[1])
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}

	h.logger.Info("Photo saved",
		zap.String("photo_id", photo.ID),
		zap.String("trip_id", tripID),
		zap.Int64("image_size", assets.Image.Size),
		zap.Int64("thumbnail_size", assets.Thumbnail.Size))

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    photo,
	})
}

func (h *ImageHandler) ListPhotos(c *gin.Context) {
	photos, err := h.journal.ListPhotos(c.Request.Context(), c.Query("trip_id"))
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: photos})
}

func (h *ImageHandler) ListTripPhotos(c *gin.Context) {
	photos, err := h.journal.ListPhotos(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: photos})
}

func (h *ImageHandler) GetPhoto(c *gin.Context) {
	photo, err := h.journal.GetPhoto(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: photo})
}

func (h *ImageHandler) LikePhoto(c *gin.Context) {
	var req struct {
		Liked bool `json:"liked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	photo, err := h.journal.SetPhotoLike(c.Request.Context(), c.Param("id"), req.Liked)
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: photo})
}

// DeletePhoto removes the record and then, best effort, its uploaded blobs.
func (h *ImageHandler) DeletePhoto(c *gin.Context) {
	ctx := c.Request.Context()
	photo, err := h.journal.GetPhoto(ctx, c.Param("id"))
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}

	if err := h.journal.DeletePhoto(ctx, photo.ID); err != nil {
		h.respondProcessingError(c, err)
		return
	}

	if h.storage.BlobStoreEnabled() {
		for _, location := range []string{photo.Image, photo.Thumbnail} {
			if err := h.storage.DeleteByURL(ctx, location); err != nil {
				h.logger.Warn("Failed to delete blob", zap.String("photo_id", photo.ID), zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

func (h *ImageHandler) GetProfile(c *gin.Context) {
	info, err := h.journal.GetUserInfo(c.Request.Context())
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: info})
}

// UpdateAvatar re-encodes the upload with the avatar profile and rejects it when the
// result is still above the avatar size cap.
func (h *ImageHandler) UpdateAvatar(c *gin.Context) {
	policy, err := h.profiles.Get(processor.ProfileAvatar)
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}

	src, _, ok := h.decodeUpload(c, imageParamKey)
	if !ok {
		return
	}

	avatar, err := h.processor.PrepareAvatar(src, policy)
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}

	location := h.persistImages(c.Request.Context(), []storage.NamedImage{{Name: "avatar", Image: avatar}})[0]

	info, err := h.journal.UpdateAvatar(c.Request.Context(), location)
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: info})
}

// persistImages uploads to the blob store when it is configured. Any image that was not
// uploaded is kept inline as its data URI.
func (h *ImageHandler) persistImages(ctx context.Context, images []storage.NamedImage) []string {
	locations := make([]string, len(images))
	if h.storage.BlobStoreEnabled() {
		urls, err := h.storage.SaveEncodedMultiple(ctx, images)
		if err != nil {
			h.logger.Warn("Failed to upload to Storage", zap.Error(err))
		}
		copy(locations, urls)
	}

	for i, img := range images {
		if locations[i] == "" {
			locations[i] = img.Image.DataURI
		}
	}
	return locations
}
