package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/growth-journal/internal/models"
	"github.com/phambaophuc/growth-journal/pkg/utils"
	"go.uber.org/zap"
)

type createJobRequest struct {
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
	StoragePath string `json:"storage_path"`
	Profile     string `json:"profile" binding:"required"`
}

func (h *ImageHandler) CreateJob(c *gin.Context) {
	if h.queue == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Job queue not available")
		return
	}

	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid job request: "+err.Error())
		return
	}
	if req.ImageURL == "" && req.StoragePath == "" {
		h.respondError(c, http.StatusBadRequest, "Invalid job request: image_url or storage_path is required")
		return
	}

	job := &models.ReencodeJob{
		ID:          utils.GenerateID(),
		ImageURL:    req.ImageURL,
		StoragePath: req.StoragePath,
		Profile:     req.Profile,
	}

	if err := h.queue.PublishJob(c.Request.Context(), job); err != nil {
		h.logger.Error("Failed to publish job", zap.Error(err))
		h.respondProcessingError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

func (h *ImageHandler) GetJob(c *gin.Context) {
	if h.queue == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Job queue not available")
		return
	}

	job, err := h.queue.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}

	if c.Query("include") == "image" && job.Status == models.StatusCompleted {
		img, err := h.queue.ResultImage(c.Request.Context(), job)
		if err != nil {
			h.respondProcessingError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.APIResponse{
			Success: true,
			Data:    gin.H{"job": job, "image": img},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: job})
}
