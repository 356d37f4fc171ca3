package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/growth-journal/internal/config"
	"github.com/phambaophuc/growth-journal/internal/models"
	"github.com/phambaophuc/growth-journal/internal/services/journal"
	"github.com/phambaophuc/growth-journal/internal/services/processor"
	"github.com/phambaophuc/growth-journal/internal/services/queue"
	"github.com/phambaophuc/growth-journal/internal/services/storage"
	"go.uber.org/zap"
)

const (
	maxCacheAge    = 3600
	imageParamKey  = "image"
	imagesParamKey = "images"
)

type ImageHandler struct {
	processor *processor.ImageProcessor
	profiles  *processor.Profiles
	storage   *storage.StorageService
	journal   *journal.Journal
	queue     *queue.QueueService
	logger    *zap.Logger
	config    *config.Config
}

func NewImageHandler(
	processor *processor.ImageProcessor,
	profiles *processor.Profiles,
	storage *storage.StorageService,
	journal *journal.Journal,
	queue *queue.QueueService,
	logger *zap.Logger,
	config *config.Config,
) *ImageHandler {
	return &ImageHandler{
		processor: processor,
		profiles:  profiles,
		storage:   storage,
		journal:   journal,
		queue:     queue,
		logger:    logger,
		config:    config,
	}
}

// === MAIN API ENDPOINTS ===

// ReencodeImage re-encodes one upload with a named profile, optionally tuned by form fields.
func (h *ImageHandler) ReencodeImage(c *gin.Context) {
	policy, err := h.parsePolicy(c)
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}

	src, _, ok := h.decodeUpload(c, imageParamKey)
	if !ok {
		return
	}

	encoded, err := h.processor.Reencode(src, policy)
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}

	h.logger.Info("Image re-encoded",
		zap.Int64("size", encoded.Size),
		zap.Bool("reencoded", encoded.Reencoded),
		zap.Int("rounds", encoded.Rounds))

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    encoded,
	})
}

func (h *ImageHandler) BatchReencode(c *gin.Context) {
	policy, err := h.parsePolicy(c)
	if err != nil {
		h.respondProcessingError(c, err)
		return
	}

	files, err := h.parseMultipartFiles(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	results := make([]models.BatchImage, len(files))
	var sources []processor.SourceImage
	var slots []int

	for i, fh := range files {
		results[i].Name = fh.Filename
		src, err := h.decodeFileHeader(fh)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		sources = append(sources, src)
		slots = append(slots, i)
	}

	for i, res := range h.processor.ReencodeBatch(sources, policy) {
		res.Name = results[slots[i]].Name
		results[slots[i]] = res
	}

	response := models.BatchResponse{Profile: h.profileName(c), Images: results}
	for _, res := range results {
		if res.Error != "" {
			response.Failed++
		}
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: response.Failed < len(results),
		Data:    response,
	})
}

func (h *ImageHandler) ListProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    h.profiles.All(),
	})
}

// Placeholder serves the grey stand-in PNG as an image.
func (h *ImageHandler) Placeholder(c *gin.Context) {
	width := h.parseIntOr(c.Query("width"), 300)
	height := h.parseIntOr(c.Query("height"), 300)

	img, err := h.processor.Placeholder(width, height)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	data, err := decodePayload(img.DataURI)
	if err != nil {
		h.logger.Error("Failed to decode placeholder", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to render placeholder")
		return
	}

	c.Header("Cache-Control", "public, max-age="+itoa(maxCacheAge))
	c.Data(http.StatusOK, img.MimeType, data)
}

// GetStats reports cache and queue counters.
func (h *ImageHandler) GetStats(c *gin.Context) {
	stats := gin.H{}

	cacheStats, err := h.storage.GetCacheStats(c.Request.Context())
	if err != nil {
		h.logger.Warn("Failed to get cache stats", zap.Error(err))
	} else {
		stats["cache"] = cacheStats
	}

	if h.queue != nil {
		queueStats, err := h.queue.GetQueueStats()
		if err != nil {
			h.logger.Warn("Failed to get queue stats", zap.Error(err))
		} else {
			stats["queue"] = queueStats
		}
	}

	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: stats})
}

// HealthCheck reports redis, supabase and rabbitmq status.
func (h *ImageHandler) HealthCheck(c *gin.Context) {
	services := h.storage.HealthCheck(c.Request.Context())
	if h.queue != nil {
		services["rabbitmq"] = h.queue.HealthCheck()
	} else {
		services["rabbitmq"] = "not configured"
	}
	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
			Profiles:  h.profiles.Names(),
		},
	})
}
