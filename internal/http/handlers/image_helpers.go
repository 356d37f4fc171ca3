package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/growth-journal/internal/models"
	"github.com/phambaophuc/growth-journal/internal/services/journal"
	"github.com/phambaophuc/growth-journal/internal/services/processor"
	"github.com/phambaophuc/growth-journal/internal/services/queue"
	"github.com/phambaophuc/growth-journal/pkg/utils"
	"go.uber.org/zap"
)

var errFileTooLarge = errors.New("file too large")

// === REQUEST PARSING ===

func (h *ImageHandler) profileName(c *gin.Context) string {
	if name := c.PostForm("profile"); name != "" {
		return name
	}
	return processor.ProfilePhoto
}

// parsePolicy starts from the named profile and applies a JSON "payload" override and
// then individual form fields.
func (h *ImageHandler) parsePolicy(c *gin.Context) (models.EncodingPolicy, error) {
	policy, err := h.profiles.Get(h.profileName(c))
	if err != nil {
		return policy, err
	}

	if payload := c.PostForm("payload"); payload != "" {
		if err := json.Unmarshal([]byte(payload), &policy); err != nil {
			return policy, fmt.Errorf("%w: invalid payload: %v", processor.ErrInvalidPolicy, err)
		}
	}

	if v := c.PostForm("mime_type"); v != "" {
		policy.MimeType = v
	}
	if err := h.overrideInt(c, "max_dimension", &policy.MaxDimension); err != nil {
		return policy, err
	}
	if err := h.overrideInt64(c, "target_size", &policy.TargetSizeBytes); err != nil {
		return policy, err
	}
	if err := h.overrideInt64(c, "keep_original_under", &policy.KeepOriginalUnderBytes); err != nil {
		return policy, err
	}
	if err := h.overrideFloat(c, "initial_quality", &policy.InitialQuality); err != nil {
		return policy, err
	}
	if err := h.overrideFloat(c, "min_quality", &policy.MinQuality); err != nil {
		return policy, err
	}
	if err := h.overrideFloat(c, "quality_step", &policy.QualityStep); err != nil {
		return policy, err
	}

	policy = policy.WithDefaults()
	return policy, processor.ValidatePolicy(policy)
}

func (h *ImageHandler) overrideInt(c *gin.Context, field string, dst *int) error {
	value := c.PostForm(field)
	if value == "" {
		return nil
	}
	num, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: invalid %s: must be a number", processor.ErrInvalidPolicy, field)
	}
	*dst = num
	return nil
}

func (h *ImageHandler) overrideInt64(c *gin.Context, field string, dst *int64) error {
	value := c.PostForm(field)
	if value == "" {
		return nil
	}
	num, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid %s: must be a number", processor.ErrInvalidPolicy, field)
	}
	*dst = num
	return nil
}

func (h *ImageHandler) overrideFloat(c *gin.Context, field string, dst *float64) error {
	value := c.PostForm(field)
	if value == "" {
		return nil
	}
	num, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid %s: must be a number", processor.ErrInvalidPolicy, field)
	}
	*dst = num
	return nil
}

func (h *ImageHandler) parseIntOr(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	num, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return num
}

func (h *ImageHandler) parseMultipartFiles(c *gin.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("failed to parse form data: %v", err)
	}

	files := form.File[imagesParamKey]
	if len(files) == 0 {
		return nil, fmt.Errorf("no images provided")
	}
	if len(files) > h.config.Encoder.MaxBatchFiles {
		return nil, fmt.Errorf("too many images: %d, at most %d per request", len(files), h.config.Encoder.MaxBatchFiles)
	}

	return files, nil
}

// === FILE OPERATIONS ===

// decodeUpload reads and decodes the named multipart file, writing the error response
// itself when it fails.
func (h *ImageHandler) decodeUpload(c *gin.Context, paramKey string) (processor.SourceImage, *multipart.FileHeader, bool) {
	header, err := c.FormFile(paramKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No image file provided")
		return processor.SourceImage{}, nil, false
	}

	src, err := h.decodeFileHeader(header)
	if err != nil {
		h.respondProcessingError(c, err)
		return processor.SourceImage{}, nil, false
	}
	return src, header, true
}

func (h *ImageHandler) decodeFileHeader(header *multipart.FileHeader) (processor.SourceImage, error) {
	if header.Size > h.config.Storage.MaxFileSize {
		return processor.SourceImage{}, fmt.Errorf("%w: %d bytes, at most %d", errFileTooLarge, header.Size, h.config.Storage.MaxFileSize)
	}

	file, err := header.Open()
	if err != nil {
		return processor.SourceImage{}, fmt.Errorf("%w: %v", processor.ErrDecode, err)
	}
	defer file.Close()

	data, err := processor.ReadLimited(file, h.config.Storage.MaxFileSize)
	if err != nil {
		return processor.SourceImage{}, fmt.Errorf("%w: %v", errFileTooLarge, err)
	}

	contentType := http.DetectContentType(data)
	allowed := h.config.Storage.AllowedTypes
	if !utils.IsValidImageType(contentType) || (len(allowed) > 0 && !slices.Contains(allowed, contentType)) {
		return processor.SourceImage{}, fmt.Errorf("%w: unsupported content type %s", processor.ErrDecode, contentType)
	}

	return processor.Decode(data, contentType)
}

func decodePayload(dataURI string) ([]byte, error) {
	comma := strings.IndexByte(dataURI, ',')
	if comma < 0 {
		return nil, fmt.Errorf("data URI has no payload")
	}
	return base64.StdEncoding.DecodeString(dataURI[comma+1:])
}

// === RESPONSE HANDLING ===

func (h *ImageHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondProcessingError maps service errors to user-facing responses.
func (h *ImageHandler) respondProcessingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, processor.ErrDecode):
		h.respondError(c, http.StatusBadRequest, processor.ErrDecode.Error())
	case errors.Is(err, errFileTooLarge):
		h.respondError(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, processor.ErrImageTooLarge):
		h.respondError(c, http.StatusRequestEntityTooLarge, processor.ErrImageTooLarge.Error())
	case errors.Is(err, processor.ErrInvalidPolicy), errors.Is(err, processor.ErrUnknownProfile):
		h.respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, journal.ErrNotFound), errors.Is(err, queue.ErrJobNotFound):
		h.respondError(c, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("Request failed", zap.Error(err), zap.String("path", c.FullPath()))
		h.respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// === UTILITY METHODS ===

func (h *ImageHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
