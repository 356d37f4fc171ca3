package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/phambaophuc/growth-journal/internal/models"
	"github.com/phambaophuc/growth-journal/internal/services/processor"
	"github.com/phambaophuc/growth-journal/pkg/utils"
	"go.uber.org/zap"
)

const jobKeyPrefix = "job:"

var ErrJobNotFound = errors.New("job not found")

// Storage is what the runner needs from the storage service.
type Storage interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	GenerateCacheKey(source string, policy models.EncodingPolicy) string
	GetFromCache(ctx context.Context, cacheKey string) ([]byte, error)
	SetCache(ctx context.Context, cacheKey string, data []byte) error
	BlobStoreEnabled() bool
	SaveEncoded(ctx context.Context, img *models.EncodedImage, name string) (string, error)
	Download(ctx context.Context, path string) ([]byte, error)
}

// Runner executes re-encode jobs independently of how they are delivered.
type Runner struct {
	processor   *processor.ImageProcessor
	profiles    *processor.Profiles
	storage     Storage
	logger      *zap.Logger
	maxFileSize int64
	download    func(ctx context.Context, url string, maxSize int64) ([]byte, string, error)
}

func NewRunner(
	processor *processor.ImageProcessor,
	profiles *processor.Profiles,
	storage Storage,
	maxFileSize int64,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		processor:   processor,
		profiles:    profiles,
		storage:     storage,
		logger:      logger,
		maxFileSize: maxFileSize,
		download:    utils.DownloadImage,
	}
}

// Run processes one job and records its final status.
func (r *Runner) Run(ctx context.Context, job *models.ReencodeJob) {
	job.Status = models.StatusProcessing
	if err := r.storeJob(ctx, job); err != nil {
		r.logger.Warn("Failed to record job status", zap.String("job_id", job.ID), zap.Error(err))
	}

	result, err := r.processJob(ctx, job)
	if err != nil {
		job.Status = models.StatusFailed
		job.Error = err.Error()
		r.logger.Error("Job processing failed",
			zap.String("job_id", job.ID),
			zap.Error(err))
	} else {
		job.Status = models.StatusCompleted
		job.Result = result
		r.logger.Info("Job completed successfully",
			zap.String("job_id", job.ID),
			zap.Int64("size", result.Size),
			zap.Bool("reencoded", result.Reencoded))
	}

	if err := r.storeJob(ctx, job); err != nil {
		r.logger.Error("Failed to store job result", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (r *Runner) processJob(ctx context.Context, job *models.ReencodeJob) (*models.ReencodedRef, error) {
	policy, err := r.profiles.Get(job.Profile)
	if err != nil {
		return nil, err
	}

	source := job.ImageURL
	if source == "" {
		source = "storage://" + job.StoragePath
	}
	cacheKey := r.storage.GenerateCacheKey(source, policy)

	if cached, err := r.cachedResult(ctx, cacheKey); err == nil && cached != nil {
		r.logger.Info("Cache hit", zap.String("job_id", job.ID), zap.String("cache_key", cacheKey))
		return cached, nil
	} else if err != nil {
		r.logger.Warn("Failed to read cached result", zap.String("job_id", job.ID), zap.Error(err))
	}

	data, contentType, err := r.fetch(ctx, job)
	if err != nil {
		return nil, err
	}

	src, err := processor.Decode(data, contentType)
	if err != nil {
		return nil, err
	}

	encoded, err := r.processor.Reencode(src, policy)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode image: %w", err)
	}

	ref := &models.ReencodedRef{
		CacheKey:    cacheKey,
		MimeType:    encoded.MimeType,
		Size:        encoded.Size,
		Width:       encoded.Width,
		Height:      encoded.Height,
		Reencoded:   encoded.Reencoded,
		ProcessedAt: time.Now(),
	}
	if !encoded.Reencoded {
		bounds := src.Image.Bounds()
		ref.Width, ref.Height = bounds.Dx(), bounds.Dy()
	}

	if r.storage.BlobStoreEnabled() {
		url, err := r.storage.SaveEncoded(ctx, encoded, job.Profile+"_"+job.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to save re-encoded image: %w", err)
		}
		ref.URL = url
	}

	entry, _ := json.Marshal(cacheEntry{Ref: ref, Image: encoded})
	if err := r.storage.SetCache(ctx, cacheKey, entry); err != nil {
		r.logger.Warn("Failed to cache result", zap.Error(err))
	}

	return ref, nil
}

type cacheEntry struct {
	Ref   *models.ReencodedRef `json:"ref"`
	Image *models.EncodedImage `json:"image"`
}

func (r *Runner) cachedResult(ctx context.Context, cacheKey string) (*models.ReencodedRef, error) {
	data, err := r.storage.GetFromCache(ctx, cacheKey)
	if err != nil || data == nil {
		return nil, err
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return entry.Ref, nil
}

func (r *Runner) fetch(ctx context.Context, job *models.ReencodeJob) ([]byte, string, error) {
	if job.StoragePath != "" {
		data, err := r.storage.Download(ctx, job.StoragePath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to download %s: %w", job.StoragePath, err)
		}
		return data, "", nil
	}

	data, contentType, err := r.download(ctx, job.ImageURL, r.maxFileSize)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

// ResultImage returns the encoded image of a completed job while it is still cached.
func (r *Runner) ResultImage(ctx context.Context, job *models.ReencodeJob) (*models.EncodedImage, error) {
	if job.Result == nil {
		return nil, fmt.Errorf("job %s: %w", job.ID, ErrJobNotFound)
	}
	data, err := r.storage.GetFromCache(ctx, job.Result.CacheKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("result of job %s expired: %w", job.ID, ErrJobNotFound)
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return entry.Image, nil
}

func (r *Runner) GetJob(ctx context.Context, id string) (*models.ReencodeJob, error) {
	var job models.ReencodeJob
	found, err := r.storage.Get(ctx, jobKeyPrefix+id, &job)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("job %s: %w", id, ErrJobNotFound)
	}
	return &job, nil
}

func (r *Runner) storeJob(ctx context.Context, job *models.ReencodeJob) error {
	return r.storage.Set(ctx, jobKeyPrefix+job.ID, job)
}
