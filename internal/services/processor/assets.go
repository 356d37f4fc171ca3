package processor

import (
	"fmt"
	"sync"

	"github.com/phambaophuc/growth-journal/internal/models"
)

// Assets is a full-size image and its thumbnail, both derived from one upload.
type Assets struct {
	Image     *models.EncodedImage
	Thumbnail *models.EncodedImage
}

func (p *ImageProcessor) PrepareAssets(src SourceImage, full, thumbnail models.EncodingPolicy) (*Assets, error) {
	image, err := p.Reencode(src, full)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image: %w", err)
	}

	thumb, err := p.Reencode(src, thumbnail)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare thumbnail: %w", err)
	}

	return &Assets{Image: image, Thumbnail: thumb}, nil
}

// PrepareAvatar re-encodes with the avatar policy and enforces its size as a hard cap,
// which Reencode alone does not guarantee.
func (p *ImageProcessor) PrepareAvatar(src SourceImage, policy models.EncodingPolicy) (*models.EncodedImage, error) {
	avatar, err := p.Reencode(src, policy)
	if err != nil {
		return nil, err
	}

	limit := policy.TargetSizeBytes
	if limit <= 0 {
		limit = MaxAvatarSize
	}
	if avatar.Size > limit {
		return nil, fmt.Errorf("%w: %d bytes over the %d byte limit", ErrImageTooLarge, avatar.Size, limit)
	}
	return avatar, nil
}

// ReencodeBatch re-encodes every source with the same policy on a bounded worker pool.
// Results keep the order of the input.
func (p *ImageProcessor) ReencodeBatch(sources []SourceImage, policy models.EncodingPolicy) []models.BatchImage {
	results := make([]models.BatchImage, len(sources))
	jobs := make(chan int, len(sources))

	numWorkers := min(p.workers, len(sources))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				image, err := p.Reencode(sources[i], policy)
				if err != nil {
					results[i] = models.BatchImage{Error: fmt.Sprintf("failed to process image %d: %v", i, err)}
					continue
				}
				results[i] = models.BatchImage{Image: image}
			}
		}()
	}

	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
