package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/phambaophuc/growth-journal/internal/models"
)

type NamedImage struct {
	Name  string
	Image *models.EncodedImage
}

// SaveEncodedMultiple uploads images concurrently. URLs keep the input order; on
// partial failure the failed slots are empty and the error lists them.
func (s *StorageService) SaveEncodedMultiple(ctx context.Context, images []NamedImage) ([]string, error) {
	if len(images) == 0 {
		return []string{}, nil
	}

	urls := make([]string, len(images))
	errors := make([]error, len(images))

	numWorkers := min(5, len(images))

	jobs := make(chan int, len(images))
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				urls[i], errors[i] = s.SaveEncoded(ctx, images[i].Image, images[i].Name)
			}
		}()
	}

	for i := range images {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	var failedUploads []string
	for i, err := range errors {
		if err != nil {
			failedUploads = append(failedUploads, fmt.Sprintf("%s: %v", images[i].Name, err))
		}
	}

	if len(failedUploads) > 0 {
		return urls, fmt.Errorf("failed to upload %d files: %s",
			len(failedUploads), strings.Join(failedUploads, "; "))
	}

	return urls, nil
}
