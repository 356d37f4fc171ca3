package storage

import (
	"context"
	"fmt"
	"strings"
)

// Download fetches an object from the bucket. path may be a bucket key or one of the
// bucket's public URLs.
func (s *StorageService) Download(ctx context.Context, path string) ([]byte, error) {
	if !s.BlobStoreEnabled() {
		return nil, ErrBlobStoreDisabled
	}

	if key, ok := s.StorageKeyFromURL(path); ok {
		path = key
	}
	path = strings.TrimPrefix(path, "/")

	data, err := s.sbClient.DownloadFile(s.bucket, path)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", path, err)
	}
	return data, nil
}
