package storage

import (
	"context"

	storage_go "github.com/supabase-community/storage-go"
)

const (
	statusHealthy       = "healthy"
	statusNotConfigured = "not configured"
)

// HealthCheck reports the status of redis and of the supabase bucket.
func (s *StorageService) HealthCheck(ctx context.Context) map[string]string {
	return map[string]string{
		"redis":    s.redisStatus(ctx),
		"supabase": s.blobStoreStatus(),
	}
}

func (s *StorageService) redisStatus(ctx context.Context) string {
	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return "unhealthy: " + err.Error()
	}
	return statusHealthy
}

func (s *StorageService) blobStoreStatus() string {
	if !s.BlobStoreEnabled() {
		return statusNotConfigured
	}
	if _, err := s.sbClient.ListFiles(s.bucket, "", storage_go.FileSearchOptions{}); err != nil {
		return "unhealthy: " + err.Error()
	}
	return statusHealthy
}
