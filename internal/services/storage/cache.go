package storage

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"

	"github.com/phambaophuc/growth-journal/internal/models"
	"github.com/redis/go-redis/v9"
)

func (s *StorageService) GetFromCache(ctx context.Context, cacheKey string) ([]byte, error) {
	data, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	return data, nil
}

func (s *StorageService) SetCache(ctx context.Context, cacheKey string, data []byte) error {
	return s.redisClient.Set(ctx, cacheKey, data, s.cacheDuration).Err()
}

// GenerateCacheKey derives a key from the source location and every policy field that
// affects the output.
func (s *StorageService) GenerateCacheKey(source string, policy models.EncodingPolicy) string {
	hash := md5.New()

	hash.Write([]byte(source))
	hash.Write([]byte(fmt.Sprintf("policy_%s_%d_%d_%d_%.3f_%.3f_%.3f_%d_%.3f_%d_%t",
		policy.MimeType, policy.MaxDimension, policy.TargetSizeBytes, policy.KeepOriginalUnderBytes,
		policy.InitialQuality, policy.MinQuality, policy.QualityStep,
		policy.DimensionFloor, policy.ShrinkFactor, policy.MaxRounds, policy.ClampToFloor)))

	return fmt.Sprintf("%s%x", CacheKeyPrefix, hash.Sum(nil))
}

// GetCacheStats counts cached results and stored job records.
func (s *StorageService) GetCacheStats(ctx context.Context) (map[string]interface{}, error) {
	dbSize, err := s.redisClient.DBSize(ctx).Result()
	if err != nil {
		return nil, err
	}

	cached, err := s.countKeys(ctx, CacheKeyPrefix+"*")
	if err != nil {
		return nil, err
	}
	jobs, err := s.countKeys(ctx, "job:*")
	if err != nil {
		return nil, err
	}

	stats := map[string]interface{}{
		"db_keys":       dbSize,
		"cached_images": cached,
		"jobs":          jobs,
	}

	return stats, nil
}

func (s *StorageService) countKeys(ctx context.Context, pattern string) (int, error) {
	var count int
	iter := s.redisClient.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", pattern, err)
	}
	return count, nil
}
