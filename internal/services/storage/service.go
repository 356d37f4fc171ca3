package storage

import (
	"time"

	"github.com/phambaophuc/growth-journal/internal/config"
	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"
)

const CacheKeyPrefix = "img_cache:"

// StorageService keeps journal records and job results in Redis and, when Supabase is
// configured, encoded images in a storage bucket.
type StorageService struct {
	sbClient      *storage_go.Client
	redisClient   *redis.Client
	bucket        string
	cacheDuration time.Duration
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	var sbClient *storage_go.Client
	if cfg.Supabase.URL != "" {
		sbClient = storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.KEY, nil)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	return &StorageService{
		sbClient:      sbClient,
		redisClient:   redisClient,
		bucket:        cfg.Supabase.BUCKET,
		cacheDuration: cfg.Storage.CacheDuration,
	}, nil
}

// BlobStoreEnabled reports whether encoded images can be offloaded to the bucket.
func (s *StorageService) BlobStoreEnabled() bool {
	return s.sbClient != nil && s.bucket != ""
}

func (s *StorageService) Close() error {
	return s.redisClient.Close()
}
