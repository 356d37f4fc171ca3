package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		validate func(t *testing.T, cfg *Config)
		wantErr  bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "8080", cfg.Server.Port)
				assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
				assert.Equal(t, "image_reencode", cfg.RabbitMQ.QueueName)
				assert.Equal(t, int64(20*1024*1024), cfg.Storage.MaxFileSize)
				assert.Equal(t, 24*time.Hour, cfg.Storage.CacheDuration)
				assert.Equal(t, 5, cfg.Encoder.Workers)
				assert.Empty(t, cfg.Encoder.ProfilesFile)
				assert.Empty(t, cfg.Supabase.URL)
				assert.Empty(t, cfg.Server.CORSOrigins)
			},
		},
		{
			name: "overrides from environment",
			env: map[string]string{
				"PORT":            "9090",
				"REDIS_DB":        "3",
				"CACHE_DURATION":  "2h",
				"PROFILES_FILE":   "/etc/journal/profiles.yaml",
				"ENCODER_WORKERS": "8",
				"MAX_FILE_SIZE":   "1048576",
				"CORS_ORIGINS":    "https://a.example, https://b.example,",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "9090", cfg.Server.Port)
				assert.Equal(t, 3, cfg.Redis.DB)
				assert.Equal(t, 2*time.Hour, cfg.Storage.CacheDuration)
				assert.Equal(t, "/etc/journal/profiles.yaml", cfg.Encoder.ProfilesFile)
				assert.Equal(t, 8, cfg.Encoder.Workers)
				assert.Equal(t, int64(1<<20), cfg.Storage.MaxFileSize)
				assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
			},
		},
		{
			name: "malformed values fall back to defaults",
			env: map[string]string{
				"REDIS_DB":       "three",
				"CACHE_DURATION": "soon",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0, cfg.Redis.DB)
				assert.Equal(t, 24*time.Hour, cfg.Storage.CacheDuration)
			},
		},
		{
			name:    "non-positive max file size",
			env:     map[string]string{"MAX_FILE_SIZE": "-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}
