package queue

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/disintegration/imaging"
	"github.com/phambaophuc/growth-journal/internal/config"
	"github.com/phambaophuc/growth-journal/internal/models"
	"github.com/phambaophuc/growth-journal/internal/services/processor"
	"github.com/phambaophuc/growth-journal/internal/services/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), uint8(x ^ y), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func newTestRunner(t *testing.T) (*Runner, *httptest.Server, *int32) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	cfg.Storage.CacheDuration = time.Hour
	store, err := storage.NewStorageService(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	profiles, err := processor.NewProfiles(map[string]models.EncodingPolicy{
		"small": {
			MimeType:       models.MimeJPEG,
			MaxDimension:   100,
			InitialQuality: 0.8,
			MinQuality:     0.6,
		},
	})
	require.NoError(t, err)

	img := testImage(t, 300, 200)
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/img.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(img)
	}))
	t.Cleanup(srv.Close)

	return NewRunner(processor.NewImageProcessor(), profiles, store, 1<<20, zap.NewNop()), srv, &hits
}

func TestRunner_Run(t *testing.T) {
	r, srv, hits := newTestRunner(t)
	ctx := context.Background()

	job := &models.ReencodeJob{ID: "job-1", ImageURL: srv.URL + "/img.png", Profile: "small"}
	r.Run(ctx, job)

	require.Equal(t, models.StatusCompleted, job.Status, job.Error)
	require.NotNil(t, job.Result)
	assert.Equal(t, 100, job.Result.Width)
	assert.Equal(t, 67, job.Result.Height)
	assert.Equal(t, models.MimeJPEG, job.Result.MimeType)
	assert.True(t, job.Result.Reencoded)
	assert.Empty(t, job.Result.URL)

	stored, err := r.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)

	img, err := r.ResultImage(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, job.Result.Size, img.Size)

	again := &models.ReencodeJob{ID: "job-2", ImageURL: srv.URL + "/img.png", Profile: "small"}
	r.Run(ctx, again)
	assert.Equal(t, models.StatusCompleted, again.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits), "second job should be served from cache")
}

func TestRunner_Failures(t *testing.T) {
	r, srv, _ := newTestRunner(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		job     *models.ReencodeJob
		wantErr string
	}{
		{"unknown profile", &models.ReencodeJob{ID: "a", ImageURL: srv.URL + "/img.png", Profile: "banner"}, "unknown encoding profile"},
		{"missing image", &models.ReencodeJob{ID: "b", ImageURL: srv.URL + "/nope.png", Profile: "small"}, "status 404"},
		{"blob store off", &models.ReencodeJob{ID: "c", StoragePath: "uploads/x.png", Profile: "small"}, "blob store not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.Run(ctx, tt.job)
			assert.Equal(t, models.StatusFailed, tt.job.Status)
			assert.Contains(t, tt.job.Error, tt.wantErr)

			stored, err := r.GetJob(ctx, tt.job.ID)
			require.NoError(t, err)
			assert.Equal(t, models.StatusFailed, stored.Status)
		})
	}
}

func TestRunner_GetJobMissing(t *testing.T) {
	r, _, _ := newTestRunner(t)

	_, err := r.GetJob(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrJobNotFound)
}
