package utils

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestDownloadImage(t *testing.T) {
	img := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Write(img)
		case "/text":
			w.Write([]byte("hello there"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	data, contentType, err := DownloadImage(ctx, srv.URL+"/ok.png", 1<<20)
	require.NoError(t, err)
	assert.Equal(t, img, data)
	assert.Equal(t, "image/png", contentType)

	_, _, err = DownloadImage(ctx, srv.URL+"/ok.png", 10)
	assert.ErrorContains(t, err, "maximum allowed size")

	_, _, err = DownloadImage(ctx, srv.URL+"/text", 1<<20)
	assert.ErrorContains(t, err, "invalid content type")

	_, _, err = DownloadImage(ctx, srv.URL+"/missing", 1<<20)
	assert.ErrorContains(t, err, "status 404")
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"sea", "sunset", "family"}, ParseTags(" sea, sunset，family ,,"))
	assert.Equal(t, []string{}, ParseTags(""))
}

func TestGenerateNames(t *testing.T) {
	assert.True(t, strings.HasSuffix(GenerateFilename("avatar", "image/png"), ".png"))
	assert.True(t, strings.HasPrefix(GenerateFilename("", "image/jpeg"), "image_"))

	key := GenerateStorageKey("photo_1.jpg")
	assert.True(t, strings.HasPrefix(key, "processed/photo_1_"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	assert.NotEqual(t, GenerateID(), GenerateID())
}
