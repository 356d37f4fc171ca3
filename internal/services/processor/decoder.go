package processor

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/growth-journal/internal/models"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads raw image bytes. mimeType may be empty, in which case it is sniffed.
func Decode(data []byte, mimeType string) (SourceImage, error) {
	if len(data) == 0 {
		return SourceImage{}, fmt.Errorf("%w: empty input", ErrDecode)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return SourceImage{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return SourceImage{
		Image:    img,
		Original: models.NewEncodedImage(mimeType, data),
	}, nil
}

// DecodeDataURI reads a base64 data URI. The URI itself is kept as the original so
// that a short-circuited Reencode hands back the exact same string.
func DecodeDataURI(uri string) (SourceImage, error) {
	comma := strings.IndexByte(uri, ',')
	if !strings.HasPrefix(strings.ToLower(uri), "data:") || comma < 0 {
		return SourceImage{}, fmt.Errorf("%w: not a data URI", ErrDecode)
	}
	if !strings.HasSuffix(strings.ToLower(uri[:comma]), ";base64") {
		return SourceImage{}, fmt.Errorf("%w: data URI is not base64 encoded", ErrDecode)
	}

	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return SourceImage{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	mimeType := models.DataURIMime(uri)
	src, err := Decode(data, mimeType)
	if err != nil {
		return SourceImage{}, err
	}
	src.Original = &models.EncodedImage{
		DataURI:  uri,
		MimeType: mimeType,
		Size:     models.DataURISize(uri),
	}
	return src, nil
}

// ReadLimited reads at most maxSize bytes and fails if r holds more.
func ReadLimited(r io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("file size exceeds maximum allowed size %d", maxSize)
	}
	return data, nil
}
