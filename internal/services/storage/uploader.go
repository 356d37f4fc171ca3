package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/phambaophuc/growth-journal/internal/models"
	"github.com/phambaophuc/growth-journal/pkg/utils"
	storage_go "github.com/supabase-community/storage-go"
)

var ErrBlobStoreDisabled = errors.New("blob store not configured")

// Upload uploads file to Supabase Storage
func (s *StorageService) Upload(ctx context.Context, buffer *bytes.Buffer, filename, contentType string) (string, error) {
	if !s.BlobStoreEnabled() {
		return "", ErrBlobStoreDisabled
	}

	key := utils.GenerateStorageKey(filename)

	_, err := s.sbClient.UploadFile(s.bucket, key, bytes.NewReader(buffer.Bytes()), storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := s.sbClient.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}

// SaveEncoded uploads the payload of an encoded image and returns its public URL.
func (s *StorageService) SaveEncoded(ctx context.Context, img *models.EncodedImage, name string) (string, error) {
	comma := strings.IndexByte(img.DataURI, ',')
	if comma < 0 {
		return "", fmt.Errorf("encoded image %s has no payload", name)
	}

	data, err := base64.StdEncoding.DecodeString(img.DataURI[comma+1:])
	if err != nil {
		return "", fmt.Errorf("failed to decode payload of %s: %w", name, err)
	}

	return s.Upload(ctx, bytes.NewBuffer(data), utils.GenerateFilename(name, img.MimeType), img.MimeType)
}

// Delete removes file from Supabase Storage
func (s *StorageService) Delete(ctx context.Context, path string) error {
	if !s.BlobStoreEnabled() {
		return ErrBlobStoreDisabled
	}
	_, err := s.sbClient.RemoveFile(s.bucket, []string{path})
	return err
}

// DeleteByURL removes a previously uploaded image given its public URL. Inline data URIs
// are not in the blob store and are ignored.
func (s *StorageService) DeleteByURL(ctx context.Context, publicURL string) error {
	if strings.HasPrefix(publicURL, "data:") || publicURL == "" {
		return nil
	}
	key, ok := s.StorageKeyFromURL(publicURL)
	if !ok {
		return fmt.Errorf("url %q is not in bucket %s", publicURL, s.bucket)
	}
	return s.Delete(ctx, key)
}

// StorageKeyFromURL returns the object key of a public URL of this bucket.
func (s *StorageService) StorageKeyFromURL(publicURL string) (string, bool) {
	marker := "/object/public/" + s.bucket + "/"
	idx := strings.Index(publicURL, marker)
	if idx < 0 {
		return "", false
	}
	key := publicURL[idx+len(marker):]
	if q := strings.IndexByte(key, '?'); q >= 0 {
		key = key[:q]
	}
	return key, key != ""
}
