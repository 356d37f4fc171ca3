package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBase64Size(t *testing.T) {
	tests := []struct {
		length int
		want   int64
	}{
		{0, 0},
		{4, 3},
		{5, 4},
		{6, 5},
		{7, 6},
		{8, 6},
		{1_333_336, 1_000_002},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Base64Size(tt.length), "length %d", tt.length)
	}
}

func TestNewEncodedImage(t *testing.T) {
	img := NewEncodedImage(MimePNG, []byte("hello"))

	assert.Equal(t, "data:image/png;base64,aGVsbG8=", img.DataURI)
	assert.Equal(t, int64(6), img.Size)
	assert.Equal(t, img.Size, DataURISize(img.DataURI))
}

func TestDataURIHelpers(t *testing.T) {
	assert.Equal(t, int64(3), DataURISize("data:image/jpeg;base64,AAAA"))
	assert.Equal(t, int64(3), DataURISize("AAAA"))
	assert.Equal(t, int64(0), DataURISize(""))

	assert.Equal(t, MimePNG, DataURIMime("data:image/png;base64,AAAA"))
	assert.Equal(t, MimeJPEG, DataURIMime("data:;base64,AAAA"))
	assert.Equal(t, MimeJPEG, DataURIMime("AAAA"))
}

func TestEncodingPolicyDefaults(t *testing.T) {
	p := EncodingPolicy{MaxDimension: 400}.WithDefaults()

	assert.Equal(t, DefaultQualityStep, p.QualityStep)
	assert.Equal(t, DefaultDimensionFloor, p.DimensionFloor)
	assert.Equal(t, DefaultShrinkFactor, p.ShrinkFactor)
	assert.Equal(t, DefaultMaxRounds, p.MaxRounds)

	assert.Equal(t, MimePNG, p.ForSource("image/png").OutputMime())
	assert.Equal(t, MimeJPEG, p.ForSource("image/webp").OutputMime())
	assert.Equal(t, MimeJPEG, EncodingPolicy{MimeType: MimeJPEG}.ForSource("image/png").OutputMime())
}
