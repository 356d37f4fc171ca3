package models

import (
	"encoding/base64"
	"strings"
)

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// Defaults for the shrink loop tuning fields.
const (
	DefaultQualityStep    = 0.05
	DefaultDimensionFloor = 720
	DefaultShrinkFactor   = 0.92
	DefaultMaxRounds      = 12
)

// EncodingPolicy controls how an uploaded image is re-encoded before it is persisted.
type EncodingPolicy struct {
	MimeType               string  `json:"mime_type" yaml:"mime_type"`
	MaxDimension           int     `json:"max_dimension" yaml:"max_dimension"`
	TargetSizeBytes        int64   `json:"target_size_bytes" yaml:"target_size_bytes"`
	KeepOriginalUnderBytes int64   `json:"keep_original_under_bytes" yaml:"keep_original_under_bytes"`
	InitialQuality         float64 `json:"initial_quality" yaml:"initial_quality"`
	MinQuality             float64 `json:"min_quality" yaml:"min_quality"`
	QualityStep            float64 `json:"quality_step" yaml:"quality_step"`
	DimensionFloor         int     `json:"dimension_floor" yaml:"dimension_floor"`
	ShrinkFactor           float64 `json:"shrink_factor" yaml:"shrink_factor"`
	MaxRounds              int     `json:"max_rounds" yaml:"max_rounds"`
	// ClampToFloor shrinks the longest side and stops it at DimensionFloor instead of
	// scaling both sides past the floor.
	ClampToFloor bool `json:"clamp_to_floor,omitempty" yaml:"clamp_to_floor"`
}

// WithDefaults fills the zero-valued tuning fields.
func (p EncodingPolicy) WithDefaults() EncodingPolicy {
	if p.QualityStep == 0 {
		p.QualityStep = DefaultQualityStep
	}
	if p.DimensionFloor == 0 {
		p.DimensionFloor = DefaultDimensionFloor
	}
	if p.ShrinkFactor == 0 {
		p.ShrinkFactor = DefaultShrinkFactor
	}
	if p.MaxRounds == 0 {
		p.MaxRounds = DefaultMaxRounds
	}
	return p
}

// OutputMime narrows any mime type to the two formats the encoder produces.
func (p EncodingPolicy) OutputMime() string {
	return NormalizeMime(p.MimeType)
}

// ForSource returns a copy of the policy whose output format follows the uploaded file.
func (p EncodingPolicy) ForSource(sourceMime string) EncodingPolicy {
	if p.MimeType == "" {
		p.MimeType = NormalizeMime(sourceMime)
	}
	return p
}

// NormalizeMime maps PNG to PNG and everything else to JPEG.
func NormalizeMime(mimeType string) string {
	if strings.Contains(strings.ToLower(mimeType), "png") {
		return MimePNG
	}
	return MimeJPEG
}

// EncodedImage is a self-describing data URI plus its decoded byte size.
type EncodedImage struct {
	DataURI   string  `json:"data_uri"`
	MimeType  string  `json:"mime_type"`
	Size      int64   `json:"size"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	Quality   float64 `json:"quality,omitempty"`
	Reencoded bool    `json:"reencoded"`
	Rounds    int     `json:"rounds,omitempty"`
}

// NewEncodedImage wraps raw encoded bytes into a base64 data URI.
func NewEncodedImage(mimeType string, data []byte) *EncodedImage {
	payload := base64.StdEncoding.EncodeToString(data)
	return &EncodedImage{
		DataURI:  "data:" + mimeType + ";base64," + payload,
		MimeType: mimeType,
		Size:     Base64Size(len(payload)),
	}
}

// Base64Size is the number of raw bytes a base64 payload of n characters stands for,
// rounded up: ceil(n*3/4).
func Base64Size(n int) int64 {
	if n <= 0 {
		return 0
	}
	return (int64(n)*3 + 3) / 4
}

// DataURISize measures the payload after the comma, or the whole string when there is none.
func DataURISize(uri string) int64 {
	if uri == "" {
		return 0
	}
	if i := strings.IndexByte(uri, ','); i >= 0 {
		return Base64Size(len(uri) - i - 1)
	}
	return Base64Size(len(uri))
}

// DataURIMime extracts the mime type of a data URI, defaulting to JPEG.
func DataURIMime(uri string) string {
	if !strings.HasPrefix(strings.ToLower(uri), "data:") {
		return MimeJPEG
	}
	rest := uri[len("data:"):]
	end := strings.IndexAny(rest, ";,")
	if end <= 0 {
		return MimeJPEG
	}
	return rest[:end]
}
