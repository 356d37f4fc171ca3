package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/growth-journal/internal/models"
)

const DefaultWorkers = 5

// SourceImage is a decoded raster. Original is the encoded form it was decoded from,
// when the caller has it; without it the short-circuit check is skipped.
type SourceImage struct {
	Image    image.Image
	Original *models.EncodedImage
}

func (s SourceImage) MimeType() string {
	if s.Original != nil && s.Original.MimeType != "" {
		return s.Original.MimeType
	}
	return models.MimeJPEG
}

type Option func(*ImageProcessor)

func WithEncoder(enc Encoder) Option {
	return func(p *ImageProcessor) { p.encoder = enc }
}

func WithResampleFilter(filter imaging.ResampleFilter) Option {
	return func(p *ImageProcessor) { p.filter = filter }
}

func WithWorkers(n int) Option {
	return func(p *ImageProcessor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// Attempt records one encode inside a Reencode call.
type Attempt struct {
	Width   int
	Height  int
	Quality float64
	Size    int64
}

type ImageProcessor struct {
	encoder Encoder
	filter  imaging.ResampleFilter
	workers int

	// trace, when set, receives every attempt in order.
	trace func(Attempt)
}

func NewImageProcessor(opts ...Option) *ImageProcessor {
	p := &ImageProcessor{
		encoder: imagingEncoder{},
		filter:  imaging.Lanczos,
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Reencode fits src into the policy's byte budget. Quality is lowered first and the
// dimensions only once quality is at its floor. Not reaching the target is not an
// error: the last attempt is returned.
func (p *ImageProcessor) Reencode(src SourceImage, policy models.EncodingPolicy) (*models.EncodedImage, error) {
	if src.Image == nil {
		return nil, fmt.Errorf("%w: no raster", ErrDecode)
	}
	bounds := src.Image.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty raster %dx%d", ErrDecode, bounds.Dx(), bounds.Dy())
	}

	policy = policy.WithDefaults()
	if err := ValidatePolicy(policy); err != nil {
		return nil, err
	}

	if src.Original != nil && src.Original.Size <= policy.KeepOriginalUnderBytes {
		original := *src.Original
		original.Reencoded = false
		return &original, nil
	}

	mimeType := policy.ForSource(src.MimeType()).OutputMime()
	var background color.Color
	if mimeType == models.MimeJPEG {
		background = color.White
	}

	width, height := ScaledSize(bounds.Dx(), bounds.Dy(), policy.MaxDimension)
	quality := policy.InitialQuality
	surf := newSurface(p.filter)
	canvas := surf.render(src.Image, width, height, background)

	current, err := p.encode(canvas, mimeType, quality)
	if err != nil {
		return nil, err
	}

	rounds := 0
shrink:
	for policy.TargetSizeBytes > 0 && current.Size > policy.TargetSizeBytes && rounds < policy.MaxRounds {
		switch {
		case mimeType == models.MimeJPEG && quality > policy.MinQuality:
			quality = nextQuality(quality, policy.QualityStep, policy.MinQuality)
		case width > policy.DimensionFloor || height > policy.DimensionFloor:
			if policy.ClampToFloor {
				longest := max(policy.DimensionFloor, scale(max(width, height), policy.ShrinkFactor))
				width, height = ScaledSize(bounds.Dx(), bounds.Dy(), longest)
			} else {
				width = scale(width, policy.ShrinkFactor)
				height = scale(height, policy.ShrinkFactor)
			}
			canvas = surf.render(src.Image, width, height, background)
		default:
			break shrink
		}
		rounds++

		if current, err = p.encode(canvas, mimeType, quality); err != nil {
			return nil, err
		}
	}

	current.Reencoded = true
	current.Rounds = rounds
	return current, nil
}

func (p *ImageProcessor) encode(canvas *image.NRGBA, mimeType string, quality float64) (*models.EncodedImage, error) {
	var buf bytes.Buffer
	if err := p.encoder.Encode(&buf, canvas, mimeType, quality); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	out := models.NewEncodedImage(mimeType, buf.Bytes())
	out.Width = canvas.Rect.Dx()
	out.Height = canvas.Rect.Dy()
	if mimeType == models.MimeJPEG {
		out.Quality = quality
	}

	if p.trace != nil {
		p.trace(Attempt{Width: out.Width, Height: out.Height, Quality: quality, Size: out.Size})
	}
	return out, nil
}
