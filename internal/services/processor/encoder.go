package processor

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/growth-journal/internal/models"
)

// Encoder turns a rendered surface into encoded bytes. Quality is in [0, 1] and is
// ignored for lossless formats.
type Encoder interface {
	Encode(w io.Writer, img image.Image, mimeType string, quality float64) error
}

type imagingEncoder struct{}

func (imagingEncoder) Encode(w io.Writer, img image.Image, mimeType string, quality float64) error {
	switch mimeType {
	case models.MimeJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality(quality)))
	case models.MimePNG:
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	default:
		return fmt.Errorf("unsupported output format %q", mimeType)
	}
}

func jpegQuality(q float64) int {
	return min(100, max(1, int(math.Round(q*100))))
}
