package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/phambaophuc/growth-journal/internal/models"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const MaxPlaceholderDimension = 2000

var (
	placeholderBackground = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	placeholderText       = color.RGBA{0x99, 0x99, 0x99, 0xff}
)

// Placeholder renders a grey PNG labelled with its own size, used for records saved
// without an image.
func (p *ImageProcessor) Placeholder(width, height int) (*models.EncodedImage, error) {
	if width <= 0 || height <= 0 || width > MaxPlaceholderDimension || height > MaxPlaceholderDimension {
		return nil, fmt.Errorf("placeholder size %dx%d out of range", width, height)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(placeholderBackground), image.Point{}, draw.Src)

	drawCentered(canvas, "Placeholder", height/2-10)
	drawCentered(canvas, fmt.Sprintf("%dx%d", width, height), height/2+15)

	var buf bytes.Buffer
	if err := p.encoder.Encode(&buf, canvas, models.MimePNG, 1); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder: %w", err)
	}

	out := models.NewEncodedImage(models.MimePNG, buf.Bytes())
	out.Width, out.Height = width, height
	return out, nil
}

// drawCentered draws text horizontally centered with its vertical middle at y.
func drawCentered(img *image.RGBA, text string, y int) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(placeholderText),
		Face: face,
	}
	x := (fixed.I(img.Bounds().Dx()) - d.MeasureString(text)) / 2
	baseline := y + (face.Ascent-face.Descent)/2
	d.Dot = fixed.Point26_6{X: x, Y: fixed.I(baseline)}
	d.DrawString(text)
}
