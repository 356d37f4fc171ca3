package processor

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// surface is the off-screen drawing buffer of one Reencode call. Its pixel slice is
// reused across rounds and resliced to each round's dimensions.
type surface struct {
	img    *image.NRGBA
	filter imaging.ResampleFilter
}

func newSurface(filter imaging.ResampleFilter) *surface {
	return &surface{filter: filter}
}

func (s *surface) resize(width, height int) {
	n := width * height * 4
	if s.img == nil || cap(s.img.Pix) < n {
		s.img = image.NewNRGBA(image.Rect(0, 0, width, height))
		return
	}
	s.img.Pix = s.img.Pix[:n]
	s.img.Stride = width * 4
	s.img.Rect = image.Rect(0, 0, width, height)
}

// render draws src scaled to width x height. An opaque background is painted first
// so transparent pixels come out in that color instead of black.
func (s *surface) render(src image.Image, width, height int, background color.Color) *image.NRGBA {
	s.resize(width, height)
	bounds := s.img.Bounds()

	scaled := src
	if b := src.Bounds(); b.Dx() != width || b.Dy() != height {
		scaled = imaging.Resize(src, width, height, s.filter)
	}

	if background != nil {
		draw.Draw(s.img, bounds, image.NewUniform(background), image.Point{}, draw.Src)
		draw.Draw(s.img, bounds, scaled, scaled.Bounds().Min, draw.Over)
	} else {
		draw.Draw(s.img, bounds, scaled, scaled.Bounds().Min, draw.Src)
	}

	return s.img
}
