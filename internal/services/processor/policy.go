package processor

import (
	"fmt"
	"math"

	"github.com/phambaophuc/growth-journal/internal/models"
)

// ValidatePolicy checks the preconditions Reencode relies on.
func ValidatePolicy(p models.EncodingPolicy) error {
	switch {
	case p.MimeType != "" && p.MimeType != models.MimeJPEG && p.MimeType != models.MimePNG:
		return fmt.Errorf("%w: unsupported mime type %q", ErrInvalidPolicy, p.MimeType)
	case p.MaxDimension <= 0:
		return fmt.Errorf("%w: max_dimension must be positive", ErrInvalidPolicy)
	case p.TargetSizeBytes < 0 || p.KeepOriginalUnderBytes < 0:
		return fmt.Errorf("%w: byte limits must not be negative", ErrInvalidPolicy)
	case !unit(p.InitialQuality) || !unit(p.MinQuality):
		return fmt.Errorf("%w: quality must be within [0, 1]", ErrInvalidPolicy)
	case p.MinQuality > p.InitialQuality:
		return fmt.Errorf("%w: min_quality %.2f above initial_quality %.2f", ErrInvalidPolicy, p.MinQuality, p.InitialQuality)
	case p.QualityStep <= 0 || p.QualityStep > 1:
		return fmt.Errorf("%w: quality_step must be within (0, 1]", ErrInvalidPolicy)
	case p.DimensionFloor <= 0:
		return fmt.Errorf("%w: dimension_floor must be positive", ErrInvalidPolicy)
	case p.ShrinkFactor <= 0 || p.ShrinkFactor >= 1:
		return fmt.Errorf("%w: shrink_factor must be within (0, 1)", ErrInvalidPolicy)
	case p.MaxRounds < 0:
		return fmt.Errorf("%w: max_rounds must not be negative", ErrInvalidPolicy)
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

// ScaledSize fits width x height so the longer side is at most maxDimension.
// Images already small enough keep their size.
func ScaledSize(width, height, maxDimension int) (int, int) {
	longest := max(width, height)
	if longest <= maxDimension {
		return max(1, width), max(1, height)
	}
	ratio := float64(maxDimension) / float64(longest)
	return scale(width, ratio), scale(height, ratio)
}

func scale(v int, factor float64) int {
	return max(1, int(math.Round(float64(v)*factor)))
}

// nextQuality steps quality down without passing the floor.
func nextQuality(quality, step, floor float64) float64 {
	next := quality - step
	if next < floor+1e-9 {
		return floor
	}
	return math.Round(next*1e6) / 1e6
}
