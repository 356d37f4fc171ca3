package processor

import "errors"

var (
	ErrDecode         = errors.New("failed to read image, please retry")
	ErrInvalidPolicy  = errors.New("invalid encoding policy")
	ErrImageTooLarge  = errors.New("image too large even after compression, choose a smaller file")
	ErrUnknownProfile = errors.New("unknown encoding profile")
)
