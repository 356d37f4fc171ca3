package models

// BatchImage is one slot of a batch re-encode; exactly one of Image and Error is set.
type BatchImage struct {
	Name  string        `json:"name"`
	Image *EncodedImage `json:"image,omitempty"`
	Error string        `json:"error,omitempty"`
}

type BatchResponse struct {
	Profile string       `json:"profile"`
	Images  []BatchImage `json:"images"`
	Failed  int          `json:"failed"`
}
