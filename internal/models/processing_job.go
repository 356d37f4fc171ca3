package models

import "time"

type ReencodeJob struct {
	ID          string        `json:"id"`
	ImageURL    string        `json:"image_url,omitempty"`
	StoragePath string        `json:"storage_path,omitempty"`
	Profile     string        `json:"profile"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	Result      *ReencodedRef `json:"result,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// ReencodedRef points at a job result without carrying the image payload.
type ReencodedRef struct {
	URL         string    `json:"url,omitempty"`
	CacheKey    string    `json:"cache_key"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Reencoded   bool      `json:"reencoded"`
	ProcessedAt time.Time `json:"processed_at"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
