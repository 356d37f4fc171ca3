package models

import "time"

const DefaultCategory = "uncategorized"

// Photo is an album entry. Image and Thumbnail hold either a data URI or a blob store URL.
type Photo struct {
	ID          string            `json:"id"`
	Image       string            `json:"image"`
	Thumbnail   string            `json:"thumbnail"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	TripID      string            `json:"trip_id,omitempty"`
	Category    string            `json:"category"`
	Tags        []string          `json:"tags"`
	Liked       bool              `json:"liked"`
	Likes       int               `json:"likes"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	UploadedBy  string            `json:"uploaded_by"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type UserInfo struct {
	Name      string    `json:"name"`
	BirthDate string    `json:"birth_date"`
	City      string    `json:"city"`
	Signature string    `json:"signature"`
	Avatar    string    `json:"avatar"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type PhotoUpload struct {
	Title       string
	Description string
	TripID      string
	Category    string
	Tags        []string
	Liked       bool
	Image       *EncodedImage
	Thumbnail   *EncodedImage
}
