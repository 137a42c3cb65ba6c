package model

import "time"

// EntityImage is a gallery image owned by an institution or scholarship.
// The object itself lives in the Spaces bucket; this row holds both the
// origin URL and the CDN URL.
type EntityImage struct {
	ID           int64     `json:"id" db:"id"`
	EntityType   string    `json:"entity_type" db:"entity_type"`
	EntityID     int64     `json:"entity_id" db:"entity_id"`
	ImageURL     string    `json:"image_url" db:"image_url"`
	CDNURL       string    `json:"cdn_url" db:"cdn_url"`
	Filename     string    `json:"filename" db:"filename"`
	Caption      string    `json:"caption,omitempty" db:"caption"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	IsFeatured   bool      `json:"is_featured" db:"is_featured"`
	ImageType    string    `json:"image_type,omitempty" db:"image_type"` // campus, students, facilities, events
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// EntityVideo is an embedded video (hosted elsewhere) shown on an entity's
// public profile.
type EntityVideo struct {
	ID           int64     `json:"id" db:"id"`
	EntityType   string    `json:"entity_type" db:"entity_type"`
	EntityID     int64     `json:"entity_id" db:"entity_id"`
	VideoURL     string    `json:"video_url" db:"video_url"`
	Title        string    `json:"title,omitempty" db:"title"`
	Description  string    `json:"description,omitempty" db:"description"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	VideoType    string    `json:"video_type,omitempty" db:"video_type"` // tour, testimonial, overview, custom
	DisplayOrder int       `json:"display_order" db:"display_order"`
	IsFeatured   bool      `json:"is_featured" db:"is_featured"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
