package models

import "time"

// UploadedFile records an image stored in the media library.
type UploadedFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	FilePath     string    `gorm:"size:1024;not null" json:"-"`
	URL          string    `gorm:"size:512;not null" json:"url"`
	MimeType     string    `gorm:"size:100" json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}
