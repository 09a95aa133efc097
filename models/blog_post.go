package models

import (
	"time"

	"gorm.io/datatypes"
)

// BlogPost is a markdown article on the public blog.
type BlogPost struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	Title          string                      `gorm:"size:200;not null" json:"title"`
	Slug           string                      `gorm:"size:200;not null;uniqueIndex" json:"slug"`
	Excerpt        string                      `gorm:"size:500" json:"excerpt"`
	Content        string                      `gorm:"type:text;not null" json:"content"`
	CoverImage     string                      `gorm:"size:1024" json:"cover_image"`
	Category       string                      `gorm:"size:64;index" json:"category"`
	Tags           datatypes.JSONSlice[string] `json:"tags"`
	Published      bool                        `gorm:"index;not null;default:false" json:"published"`
	Featured       bool                        `gorm:"not null;default:false" json:"featured"`
	ReadingTime    int                         `gorm:"not null;default:1" json:"reading_time"`
	Views          int64                       `gorm:"not null;default:0" json:"views"`
	SEOTitle       string                      `gorm:"size:200" json:"seo_title"`
	SEODescription string                      `gorm:"size:300" json:"seo_description"`
	PublishedAt    *time.Time                  `gorm:"index" json:"published_at"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
	Comments       []Comment                   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`
}
