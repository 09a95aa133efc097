package models

import (
	"time"

	"gorm.io/datatypes"
)

// CaseStudy is a long-form write-up, optionally tied to a project.
type CaseStudy struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	Title        string                      `gorm:"size:200;not null" json:"title"`
	Slug         string                      `gorm:"size:200;not null;uniqueIndex" json:"slug"`
	Client       string                      `gorm:"size:200" json:"client"`
	Industry     string                      `gorm:"size:100" json:"industry"`
	Summary      string                      `gorm:"size:500" json:"summary"`
	Challenge    string                      `gorm:"type:text" json:"challenge"`
	Solution     string                      `gorm:"type:text" json:"solution"`
	Results      string                      `gorm:"type:text" json:"results"`
	Metrics      datatypes.JSON              `json:"metrics"`
	Technologies datatypes.JSONSlice[string] `json:"technologies"`
	CoverImage   string                      `gorm:"size:1024" json:"cover_image"`
	ProjectID    *uint                       `gorm:"index" json:"project_id"`
	Published    bool                        `gorm:"index;not null;default:false" json:"published"`
	SortOrder    int                         `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}
