package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project statuses.
const (
	ProjectStatusCompleted  = "completed"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusArchived   = "archived"
)

// Project is a portfolio entry. Skills are attached through ProjectSkill rows.
type Project struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Title         string                      `gorm:"size:200;not null" json:"title"`
	Slug          string                      `gorm:"size:200;not null;uniqueIndex" json:"slug"`
	Summary       string                      `gorm:"size:500" json:"summary"`
	Description   string                      `gorm:"type:text" json:"description"`
	Category      string                      `gorm:"size:64;index" json:"category"`
	Technologies  datatypes.JSONSlice[string] `json:"technologies"`
	Images        datatypes.JSONSlice[string] `json:"images"`
	ThumbnailURL  string                      `gorm:"size:1024" json:"thumbnail_url"`
	LiveURL       string                      `gorm:"size:1024" json:"live_url"`
	RepoURL       string                      `gorm:"size:1024" json:"repo_url"`
	Status        string                      `gorm:"size:32;not null;default:'completed'" json:"status"`
	Featured      bool                        `gorm:"index;not null;default:false" json:"featured"`
	SortOrder     int                         `gorm:"not null;default:0" json:"sort_order"`
	StartedAt     *time.Time                  `json:"started_at"`
	CompletedAt   *time.Time                  `json:"completed_at"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	ProjectSkills []ProjectSkill              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"skills"`
	CaseStudies   []CaseStudy                 `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}
