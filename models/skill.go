package models

import "time"

// Importance tags on the project/skill join.
const (
	ImportancePrimary   = "primary"
	ImportanceSecondary = "secondary"
	ImportanceMinor     = "minor"
)

// Skill is a technology or capability; names are unique regardless of case.
type Skill struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Category  string    `gorm:"size:64;index" json:"category"`
	Level     int       `gorm:"not null;default:0" json:"level"`
	Icon      string    `gorm:"size:255" json:"icon"`
	YearsUsed float64   `gorm:"not null;default:0" json:"years_used"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectSkill links a project to a skill with an importance tag.
type ProjectSkill struct {
	ProjectID  uint   `gorm:"primaryKey;autoIncrement:false" json:"project_id"`
	SkillID    uint   `gorm:"primaryKey;autoIncrement:false;index" json:"skill_id"`
	Importance string `gorm:"size:16;not null;default:'secondary'" json:"importance"`
	Skill      Skill  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"skill"`
}
