package models

import "time"

// The profile sections below are flat, admin-ordered lists rendered on the home page.
// Binding tags are validated on admin create and update.

// Testimonial is a quote from a client or colleague.
type Testimonial struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required,max=100"`
	Role      string    `gorm:"size:100" json:"role" binding:"max=100"`
	Company   string    `gorm:"size:100" json:"company" binding:"max=100"`
	Quote     string    `gorm:"type:text;not null" json:"quote" binding:"required,max=2000"`
	AvatarURL string    `gorm:"size:1024" json:"avatar_url" binding:"omitempty,url,max=1024"`
	Rating    int       `gorm:"not null;default:0" json:"rating" binding:"min=0,max=5"`
	Featured  bool      `gorm:"not null;default:false" json:"featured"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Experience is a position in the work history.
type Experience struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Company     string     `gorm:"size:200;not null" json:"company" binding:"required,max=200"`
	Position    string     `gorm:"size:200;not null" json:"position" binding:"required,max=200"`
	Location    string     `gorm:"size:200" json:"location" binding:"max=200"`
	Description string     `gorm:"type:text" json:"description" binding:"max=5000"`
	CompanyURL  string     `gorm:"size:1024" json:"company_url" binding:"omitempty,url,max=1024"`
	StartDate   time.Time  `gorm:"not null" json:"start_date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`
	Current     bool       `gorm:"not null;default:false" json:"current"`
	SortOrder   int        `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Education is a degree or course of study.
type Education struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Institution  string     `gorm:"size:200;not null" json:"institution" binding:"required,max=200"`
	Degree       string     `gorm:"size:200;not null" json:"degree" binding:"required,max=200"`
	FieldOfStudy string     `gorm:"size:200" json:"field_of_study" binding:"max=200"`
	Description  string     `gorm:"type:text" json:"description" binding:"max=5000"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	SortOrder    int        `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Education is already plural in meaning.
func (Education) TableName() string { return "education" }

// Certification is a professional credential.
type Certification struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"size:200;not null" json:"name" binding:"required,max=200"`
	Issuer        string     `gorm:"size:200;not null" json:"issuer" binding:"required,max=200"`
	IssueDate     *time.Time `json:"issue_date"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	CredentialID  string     `gorm:"size:200" json:"credential_id" binding:"max=200"`
	CredentialURL string     `gorm:"size:1024" json:"credential_url" binding:"omitempty,url,max=1024"`
	SortOrder     int        `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Service is an offering listed for prospective clients.
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title" binding:"required,max=200"`
	Description string    `gorm:"type:text" json:"description" binding:"max=5000"`
	Icon        string    `gorm:"size:255" json:"icon" binding:"max=255"`
	PriceFrom   string    `gorm:"size:64" json:"price_from" binding:"max=64"`
	Active      bool      `gorm:"index;not null;default:false" json:"active"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FAQ is a question and answer pair.
type FAQ struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Question  string    `gorm:"size:500;not null" json:"question" binding:"required,max=500"`
	Answer    string    `gorm:"type:text;not null" json:"answer" binding:"required,max=5000"`
	Category  string    `gorm:"size:64" json:"category" binding:"max=64"`
	Published bool      `gorm:"index;not null;default:false" json:"published"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FAQ would otherwise map to "fa_qs".
func (FAQ) TableName() string { return "faqs" }
