package models

import "time"

// Comment is a reader reply on a blog post. Comments stay hidden until approved.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BlogPostID  uint      `gorm:"index;not null" json:"blog_post_id"`
	AuthorName  string    `gorm:"size:100;not null" json:"author_name"`
	AuthorEmail string    `gorm:"size:255" json:"-"`
	Website     string    `gorm:"size:255" json:"website,omitempty"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Approved    bool      `gorm:"index;not null;default:false" json:"approved"`
	IP          string    `gorm:"size:45" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
