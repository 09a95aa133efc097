package models

import "time"

// PageView stores aggregated page view counts per day and path.
// Date is the local calendar day formatted as 2006-01-02.
type PageView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"index:idx_pv_date_path,unique;size:10;not null" json:"date"`
	Path      string    `gorm:"index;index:idx_pv_date_path,unique;size:255;not null" json:"path"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Visitor is one anonymised visitor per day. Hash never contains the raw IP.
type Visitor struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Date       string    `gorm:"index:idx_visitor_date_hash,unique;size:10;not null" json:"date"`
	Hash       string    `gorm:"index:idx_visitor_date_hash,unique;size:16;not null" json:"hash"`
	FirstPath  string    `gorm:"size:255" json:"first_path"`
	Referrer   string    `gorm:"size:255" json:"referrer"`
	Views      int64     `gorm:"not null;default:0" json:"views"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
}
