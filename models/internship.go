package models

import "time"

// Internship is a posting imported from the external listings feed.
// The feed ingester is the only writer; everything else reads.
type Internship struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Company    string    `gorm:"size:255;not null;index" json:"company"`
	Role       string    `gorm:"size:255;not null" json:"role"`
	Location   string    `gorm:"size:512" json:"location"`
	Remote     bool      `gorm:"default:false" json:"remote"`
	Link       string    `gorm:"size:1024" json:"link"`
	DatePosted string    `gorm:"size:32" json:"date_posted"` // opaque feed value, not guaranteed to parse as a date
	Source     string    `gorm:"size:64" json:"source"`
	Season     string    `gorm:"size:32" json:"season"`
	Active     bool      `gorm:"default:true;index" json:"active"`
	IsVisible  bool      `gorm:"default:true;index" json:"is_visible"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
