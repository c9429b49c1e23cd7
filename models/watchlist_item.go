package models

import "time"

// WatchlistItem is a company name a user wants to track. The composite unique
// index stops a user from adding the same company twice; matching against the
// internship catalog is done case-insensitively at query time.
type WatchlistItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_watchlist_user_company,unique" json:"user_id"`
	CompanyName string    `gorm:"size:255;not null;index:idx_watchlist_user_company,unique" json:"company_name"`
	AddedAt     time.Time `gorm:"autoCreateTime" json:"added_at"`
}
