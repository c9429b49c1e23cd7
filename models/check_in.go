package models

import "time"

// CheckIn stores one daily check-in per user. CheckinDate holds the UTC
// calendar day as YYYY-MM-DD; the composite unique index is the authoritative
// dedup guard for the once-per-day window.
type CheckIn struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index:idx_checkins_user_day,unique" json:"user_id"`
	CheckinDate    string    `gorm:"size:10;not null;index:idx_checkins_user_day,unique" json:"checkin_date"`
	CheckedInAt    time.Time `gorm:"not null" json:"checked_in_at"`
	Note           string    `gorm:"size:255" json:"note"`
	PointsAwarded  int       `json:"points_awarded"`
	StreakAchieved int       `json:"streak_achieved"`
	CreatedAt      time.Time `json:"created_at"`
}
