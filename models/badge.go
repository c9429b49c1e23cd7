package models

import "time"

// Badge is an earned threshold reward. Rows are created only by the badge
// awarder and never mutated or deleted by user action; the (user_id,
// points_required) unique index makes awarding idempotent under races.
type Badge struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index:idx_badges_user_threshold,unique" json:"user_id"`
	BadgeName      string    `gorm:"size:64;not null" json:"badge_name"`
	BadgeDesc      string    `gorm:"size:255" json:"badge_description"`
	Icon           string    `gorm:"size:16" json:"icon"`
	PointsRequired int       `gorm:"not null;index:idx_badges_user_threshold,unique" json:"points_required"`
	EarnedAt       time.Time `gorm:"not null" json:"earned_at"`
}
