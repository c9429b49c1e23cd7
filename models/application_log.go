package models

import "time"

// ApplicationLog records that a user applied to a company for a role. The
// (user_id, company, role) unique index is the dedup key: the same pair must
// not be logged twice even when the feed lists it under several posting ids.
type ApplicationLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index:idx_applications_user_company_role,unique" json:"user_id"`
	Company       string    `gorm:"size:255;not null;index:idx_applications_user_company_role,unique" json:"company"`
	Role          string    `gorm:"size:255;not null;index:idx_applications_user_company_role,unique" json:"role"`
	Status        string    `gorm:"size:32;default:'applied'" json:"status"`
	DateApplied   string    `gorm:"size:10" json:"date_applied"`
	PointsAwarded int       `json:"points_awarded"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
