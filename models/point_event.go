package models

import "time"

// Event kinds recorded in the points ledger.
const (
	EventCheckIn           = "check_in"
	EventApplicationLogged = "application_logged"
)

// PointEvent is the append-only ledger entry behind users.points. Each
// admitted engagement event writes exactly one row in the same transaction
// that bumps the cached total, so the counter can always be re-derived.
type PointEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Kind      string    `gorm:"size:32;not null" json:"kind"`
	Delta     int       `gorm:"not null" json:"delta"`
	RefID     uint      `json:"ref_id"` // id of the CheckIn or ApplicationLog row
	CreatedAt time.Time `json:"created_at"`
}
