// Package engine implements the engagement ledger and watchlist matching
// rules: exactly-once point awards per eligible event, monotonic badge
// progression, and substring matching of watchlist names against the
// internship catalog.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/interntrack/backend/models"
)

// Fixed point deltas per event kind.
const (
	CheckInPoints     = 2
	ApplicationPoints = 5
)

const dayLayout = "2006-01-02"

// Engine executes engagement events and read queries against the store.
// All writes for one event run in a single transaction.
type Engine struct {
	db *gorm.DB
}

// New creates an Engine on top of an initialized gorm connection.
func New(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// CheckInResult is returned by RecordCheckIn.
type CheckInResult struct {
	Points    int        `json:"points"`
	Streak    int        `json:"streak"`
	NewBadges []BadgeDef `json:"new_badges"`
}

// ApplicationResult is returned by RecordApplication.
type ApplicationResult struct {
	LogID     uint       `json:"log_id"`
	Points    int        `json:"points"`
	NewBadges []BadgeDef `json:"new_badges"`
}

// RecordCheckIn records a daily check-in for the user at the given instant.
// The eligibility window is the UTC calendar day of the timestamp. Dedup
// check, check-in row, ledger event, point increment, and badge awards all
// commit atomically; a second check-in on the same UTC day rolls everything
// back and returns ErrDuplicateEvent.
func (e *Engine) RecordCheckIn(userID uint, at time.Time, note string) (*CheckInResult, error) {
	day := at.UTC().Format(dayLayout)
	var res CheckInResult

	err := e.db.Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		// Friendly pre-check; the unique index on (user_id, checkin_date)
		// remains the authoritative guard under concurrent submits.
		var count int64
		if err := tx.Model(&models.CheckIn{}).
			Where("user_id = ? AND checkin_date = ?", userID, day).
			Count(&count).Error; err != nil {
			return fmt.Errorf("%w: check-in lookup: %v", ErrStorage, err)
		}
		if count > 0 {
			return ErrDuplicateEvent
		}

		streak := 1
		var last models.CheckIn
		err = tx.Where("user_id = ?", userID).Order("checkin_date DESC").First(&last).Error
		switch {
		case err == nil:
			if isPreviousDay(last.CheckinDate, day) {
				streak = last.StreakAchieved + 1
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first check-in ever
		default:
			return fmt.Errorf("%w: streak lookup: %v", ErrStorage, err)
		}

		rec := models.CheckIn{
			UserID:         userID,
			CheckinDate:    day,
			CheckedInAt:    at.UTC(),
			Note:           note,
			PointsAwarded:  CheckInPoints,
			StreakAchieved: streak,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEvent
			}
			return fmt.Errorf("%w: insert check-in: %v", ErrStorage, err)
		}

		newPoints, err := applyEvent(tx, user, models.EventCheckIn, CheckInPoints, rec.ID)
		if err != nil {
			return err
		}
		user.ConsecutiveDays = streak
		user.LastCheckinAt = &rec.CheckedInAt
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("%w: update user: %v", ErrStorage, err)
		}

		badges, err := awardBadges(tx, user.ID, newPoints)
		if err != nil {
			return err
		}

		res = CheckInResult{Points: newPoints, Streak: streak, NewBadges: badges}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// RecordApplication logs that the user applied to company for role and awards
// points. The (user_id, company, role) triple is the dedup key, compared with
// the store's default case-sensitive equality.
func (e *Engine) RecordApplication(userID uint, company, role, status string) (*ApplicationResult, error) {
	company = strings.TrimSpace(company)
	role = strings.TrimSpace(role)
	if company == "" || role == "" {
		return nil, fmt.Errorf("%w: company and role are required", ErrValidation)
	}
	if status == "" {
		status = "applied"
	}

	var res ApplicationResult
	err := e.db.Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.ApplicationLog{}).
			Where("user_id = ? AND company = ? AND role = ?", userID, company, role).
			Count(&count).Error; err != nil {
			return fmt.Errorf("%w: application lookup: %v", ErrStorage, err)
		}
		if count > 0 {
			return ErrDuplicateEvent
		}

		rec := models.ApplicationLog{
			UserID:        userID,
			Company:       company,
			Role:          role,
			Status:        status,
			DateApplied:   time.Now().UTC().Format(dayLayout),
			PointsAwarded: ApplicationPoints,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEvent
			}
			return fmt.Errorf("%w: insert application: %v", ErrStorage, err)
		}

		newPoints, err := applyEvent(tx, user, models.EventApplicationLogged, ApplicationPoints, rec.ID)
		if err != nil {
			return err
		}
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("%w: update user: %v", ErrStorage, err)
		}

		badges, err := awardBadges(tx, user.ID, newPoints)
		if err != nil {
			return err
		}

		res = ApplicationResult{LogID: rec.ID, Points: newPoints, NewBadges: badges}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// applyEvent appends the ledger row and bumps the cached total on the locked
// user. The caller saves the user so follow-up fields join the same write.
func applyEvent(tx *gorm.DB, user *models.User, kind string, delta int, refID uint) (int, error) {
	event := models.PointEvent{UserID: user.ID, Kind: kind, Delta: delta, RefID: refID}
	if err := tx.Create(&event).Error; err != nil {
		return 0, fmt.Errorf("%w: insert point event: %v", ErrStorage, err)
	}
	user.Points += delta
	return user.Points, nil
}

// lockUser loads the user under SELECT ... FOR UPDATE so concurrent events
// for the same user serialize on the row.
func lockUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: load user: %v", ErrStorage, err)
	}
	return &user, nil
}

// isPreviousDay reports whether prev is exactly one UTC calendar day before
// day. Both are YYYY-MM-DD strings.
func isPreviousDay(prev, day string) bool {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		return false
	}
	return t.AddDate(0, 0, -1).Format(dayLayout) == prev
}
