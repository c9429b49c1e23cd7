package engine

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/interntrack/backend/models"
)

// awardBadges persists any thresholds the user's current total unlocks but
// has not earned yet, returning the newly inserted definitions. It runs
// inside the caller's transaction so point change and awards commit together.
//
// The (user_id, points_required) unique index is the authoritative guard: a
// duplicate-key error from a concurrent award of the same threshold is a
// benign race and is treated as "no new badge" rather than a failure.
func awardBadges(tx *gorm.DB, userID uint, points int) ([]BadgeDef, error) {
	candidates := Thresholds(points)
	if len(candidates) == 0 {
		return nil, nil
	}

	var earned []int
	if err := tx.Model(&models.Badge{}).
		Where("user_id = ?", userID).
		Pluck("points_required", &earned).Error; err != nil {
		return nil, fmt.Errorf("%w: load earned badges: %v", ErrStorage, err)
	}
	have := make(map[int]bool, len(earned))
	for _, p := range earned {
		have[p] = true
	}

	now := time.Now().UTC()
	var awarded []BadgeDef
	for _, def := range candidates {
		if have[def.PointsRequired] {
			continue
		}
		row := models.Badge{
			UserID:         userID,
			BadgeName:      def.Name,
			BadgeDesc:      def.Description,
			Icon:           def.Icon,
			PointsRequired: def.PointsRequired,
			EarnedAt:       now,
		}
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return nil, fmt.Errorf("%w: insert badge %d: %v", ErrStorage, def.PointsRequired, err)
		}
		awarded = append(awarded, def)
	}
	return awarded, nil
}

// Award evaluates and persists badge thresholds for a user outside of an
// event transaction, e.g. for backfills. Calling it twice with no point
// change returns an empty result the second time.
func (e *Engine) Award(userID uint) ([]BadgeDef, error) {
	var awarded []BadgeDef
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("%w: load user: %v", ErrStorage, err)
		}
		var err error
		awarded, err = awardBadges(tx, user.ID, user.Points)
		return err
	})
	if err != nil {
		return nil, err
	}
	return awarded, nil
}
