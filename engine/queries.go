package engine

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/interntrack/backend/models"
)

// MatchResult bundles the dashboard view: postings matching the user's
// watchlist plus per-company counts.
type MatchResult struct {
	Matched []models.Internship `json:"matched"`
	Stats   []CompanyStat       `json:"stats"`
}

// BadgeProgress is the earned set plus the next locked thresholds.
type BadgeProgress struct {
	Points         int            `json:"points"`
	Earned         []models.Badge `json:"earned"`
	NextThresholds []BadgeDef     `json:"next_thresholds"`
}

// upcomingShown controls how many locked thresholds the progress view lists.
const upcomingShown = 3

// MatchedInternships runs the watchlist matcher for a user over the visible
// catalog. Read-only; catalog staleness up to the ingestion interval is
// expected.
func (e *Engine) MatchedInternships(userID uint, activeOnly bool) (*MatchResult, error) {
	names, err := e.watchlistNames(userID)
	if err != nil {
		return nil, err
	}
	catalog, err := e.visibleCatalog()
	if err != nil {
		return nil, err
	}
	matched, stats := Match(names, catalog, activeOnly)
	return &MatchResult{Matched: matched, Stats: stats}, nil
}

// Notifications returns the newest active postings matching the user's
// watchlist, capped by limit. Callers poll; there is no recency cutoff.
func (e *Engine) Notifications(userID uint, limit int) ([]models.Internship, error) {
	names, err := e.watchlistNames(userID)
	if err != nil {
		return nil, err
	}
	catalog, err := e.visibleCatalog()
	if err != nil {
		return nil, err
	}
	return TopMatches(names, catalog, limit), nil
}

// Progress reports the user's earned badges and the next thresholds to chase.
func (e *Engine) Progress(userID uint) (*BadgeProgress, error) {
	var user models.User
	if err := e.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: load user: %v", ErrStorage, err)
	}

	var earned []models.Badge
	if err := e.db.Where("user_id = ?", userID).
		Order("points_required ASC").
		Find(&earned).Error; err != nil {
		return nil, fmt.Errorf("%w: load badges: %v", ErrStorage, err)
	}

	return &BadgeProgress{
		Points:         user.Points,
		Earned:         earned,
		NextThresholds: Upcoming(user.Points, upcomingShown),
	}, nil
}

func (e *Engine) watchlistNames(userID uint) ([]string, error) {
	var names []string
	if err := e.db.Model(&models.WatchlistItem{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("company_name", &names).Error; err != nil {
		return nil, fmt.Errorf("%w: load watchlist: %v", ErrStorage, err)
	}
	return names, nil
}

// visibleCatalog loads visible postings in insertion order so the matcher's
// stable sort has a deterministic tie-break.
func (e *Engine) visibleCatalog() ([]models.Internship, error) {
	var catalog []models.Internship
	if err := e.db.Where("is_visible = ?", true).
		Order("created_at ASC, id ASC").
		Find(&catalog).Error; err != nil {
		return nil, fmt.Errorf("%w: load catalog: %v", ErrStorage, err)
	}
	return catalog, nil
}
