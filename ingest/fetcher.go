// Package ingest periodically pulls the public internship listings feed
// and upserts it into the internships table.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/interntrack/backend/config"
	"github.com/interntrack/backend/models"
	"github.com/interntrack/backend/utils"
)

const fetchTimeout = 60 * time.Second

// feedItem mirrors one entry of the upstream listings.json document.
type feedItem struct {
	ID          string      `json:"id"`
	CompanyName string      `json:"company_name"`
	Title       string      `json:"title"`
	Locations   []string    `json:"locations"`
	URL         string      `json:"url"`
	DatePosted  json.Number `json:"date_posted"`
	DateUpdated json.Number `json:"date_updated"`
	Source      string      `json:"source"`
	Season      string      `json:"season"`
	Terms       []string    `json:"terms"`
	Active      *bool       `json:"active"`
	IsVisible   *bool       `json:"is_visible"`
}

// FetchOnce downloads the feed and upserts every valid listing.
// Entries without a parseable UUID are skipped with a warning.
func FetchOnce(ctx context.Context, db *gorm.DB, feedURL string) error {
	reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, feedURL, nil)
	if err != nil {
		return fmt.Errorf("build feed request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned status %s", resp.Status)
	}

	var items []feedItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return fmt.Errorf("decode feed: %w", err)
	}

	rows := make([]models.Internship, 0, len(items))
	skipped := 0
	for _, item := range items {
		row, ok := toInternship(item)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	if skipped > 0 {
		utils.Sugar.Warnw("skipped feed entries with invalid ids", "count", skipped)
	}
	if len(rows) == 0 {
		utils.Sugar.Warnw("feed contained no usable listings", "url", feedURL)
		return nil
	}

	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"company", "role", "location", "link", "date_posted",
			"source", "season", "active", "is_visible", "updated_at",
		}),
	}).CreateInBatches(rows, 200).Error
	if err != nil {
		return fmt.Errorf("upsert listings: %w", err)
	}

	utils.InvalidateByPrefix("cache:internships:")
	utils.Sugar.Infow("internship feed refreshed", "listings", len(rows), "skipped", skipped)
	return nil
}

// toInternship validates and converts one feed entry.
func toInternship(item feedItem) (models.Internship, bool) {
	id := strings.TrimSpace(item.ID)
	if _, err := uuid.Parse(id); err != nil {
		return models.Internship{}, false
	}

	company := strings.TrimSpace(item.CompanyName)
	role := strings.TrimSpace(item.Title)
	if company == "" || role == "" {
		return models.Internship{}, false
	}

	datePosted := item.DatePosted.String()
	if datePosted == "" {
		datePosted = item.DateUpdated.String()
	}

	season := strings.TrimSpace(item.Season)
	if season == "" && len(item.Terms) > 0 {
		season = strings.TrimSpace(item.Terms[0])
	}

	active := true
	if item.Active != nil {
		active = *item.Active
	}
	visible := true
	if item.IsVisible != nil {
		visible = *item.IsVisible
	}

	return models.Internship{
		ID:         id,
		Company:    company,
		Role:       role,
		Location:   strings.Join(item.Locations, ", "),
		Link:       strings.TrimSpace(item.URL),
		DatePosted: datePosted,
		Source:     strings.TrimSpace(item.Source),
		Season:     season,
		Active:     active,
		IsVisible:  visible,
	}, true
}

// StartScheduler runs feed refreshes on a fixed interval in the background.
func StartScheduler(db *gorm.DB) {
	cfg := config.Get()
	interval := time.Duration(cfg.FeedIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}

	go func() {
		for {
			time.Sleep(interval)
			if err := FetchOnce(context.Background(), db, cfg.FeedURL); err != nil {
				utils.Sugar.Errorw("scheduled feed refresh failed", "err", err)
			}
		}
	}()
}
