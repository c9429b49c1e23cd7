package engine

import (
	"sort"
	"strings"

	"github.com/interntrack/backend/models"
)

// CompanyStat is the per-watchlist-name match count.
type CompanyStat struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// nameMatches reports whether a watchlist name matches a posting's company.
// Matching is a case-insensitive substring test, not equality: "Google"
// matches "Google LLC". Deliberately permissive — short names can over-match
// ("Box" matches "Boxford Inc") and that behavior is part of the contract.
func nameMatches(name, company string) bool {
	return strings.Contains(strings.ToLower(company), strings.ToLower(name))
}

// Match filters the catalog down to postings whose company contains any
// watchlist name, and computes an independent match count per name. A single
// posting counts toward every name it matches. When activeOnly is set,
// inactive postings are ignored for both outputs. Matched postings are
// ordered by date_posted descending; ties keep catalog order.
func Match(names []string, catalog []models.Internship, activeOnly bool) ([]models.Internship, []CompanyStat) {
	matched := make([]models.Internship, 0)
	stats := make([]CompanyStat, len(names))
	for i, n := range names {
		stats[i] = CompanyStat{Company: n}
	}

	for _, in := range catalog {
		if activeOnly && !in.Active {
			continue
		}
		hit := false
		for i, n := range names {
			if nameMatches(n, in.Company) {
				stats[i].Count++
				hit = true
			}
		}
		if hit {
			matched = append(matched, in)
		}
	}

	sortByDatePosted(matched)
	return matched, stats
}

// TopMatches is the bounded variant backing the notification polling
// endpoint: the newest postings matching any watchlist name, active only,
// capped by limit. No recency cutoff is applied; the cap alone bounds the
// result.
func TopMatches(names []string, catalog []models.Internship, limit int) []models.Internship {
	matched, _ := Match(names, catalog, true)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// sortByDatePosted orders postings newest first. date_posted is an opaque
// feed string (unix seconds in the current feed), so values are compared
// ordinally; the stable sort keeps catalog order for equal keys.
func sortByDatePosted(items []models.Internship) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DatePosted > items[j].DatePosted
	})
}
