package engine

import "fmt"

// BadgeDef describes one badge threshold in the catalog.
type BadgeDef struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	PointsRequired int    `json:"points_required"`
	Icon           string `json:"icon"`
}

const thresholdStep = 10

// baseBadges is the fixed catalog for the first hundred points. Thresholds
// beyond it are generated, see syntheticBadge.
var baseBadges = []BadgeDef{
	{Name: "Getting Started", Description: "Earned your first 10 points", PointsRequired: 10, Icon: "🌱"},
	{Name: "Warming Up", Description: "Reached 20 points", PointsRequired: 20, Icon: "🔥"},
	{Name: "Consistent", Description: "Reached 30 points", PointsRequired: 30, Icon: "📈"},
	{Name: "Committed", Description: "Reached 40 points", PointsRequired: 40, Icon: "💪"},
	{Name: "Halfway Hero", Description: "Reached 50 points", PointsRequired: 50, Icon: "⭐"},
	{Name: "Go-Getter", Description: "Reached 60 points", PointsRequired: 60, Icon: "🚀"},
	{Name: "Hustler", Description: "Reached 70 points", PointsRequired: 70, Icon: "⚡"},
	{Name: "Achiever", Description: "Reached 80 points", PointsRequired: 80, Icon: "🏅"},
	{Name: "Almost There", Description: "Reached 90 points", PointsRequired: 90, Icon: "🎯"},
	{Name: "Centurion", Description: "Reached 100 points", PointsRequired: 100, Icon: "🏆"},
}

const syntheticIcon = "🌟"

// syntheticBadge generates the deterministic badge for a threshold above the
// base table. n is 1 for 110 points, 2 for 120, and so on.
func syntheticBadge(threshold int) BadgeDef {
	n := (threshold - baseBadges[len(baseBadges)-1].PointsRequired) / thresholdStep
	return BadgeDef{
		Name:           fmt.Sprintf("Superstar %d", n),
		Description:    fmt.Sprintf("Reached %d points", threshold),
		PointsRequired: threshold,
		Icon:           syntheticIcon,
	}
}

// Thresholds returns every badge threshold unlocked by the given point total,
// ordered by ascending points required. The function is pure: repeated calls
// with the same total yield an identical sequence, which the awarder relies
// on when diffing against already-earned badges. Totals below 10 yield an
// empty sequence.
func Thresholds(points int) []BadgeDef {
	if points < thresholdStep {
		return nil
	}
	top := points - points%thresholdStep
	defs := make([]BadgeDef, 0, top/thresholdStep)
	for _, b := range baseBadges {
		if b.PointsRequired > top {
			return defs
		}
		defs = append(defs, b)
	}
	for t := baseBadges[len(baseBadges)-1].PointsRequired + thresholdStep; t <= top; t += thresholdStep {
		defs = append(defs, syntheticBadge(t))
	}
	return defs
}

// Upcoming returns the next n locked thresholds above the given point total,
// ordered ascending. Used by the badge-progress endpoint.
func Upcoming(points, n int) []BadgeDef {
	if n <= 0 {
		return nil
	}
	defs := make([]BadgeDef, 0, n)
	for _, b := range baseBadges {
		if b.PointsRequired > points {
			defs = append(defs, b)
			if len(defs) == n {
				return defs
			}
		}
	}
	next := baseBadges[len(baseBadges)-1].PointsRequired + thresholdStep
	if points >= next {
		next = points - points%thresholdStep + thresholdStep
	}
	for len(defs) < n {
		defs = append(defs, syntheticBadge(next))
		next += thresholdStep
	}
	return defs
}
