// Package schedule selects the draw type that governs a calendar date.
package schedule

import (
	"sort"
	"time"

	"github.com/vietanh2810/lottery-api/internal/domain"
)

// Match returns the active draw type with the highest priority whose schedule
// matches date. Equal priorities resolve to the lowest ID. The bool is false
// when nothing matches.
func Match(date time.Time, drawTypes []domain.DrawType) (domain.DrawType, bool) {
	for _, dt := range Ordered(drawTypes) {
		if !dt.IsActive {
			continue
		}
		if dt.Schedule.Matches(date) {
			return dt, true
		}
	}

	return domain.DrawType{}, false
}

// Ordered returns a copy of drawTypes sorted by descending priority, then ascending ID.
func Ordered(drawTypes []domain.DrawType) []domain.DrawType {
	sorted := make([]domain.DrawType, len(drawTypes))
	copy(sorted, drawTypes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].ID < sorted[j].ID
	})

	return sorted
}
