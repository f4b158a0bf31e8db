package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/lottery-api/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixtureDrawTypes() []domain.DrawType {
	return []domain.DrawType{
		{ID: 1, Name: "Daily", IsActive: true, Schedule: domain.Daily(), Priority: 0},
		{ID: 2, Name: "Friday Special", IsActive: true, Schedule: domain.Weekly(time.Friday), Priority: 10},
		{ID: 3, Name: "New Year's Eve", IsActive: true, Schedule: domain.Yearly(time.December, 31), Priority: 20},
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{name: "friday", date: date(2025, time.July, 25), want: "Friday Special"},
		{name: "monday", date: date(2025, time.July, 28), want: "Daily"},
		{name: "new years eve", date: date(2025, time.December, 31), want: "New Year's Eve"},
		{name: "day before new years eve", date: date(2025, time.December, 30), want: "Daily"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Match(tt.date, fixtureDrawTypes())
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestMatchSkipsInactive(t *testing.T) {
	types := fixtureDrawTypes()
	types[1].IsActive = false

	got, ok := Match(date(2025, time.July, 25), types)
	require.True(t, ok)
	assert.Equal(t, "Daily", got.Name)
}

func TestMatchNone(t *testing.T) {
	types := []domain.DrawType{
		{ID: 1, Name: "Friday Special", IsActive: true, Schedule: domain.Weekly(time.Friday)},
	}

	_, ok := Match(date(2025, time.July, 28), types)
	assert.False(t, ok)

	_, ok = Match(date(2025, time.July, 28), nil)
	assert.False(t, ok)
}

func TestMatchHigherPriorityWins(t *testing.T) {
	types := append(fixtureDrawTypes(), domain.DrawType{
		ID: 4, Name: "High Priority", IsActive: true, Schedule: domain.Weekly(time.Monday), Priority: 100,
	})

	got, ok := Match(date(2025, time.July, 28), types)
	require.True(t, ok)
	assert.Equal(t, "High Priority", got.Name)
}

func TestMatchEqualPriorityLowestIDWins(t *testing.T) {
	types := []domain.DrawType{
		{ID: 7, Name: "Later", IsActive: true, Schedule: domain.Daily(), Priority: 5},
		{ID: 3, Name: "Earlier", IsActive: true, Schedule: domain.Daily(), Priority: 5},
	}

	for i := 0; i < 20; i++ {
		got, ok := Match(date(2025, time.July, 28), types)
		require.True(t, ok)
		assert.Equal(t, uint(3), got.ID)
	}

	// Input order must not matter.
	types[0], types[1] = types[1], types[0]
	got, _ := Match(date(2025, time.July, 28), types)
	assert.Equal(t, uint(3), got.ID)
}

// Every result satisfies its schedule and outranks every other matching active type.
func TestMatchProperties(t *testing.T) {
	types := []domain.DrawType{
		{ID: 1, Name: "Daily", IsActive: true, Schedule: domain.Daily(), Priority: 0},
		{ID: 2, Name: "Weekend", IsActive: true, Schedule: domain.Weekly(time.Saturday), Priority: 3},
		{ID: 3, Name: "First of month", IsActive: true, Schedule: domain.Schedule{{Kind: domain.RuleDay, Value: 1}}, Priority: 5},
		{ID: 4, Name: "Retired", IsActive: false, Schedule: domain.Daily(), Priority: 99},
		{ID: 5, Name: "2026 only", IsActive: true, Schedule: domain.Schedule{{Kind: domain.RuleYear, Value: 2026}, {Kind: domain.RuleMonth, Value: 2}}, Priority: 4},
	}

	start := date(2025, time.January, 1)
	for day := 0; day < 800; day++ {
		d := start.AddDate(0, 0, day)
		got, ok := Match(d, types)
		require.True(t, ok, d)
		assert.True(t, got.IsActive)
		assert.True(t, got.Schedule.Matches(d))

		for _, other := range types {
			if other.IsActive && other.Schedule.Matches(d) {
				assert.GreaterOrEqual(t, got.Priority, other.Priority, d)
			}
		}
	}
}

func TestOrderedDoesNotMutateInput(t *testing.T) {
	types := fixtureDrawTypes()
	_ = Ordered(types)

	assert.Equal(t, "Daily", types[0].Name)
}
