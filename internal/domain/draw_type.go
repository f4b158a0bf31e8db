package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DrawType is a recurring lottery category such as "Daily" or "New Year's Eve".
type DrawType struct {
	ID       uint     `json:"id"`
	Name     string   `json:"name"`
	IsActive bool     `json:"is_active"`
	Schedule Schedule `json:"schedule"`
	// Priority decides between draw types matching the same date. Higher wins,
	// equal priorities fall back to the lowest ID.
	Priority  int       `json:"priority"`
	Prizes    []Prize   `json:"prizes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// MaxPrizeCount bounds the instances of one prize tier handed out per draw.
	MaxPrizeCount = 10000
	// MaxPrizeAmount is one billion in the currency, in cents.
	MaxPrizeAmount int64 = 100_000_000_000
)

// Prize is a prize tier of a draw type. Count identical instances are handed out per draw.
type Prize struct {
	ID         uint   `json:"id"`
	DrawTypeID uint   `json:"drawtype_id"`
	Name       string `json:"name"`
	// Amount is in the smallest currency unit.
	Amount    int64     `json:"amount"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}

func (p Prize) String() string {
	return fmt.Sprintf("%s: %dx € %s", p.Name, p.Count, FormatAmount(p.Amount))
}

// SortPrizes orders prizes by descending amount, then count, then creation order.
func SortPrizes(prizes []Prize) {
	sort.SliceStable(prizes, func(i, j int) bool {
		a, b := prizes[i], prizes[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		if a.Count != b.Count {
			return a.Count < b.Count
		}
		return a.ID < b.ID
	})
}

// FormatAmount renders an amount in cents as a two-decimal string.
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
