package domain

import "time"

// Ballot is one lottery entry. DrawID is set once by assignment, PrizeID once by closing.
type Ballot struct {
	ID        uint      `json:"id"`
	AccountID uint      `json:"account_id"`
	DrawID    *uint     `json:"draw_id"`
	Draw      *Draw     `json:"draw,omitempty"`
	PrizeID   *uint     `json:"prize_id"`
	Prize     *Prize    `json:"prize,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (b Ballot) IsAssigned() bool {
	return b.DrawID != nil
}

func (b Ballot) HasPrize() bool {
	return b.PrizeID != nil
}
