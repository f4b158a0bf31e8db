package domain

import "time"

type Draw struct {
	ID         uint       `json:"id"`
	DrawTypeID uint       `json:"drawtype_id"`
	DrawType   DrawType   `json:"drawtype"`
	Date       time.Time  `json:"date"`
	Closed     *time.Time `json:"closed"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (d Draw) IsClosed() bool {
	return d.Closed != nil
}

func (d Draw) String() string {
	s := d.DrawType.Name + " - " + d.Date.Format(time.DateOnly)
	if d.IsClosed() {
		s += " (closed)"
	}
	return s
}

// Winner is a ballot that received a prize when its draw was closed.
type Winner struct {
	BallotID  uint    `json:"ballot_id"`
	AccountID uint    `json:"account_id"`
	Account   Account `json:"account"`
	Prize     Prize   `json:"prize"`
}

// ClosedDraw is the outcome of closing a draw. AlreadyClosed is set when the
// close call found the draw closed by an earlier call and allocated nothing.
type ClosedDraw struct {
	Draw          Draw     `json:"draw"`
	Winners       []Winner `json:"winners"`
	AlreadyClosed bool     `json:"already_closed"`
}

// Allocation pairs one prize instance with one ballot.
type Allocation struct {
	BallotID uint
	PrizeID  uint
}

// Stats summarises draws and awarded prizes across the whole lottery.
type Stats struct {
	TotalDraws    int64 `json:"total_draws"`
	OpenDraws     int64 `json:"open_draws"`
	ClosedDraws   int64 `json:"closed_draws"`
	PrizesAwarded int64 `json:"prizes_awarded"`
	AmountAwarded int64 `json:"amount_awarded"`
	// RecentWinners covers the most recently closed draws.
	RecentWinners []DrawResult `json:"recent_winners"`
}
