package response

import (
	"time"

	"github.com/vietanh2810/lottery-api/internal/domain"
)

type Prize struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amount_display"`
	Count         int    `json:"count"`
}

type Draw struct {
	ID         uint       `json:"id"`
	Date       string     `json:"date"`
	DrawTypeID uint       `json:"drawtype_id"`
	DrawType   string     `json:"drawtype"`
	Closed     *time.Time `json:"closed"`
	Prizes     []Prize    `json:"prizes"`
}

type Winner struct {
	Name        string `json:"name"`
	PrizeName   string `json:"prize_name"`
	PrizeAmount int64  `json:"prize_amount"`
}

type ClosedDraw struct {
	Draw
	Winners []Winner `json:"winners"`
}

type DrawDetail struct {
	Draw
	Winners          []Winner `json:"winners"`
	WinnerCount      int      `json:"winner_count"`
	TotalPrizeAmount int64    `json:"total_prize_amount"`
}

type CloseResult struct {
	ClosedDraw
	AlreadyClosed bool `json:"already_closed"`
}

type Stats struct {
	TotalDraws           int64        `json:"total_draws"`
	OpenDraws            int64        `json:"open_draws"`
	ClosedDraws          int64        `json:"closed_draws"`
	TotalPrizesAwarded   int64        `json:"total_prizes_awarded"`
	TotalAmountAwarded   int64        `json:"total_amount_awarded"`
	AmountAwardedDisplay string       `json:"amount_awarded_display"`
	RecentWinners        []ClosedDraw `json:"recent_winners"`
}

type Purchase struct {
	Quantity int             `json:"quantity"`
	Ballots  []domain.Ballot `json:"ballots"`
}

func NewPrize(p domain.Prize) Prize {
	return Prize{
		ID:            p.ID,
		Name:          p.Name,
		Amount:        p.Amount,
		AmountDisplay: domain.FormatAmount(p.Amount),
		Count:         p.Count,
	}
}

func NewDraw(d domain.Draw) Draw {
	prizes := make([]Prize, 0, len(d.DrawType.Prizes))
	for _, p := range d.DrawType.Prizes {
		prizes = append(prizes, NewPrize(p))
	}

	return Draw{
		ID:         d.ID,
		Date:       d.Date.Format(time.DateOnly),
		DrawTypeID: d.DrawTypeID,
		DrawType:   d.DrawType.Name,
		Closed:     d.Closed,
		Prizes:     prizes,
	}
}

func NewDraws(draws []domain.Draw) []Draw {
	out := make([]Draw, 0, len(draws))
	for _, d := range draws {
		out = append(out, NewDraw(d))
	}
	return out
}

func NewWinners(winners []domain.Winner) []Winner {
	out := make([]Winner, 0, len(winners))
	for _, w := range winners {
		name := w.Account.Name
		if name == "" {
			name = w.Account.Email
		}
		out = append(out, Winner{Name: name, PrizeName: w.Prize.Name, PrizeAmount: w.Prize.Amount})
	}
	return out
}

func NewClosedDraw(r domain.DrawResult) ClosedDraw {
	return ClosedDraw{Draw: NewDraw(r.Draw), Winners: NewWinners(r.Winners)}
}

func NewClosedDraws(results []domain.DrawResult) []ClosedDraw {
	out := make([]ClosedDraw, 0, len(results))
	for _, r := range results {
		out = append(out, NewClosedDraw(r))
	}
	return out
}

func NewDrawDetail(d domain.DrawDetail) DrawDetail {
	return DrawDetail{
		Draw:             NewDraw(d.Draw),
		Winners:          NewWinners(d.Winners),
		WinnerCount:      d.WinnerCount,
		TotalPrizeAmount: d.TotalPrizeAmount,
	}
}

func NewCloseResult(c domain.ClosedDraw) CloseResult {
	return CloseResult{
		ClosedDraw:    NewClosedDraw(domain.DrawResult{Draw: c.Draw, Winners: c.Winners}),
		AlreadyClosed: c.AlreadyClosed,
	}
}

func NewStats(s domain.Stats) Stats {
	return Stats{
		TotalDraws:           s.TotalDraws,
		OpenDraws:            s.OpenDraws,
		ClosedDraws:          s.ClosedDraws,
		TotalPrizesAwarded:   s.PrizesAwarded,
		TotalAmountAwarded:   s.AmountAwarded,
		AmountAwardedDisplay: domain.FormatAmount(s.AmountAwarded),
		RecentWinners:        NewClosedDraws(s.RecentWinners),
	}
}

type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
