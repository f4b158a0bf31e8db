package domain

// DrawResult is a closed draw together with its winners.
type DrawResult struct {
	Draw    Draw     `json:"draw"`
	Winners []Winner `json:"winners"`
}

type DrawDetail struct {
	Draw             Draw     `json:"draw"`
	Winners          []Winner `json:"winners"`
	WinnerCount      int      `json:"winner_count"`
	TotalPrizeAmount int64    `json:"total_prize_amount"`
}

// NewDrawDetail summarises winners. WinnerCount counts distinct accounts and
// TotalPrizeAmount sums the prize pool of the draw type, awarded or not.
func NewDrawDetail(draw Draw, winners []Winner) DrawDetail {
	accounts := make(map[uint]struct{}, len(winners))
	for _, w := range winners {
		accounts[w.AccountID] = struct{}{}
	}

	var total int64
	for _, p := range draw.DrawType.Prizes {
		total += p.Amount * int64(p.Count)
	}

	return DrawDetail{
		Draw:             draw,
		Winners:          winners,
		WinnerCount:      len(accounts),
		TotalPrizeAmount: total,
	}
}

type BallotList struct {
	Unassigned []Ballot `json:"unassigned"`
	Assigned   []Ballot `json:"assigned"`
	Total      int      `json:"total"`
}

// NewBallotList splits ballots by assignment, keeping their order.
func NewBallotList(ballots []Ballot) BallotList {
	list := BallotList{
		Unassigned: []Ballot{},
		Assigned:   []Ballot{},
		Total:      len(ballots),
	}
	for _, b := range ballots {
		if b.IsAssigned() {
			list.Assigned = append(list.Assigned, b)
		} else {
			list.Unassigned = append(list.Unassigned, b)
		}
	}

	return list
}

type DrawWinnings struct {
	Draw   Draw    `json:"draw"`
	Prizes []Prize `json:"prizes"`
	Total  int64   `json:"total"`
}

type Winnings struct {
	Total int64          `json:"total"`
	Count int            `json:"count"`
	Draws []DrawWinnings `json:"draws"`
}

// NewWinnings groups prize-carrying ballots per draw, keeping the order in which draws first appear.
func NewWinnings(ballots []Ballot) Winnings {
	w := Winnings{Draws: []DrawWinnings{}}
	index := make(map[uint]int)

	for _, b := range ballots {
		if b.Prize == nil || b.DrawID == nil {
			continue
		}
		i, ok := index[*b.DrawID]
		if !ok {
			var draw Draw
			if b.Draw != nil {
				draw = *b.Draw
			}
			i = len(w.Draws)
			index[*b.DrawID] = i
			w.Draws = append(w.Draws, DrawWinnings{Draw: draw})
		}
		w.Draws[i].Prizes = append(w.Draws[i].Prizes, *b.Prize)
		w.Draws[i].Total += b.Prize.Amount
		w.Total += b.Prize.Amount
		w.Count++
	}

	return w
}

// WinnerNotice is what a single account is told about one closed draw.
type WinnerNotice struct {
	Account Account
	Draw    Draw
	Prizes  []Prize
}

func (n WinnerNotice) Total() int64 {
	var total int64
	for _, p := range n.Prizes {
		total += p.Amount
	}
	return total
}

// GroupWinners builds one notice per distinct winning account, in order of first
// appearance, with each account's prizes ordered by descending amount.
func GroupWinners(draw Draw, winners []Winner) []WinnerNotice {
	var notices []WinnerNotice
	index := make(map[uint]int)

	for _, w := range winners {
		i, ok := index[w.AccountID]
		if !ok {
			i = len(notices)
			index[w.AccountID] = i
			notices = append(notices, WinnerNotice{Account: w.Account, Draw: draw})
		}
		notices[i].Prizes = append(notices[i].Prizes, w.Prize)
	}
	for i := range notices {
		SortPrizes(notices[i].Prizes)
	}

	return notices
}
