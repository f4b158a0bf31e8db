package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupWinners(t *testing.T) {
	big := Prize{ID: 1, Name: "Big", Amount: 1000, Count: 1}
	low := Prize{ID: 2, Name: "Low", Amount: 10, Count: 3}
	draw := Draw{ID: 4}

	notices := GroupWinners(draw, []Winner{
		{BallotID: 1, AccountID: 2, Account: Account{ID: 2}, Prize: low},
		{BallotID: 2, AccountID: 2, Account: Account{ID: 2}, Prize: big},
		{BallotID: 3, AccountID: 5, Account: Account{ID: 5}, Prize: low},
		{BallotID: 4, AccountID: 2, Account: Account{ID: 2}, Prize: low},
	})

	require.Len(t, notices, 2)
	assert.Equal(t, uint(2), notices[0].Account.ID)
	assert.Equal(t, []Prize{big, low, low}, notices[0].Prizes)
	assert.Equal(t, int64(1020), notices[0].Total())
	assert.Equal(t, uint(5), notices[1].Account.ID)
	assert.Equal(t, int64(10), notices[1].Total())
	assert.Equal(t, draw, notices[1].Draw)

	assert.Empty(t, GroupWinners(draw, nil))
}

func TestNewDrawDetail(t *testing.T) {
	draw := Draw{DrawType: DrawType{Prizes: []Prize{{Amount: 100, Count: 2}, {Amount: 5, Count: 1}}}}

	detail := NewDrawDetail(draw, []Winner{{AccountID: 1}, {AccountID: 1}, {AccountID: 3}})

	assert.Equal(t, 2, detail.WinnerCount)
	assert.Equal(t, int64(205), detail.TotalPrizeAmount)
}

func TestNewBallotList(t *testing.T) {
	drawID := uint(1)
	list := NewBallotList([]Ballot{{ID: 3}, {ID: 2, DrawID: &drawID}, {ID: 1}})

	assert.Equal(t, 3, list.Total)
	assert.Equal(t, []Ballot{{ID: 3}, {ID: 1}}, list.Unassigned)
	assert.Equal(t, []Ballot{{ID: 2, DrawID: &drawID}}, list.Assigned)

	empty := NewBallotList(nil)
	assert.NotNil(t, empty.Unassigned)
	assert.NotNil(t, empty.Assigned)
}

func TestNewWinningsSkipsPrizeless(t *testing.T) {
	drawID := uint(1)
	prize := Prize{ID: 9, Amount: 250}

	w := NewWinnings([]Ballot{
		{ID: 1, DrawID: &drawID, Prize: &prize},
		{ID: 2, DrawID: &drawID},
		{ID: 3, DrawID: &drawID, Prize: &prize},
	})

	assert.Equal(t, int64(500), w.Total)
	assert.Equal(t, 2, w.Count)
	require.Len(t, w.Draws, 1)
	assert.Equal(t, int64(500), w.Draws[0].Total)
}
