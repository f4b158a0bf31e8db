package service

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/lottery-api/internal/domain"
	"github.com/vietanh2810/lottery-api/internal/repository"
)

// memoryCloser mimics the store: closing is atomic and happens at most once.
type memoryCloser struct {
	mu       sync.Mutex
	draw     domain.Draw
	ballots  []domain.Ballot
	accounts map[uint]domain.Account
	err      error
}

func (m *memoryCloser) CloseDraw(_ context.Context, drawID uint, at time.Time, allocate repository.AllocateFunc) (domain.ClosedDraw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return domain.ClosedDraw{}, m.err
	}
	if drawID != m.draw.ID {
		return domain.ClosedDraw{}, ErrDrawNotFound
	}
	if m.draw.IsClosed() {
		return domain.ClosedDraw{Draw: m.draw, Winners: m.winners(), AlreadyClosed: true}, nil
	}

	m.draw.Closed = &at
	for _, a := range allocate(m.draw.DrawType.Prizes, m.ballots) {
		prizeID := a.PrizeID
		for i := range m.ballots {
			if m.ballots[i].ID == a.BallotID {
				m.ballots[i].PrizeID = &prizeID
			}
		}
	}

	return domain.ClosedDraw{Draw: m.draw, Winners: m.winners()}, nil
}

func (m *memoryCloser) FindDrawByDate(_ context.Context, date time.Time) (domain.Draw, error) {
	if m.draw.Date.Equal(date) {
		return m.draw, nil
	}
	return domain.Draw{}, ErrDrawNotFound
}

func (m *memoryCloser) winners() []domain.Winner {
	prizes := make(map[uint]domain.Prize)
	for _, p := range m.draw.DrawType.Prizes {
		prizes[p.ID] = p
	}

	var winners []domain.Winner
	for _, b := range m.ballots {
		if b.PrizeID == nil {
			continue
		}
		winners = append(winners, domain.Winner{
			BallotID:  b.ID,
			AccountID: b.AccountID,
			Account:   m.accounts[b.AccountID],
			Prize:     prizes[*b.PrizeID],
		})
	}
	sort.SliceStable(winners, func(i, j int) bool { return winners[i].AccountID < winners[j].AccountID })

	return winners
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyWinner(ctx context.Context, notice domain.WinnerNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func forAccount(id uint) any {
	return mock.MatchedBy(func(n domain.WinnerNotice) bool { return n.Account.ID == id })
}

var (
	grand = domain.Prize{ID: 1, Name: "Grand", Amount: 100000, Count: 1}
	small = domain.Prize{ID: 2, Name: "Small", Amount: 500, Count: 2}
)

func newDraw(prizes ...domain.Prize) domain.Draw {
	return domain.Draw{
		ID:   10,
		Date: time.Date(2030, 1, 4, 0, 0, 0, 0, time.UTC),
		DrawType: domain.DrawType{
			ID:     1,
			Name:   "Daily",
			Prizes: prizes,
		},
	}
}

func newBallots(accountIDs ...uint) []domain.Ballot {
	drawID := uint(10)
	ballots := make([]domain.Ballot, 0, len(accountIDs))
	for i, accountID := range accountIDs {
		ballots = append(ballots, domain.Ballot{ID: uint(100 + i), AccountID: accountID, DrawID: &drawID})
	}
	return ballots
}

func accounts(ids ...uint) map[uint]domain.Account {
	out := make(map[uint]domain.Account)
	for _, id := range ids {
		out[id] = domain.Account{ID: id, Email: "user@example.com"}
	}
	return out
}

func newCloser(repo CloserRepository, n Notifier) *DrawCloser {
	now := func() time.Time { return time.Date(2030, 1, 4, 20, 0, 0, 0, time.UTC) }
	return NewDrawCloser(repo, n, NewAllocator(rand.New(rand.NewSource(1))), now)
}

func TestCloseAwardsEveryPrizeWhenBallotsSuffice(t *testing.T) {
	repo := &memoryCloser{draw: newDraw(grand, small), ballots: newBallots(1, 1, 2), accounts: accounts(1, 2)}
	n := &mockNotifier{}
	n.On("NotifyWinner", mock.Anything, forAccount(1)).Return(nil).Once()
	n.On("NotifyWinner", mock.Anything, forAccount(2)).Return(nil).Once()

	result, err := newCloser(repo, n).Close(context.Background(), 10)
	require.NoError(t, err)

	assert.False(t, result.AlreadyClosed)
	require.NotNil(t, result.Draw.Closed)
	require.Len(t, result.Winners, 3)

	var total int64
	for _, w := range result.Winners {
		total += w.Prize.Amount
	}
	assert.Equal(t, int64(101000), total)

	n.AssertExpectations(t)
	for _, call := range n.Calls {
		notice := call.Arguments.Get(1).(domain.WinnerNotice)
		if notice.Account.ID == 1 {
			assert.Len(t, notice.Prizes, 2)
		} else {
			assert.Len(t, notice.Prizes, 1)
		}
	}
}

func TestCloseWithMoreBallotsThanPrizes(t *testing.T) {
	repo := &memoryCloser{
		draw:     newDraw(domain.Prize{ID: 5, Name: "Only", Amount: 1000, Count: 1}),
		ballots:  newBallots(1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
		accounts: accounts(1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
	}
	n := &mockNotifier{}
	n.On("NotifyWinner", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := newCloser(repo, n).Close(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, result.Winners, 1)
	assert.Equal(t, uint(5), result.Winners[0].Prize.ID)
	n.AssertNumberOfCalls(t, "NotifyWinner", 1)
}

func TestCloseWithoutBallots(t *testing.T) {
	repo := &memoryCloser{draw: newDraw(grand, small)}
	n := &mockNotifier{}

	result, err := newCloser(repo, n).Close(context.Background(), 10)
	require.NoError(t, err)

	assert.NotNil(t, result.Draw.Closed)
	assert.Empty(t, result.Winners)
	n.AssertNotCalled(t, "NotifyWinner", mock.Anything, mock.Anything)
}

func TestCloseWithoutPrizes(t *testing.T) {
	repo := &memoryCloser{draw: newDraw(), ballots: newBallots(1, 2), accounts: accounts(1, 2)}
	n := &mockNotifier{}

	result, err := newCloser(repo, n).Close(context.Background(), 10)
	require.NoError(t, err)

	assert.Empty(t, result.Winners)
	n.AssertNotCalled(t, "NotifyWinner", mock.Anything, mock.Anything)
}

func TestCloseIsIdempotent(t *testing.T) {
	repo := &memoryCloser{draw: newDraw(grand, small), ballots: newBallots(1, 2, 3, 4), accounts: accounts(1, 2, 3, 4)}
	n := &mockNotifier{}
	n.On("NotifyWinner", mock.Anything, mock.Anything).Return(nil)
	closer := newCloser(repo, n)

	first, err := closer.Close(context.Background(), 10)
	require.NoError(t, err)
	second, err := closer.Close(context.Background(), 10)
	require.NoError(t, err)

	assert.False(t, first.AlreadyClosed)
	assert.True(t, second.AlreadyClosed)
	assert.Equal(t, first.Winners, second.Winners)
	assert.Equal(t, first.Draw.Closed, second.Draw.Closed)
	n.AssertNumberOfCalls(t, "NotifyWinner", 3)
}

func TestConcurrentCloseNotifiesOnce(t *testing.T) {
	repo := &memoryCloser{draw: newDraw(grand, small), ballots: newBallots(1, 2, 3), accounts: accounts(1, 2, 3)}
	n := &mockNotifier{}
	n.On("NotifyWinner", mock.Anything, mock.Anything).Return(nil)
	closer := newCloser(repo, n)

	var wg sync.WaitGroup
	var mu sync.Mutex
	fresh := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := closer.Close(context.Background(), 10)
			assert.NoError(t, err)
			if !result.AlreadyClosed {
				mu.Lock()
				fresh++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fresh)
	n.AssertNumberOfCalls(t, "NotifyWinner", 3)
}

func TestCloseIsolatesNotificationFailures(t *testing.T) {
	repo := &memoryCloser{draw: newDraw(grand, small), ballots: newBallots(1, 2, 3), accounts: accounts(1, 2, 3)}
	n := &mockNotifier{}
	n.On("NotifyWinner", mock.Anything, forAccount(1)).Return(errors.New("mailbox full")).Once()
	n.On("NotifyWinner", mock.Anything, forAccount(2)).Panic("template exploded").Once()
	n.On("NotifyWinner", mock.Anything, forAccount(3)).Return(nil).Once()

	result, err := newCloser(repo, n).Close(context.Background(), 10)
	require.NoError(t, err)

	assert.Len(t, result.Winners, 3)
	n.AssertExpectations(t)
}

func TestCloseNotifiesAfterCallerCancels(t *testing.T) {
	repo := &memoryCloser{draw: newDraw(grand, small), ballots: newBallots(1, 2, 3), accounts: accounts(1, 2, 3)}
	live := mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return ctx.Err() == nil && hasDeadline
	})
	n := &mockNotifier{}
	n.On("NotifyWinner", live, forAccount(1)).Return(nil).Once()
	n.On("NotifyWinner", live, forAccount(2)).Return(nil).Once()
	n.On("NotifyWinner", live, forAccount(3)).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newCloser(repo, n).Close(ctx, 10)
	require.NoError(t, err)
	assert.False(t, result.AlreadyClosed)
	n.AssertExpectations(t)
}

func TestCloseForDate(t *testing.T) {
	repo := &memoryCloser{draw: newDraw(grand), ballots: newBallots(1), accounts: accounts(1)}
	n := &mockNotifier{}
	n.On("NotifyWinner", mock.Anything, mock.Anything).Return(nil)
	closer := newCloser(repo, n)

	result, err := closer.CloseForDate(context.Background(), time.Date(2030, 1, 4, 20, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, uint(10), result.Draw.ID)

	_, err = closer.CloseForDate(context.Background(), time.Date(2030, 1, 5, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrDrawNotFound)
}

func TestCloseErrors(t *testing.T) {
	repo := &memoryCloser{draw: newDraw(grand)}
	n := &mockNotifier{}
	closer := newCloser(repo, n)

	_, err := closer.Close(context.Background(), 99)
	assert.ErrorIs(t, err, ErrDrawNotFound)

	repo.err = errors.New("connection reset")
	_, err = closer.Close(context.Background(), 10)
	assert.ErrorContains(t, err, "connection reset")
}
