package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/lottery-api/internal/domain"
)

type mockBallotRepo struct {
	mock.Mock
}

func (m *mockBallotRepo) EnsureAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(domain.Account), args.Error(1)
}

func (m *mockBallotRepo) CreateBallots(ctx context.Context, accountID uint, count int) ([]domain.Ballot, error) {
	args := m.Called(ctx, accountID, count)
	return args.Get(0).([]domain.Ballot), args.Error(1)
}

func (m *mockBallotRepo) AssignBallot(ctx context.Context, ballotID, accountID, drawID uint) (domain.Ballot, error) {
	args := m.Called(ctx, ballotID, accountID, drawID)
	return args.Get(0).(domain.Ballot), args.Error(1)
}

func (m *mockBallotRepo) FindBallot(ctx context.Context, id, accountID uint) (domain.Ballot, error) {
	args := m.Called(ctx, id, accountID)
	return args.Get(0).(domain.Ballot), args.Error(1)
}

func (m *mockBallotRepo) ListBallots(ctx context.Context, accountID uint) ([]domain.Ballot, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]domain.Ballot), args.Error(1)
}

func (m *mockBallotRepo) ListWinningBallots(ctx context.Context, accountID uint) ([]domain.Ballot, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]domain.Ballot), args.Error(1)
}

type declinePayment struct{}

func (declinePayment) Charge(context.Context, domain.Account, int, domain.PaymentCard) error {
	return errors.New("insufficient funds")
}

var ann = domain.Account{ID: 7, Email: "ann@example.com", Name: "Ann"}

func TestPurchaseQuantityBounds(t *testing.T) {
	repo := &mockBallotRepo{}
	s := NewBallotService(repo, nil, 10)

	for _, q := range []int{0, -1, 11} {
		_, err := s.Purchase(context.Background(), ann, q, domain.PaymentCard{})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	repo.AssertNotCalled(t, "CreateBallots", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseCreatesBallots(t *testing.T) {
	repo := &mockBallotRepo{}
	repo.On("EnsureAccount", mock.Anything, ann).Return(ann, nil).Once()
	repo.On("CreateBallots", mock.Anything, uint(7), 3).Return([]domain.Ballot{{ID: 1}, {ID: 2}, {ID: 3}}, nil).Once()

	ballots, err := NewBallotService(repo, MockPayment{}, 10).Purchase(context.Background(), ann, 3, domain.PaymentCard{Number: "4242424242424242"})
	require.NoError(t, err)
	assert.Len(t, ballots, 3)
	repo.AssertExpectations(t)
}

func TestPurchaseDeclined(t *testing.T) {
	repo := &mockBallotRepo{}
	repo.On("EnsureAccount", mock.Anything, ann).Return(ann, nil).Once()

	_, err := NewBallotService(repo, declinePayment{}, 10).Purchase(context.Background(), ann, 1, domain.PaymentCard{})
	assert.ErrorIs(t, err, ErrPaymentDeclined)
	repo.AssertNotCalled(t, "CreateBallots", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignPropagatesRules(t *testing.T) {
	repo := &mockBallotRepo{}
	repo.On("AssignBallot", mock.Anything, uint(1), uint(7), uint(3)).Return(domain.Ballot{}, ErrDrawAlreadyClosed).Once()
	repo.On("AssignBallot", mock.Anything, uint(2), uint(7), uint(3)).Return(domain.Ballot{}, ErrBallotAlreadyAssigned).Once()

	s := NewBallotService(repo, nil, 10)
	_, err := s.Assign(context.Background(), 7, 1, 3)
	assert.ErrorIs(t, err, ErrDrawAlreadyClosed)
	_, err = s.Assign(context.Background(), 7, 2, 3)
	assert.ErrorIs(t, err, ErrBallotAlreadyAssigned)
}

func TestMyBallotsAndWinnings(t *testing.T) {
	d1, d2 := uint(1), uint(2)
	p := grand
	repo := &mockBallotRepo{}
	repo.On("ListBallots", mock.Anything, uint(7)).Return([]domain.Ballot{
		{ID: 5},
		{ID: 4, DrawID: &d2},
		{ID: 3, DrawID: &d1},
	}, nil)
	repo.On("ListWinningBallots", mock.Anything, uint(7)).Return([]domain.Ballot{
		{ID: 4, DrawID: &d2, Draw: &domain.Draw{ID: 2}, PrizeID: &p.ID, Prize: &p},
		{ID: 3, DrawID: &d1, Draw: &domain.Draw{ID: 1}, PrizeID: &small.ID, Prize: &small},
	}, nil)
	s := NewBallotService(repo, nil, 10)

	list, err := s.MyBallots(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Len(t, list.Unassigned, 1)
	assert.Len(t, list.Assigned, 2)

	winnings, err := s.MyWinnings(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(100500), winnings.Total)
	assert.Equal(t, 2, winnings.Count)
	require.Len(t, winnings.Draws, 2)
	assert.Equal(t, uint(2), winnings.Draws[0].Draw.ID)
}
