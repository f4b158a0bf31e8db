package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/lottery-api/internal/domain"
)

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) EnsureAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(domain.Account), args.Error(1)
}

func (m *mockAccountRepo) FindAccount(ctx context.Context, id uint) (domain.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Account), args.Error(1)
}

func TestAccountService(t *testing.T) {
	repo := &mockAccountRepo{}
	svc := NewAccountService(repo)
	ctx := context.Background()
	ann := domain.Account{ID: 7, Email: "ann@example.com", Name: "Ann"}

	repo.On("EnsureAccount", ctx, ann).Return(ann, nil)
	repo.On("FindAccount", ctx, uint(8)).Return(domain.Account{}, ErrAccountNotFound)

	synced, err := svc.Sync(ctx, ann)
	require.NoError(t, err)
	assert.Equal(t, ann, synced)

	_, err = svc.GetAccount(ctx, 8)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	repo.AssertExpectations(t)
}
