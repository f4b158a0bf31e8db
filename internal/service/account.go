package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/lottery-api/internal/domain"
)

type AccountRepository interface {
	EnsureAccount(ctx context.Context, account domain.Account) (domain.Account, error)
	FindAccount(ctx context.Context, id uint) (domain.Account, error)
}

type AccountService struct {
	repo AccountRepository
}

func NewAccountService(repo AccountRepository) *AccountService {
	return &AccountService{
		repo: repo,
	}
}

// Sync records the identity presented by the account service.
func (s *AccountService) Sync(ctx context.Context, account domain.Account) (domain.Account, error) {
	saved, err := s.repo.EnsureAccount(ctx, account)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.repo.EnsureAccount -> %w", err)
	}

	return saved, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id uint) (domain.Account, error) {
	account, err := s.repo.FindAccount(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.repo.FindAccount -> %w", err)
	}

	return account, nil
}
