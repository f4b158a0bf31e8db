package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vietanh2810/lottery-api/internal/domain"
)

type BallotRepository interface {
	EnsureAccount(ctx context.Context, account domain.Account) (domain.Account, error)
	CreateBallots(ctx context.Context, accountID uint, count int) ([]domain.Ballot, error)
	AssignBallot(ctx context.Context, ballotID, accountID, drawID uint) (domain.Ballot, error)
	FindBallot(ctx context.Context, id, accountID uint) (domain.Ballot, error)
	ListBallots(ctx context.Context, accountID uint) ([]domain.Ballot, error)
	ListWinningBallots(ctx context.Context, accountID uint) ([]domain.Ballot, error)
}

// PaymentGateway charges for a ballot purchase.
type PaymentGateway interface {
	Charge(ctx context.Context, account domain.Account, quantity int, card domain.PaymentCard) error
}

// MockPayment accepts every charge. Real payment processing is not part of the lottery.
type MockPayment struct{}

func (MockPayment) Charge(_ context.Context, account domain.Account, quantity int, _ domain.PaymentCard) error {
	zap.L().Info("mock payment accepted", zap.Uint("account_id", account.ID), zap.Int("quantity", quantity))
	return nil
}

type BallotService struct {
	repo        BallotRepository
	payments    PaymentGateway
	maxPurchase int
}

func NewBallotService(repo BallotRepository, payments PaymentGateway, maxPurchase int) *BallotService {
	if payments == nil {
		payments = MockPayment{}
	}

	return &BallotService{
		repo:        repo,
		payments:    payments,
		maxPurchase: maxPurchase,
	}
}

// Purchase charges the account and creates quantity unassigned ballots.
func (s *BallotService) Purchase(ctx context.Context, account domain.Account, quantity int, card domain.PaymentCard) ([]domain.Ballot, error) {
	if quantity < 1 || quantity > s.maxPurchase {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidQuantity, s.maxPurchase)
	}

	account, err := s.repo.EnsureAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("s.repo.EnsureAccount -> %w", err)
	}

	if err := s.payments.Charge(ctx, account, quantity, card); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
	}

	ballots, err := s.repo.CreateBallots(ctx, account.ID, quantity)
	if err != nil {
		return nil, fmt.Errorf("s.repo.CreateBallots -> %w", err)
	}

	return ballots, nil
}

// Assign attaches one of the account's unassigned ballots to an open draw.
func (s *BallotService) Assign(ctx context.Context, accountID, ballotID, drawID uint) (domain.Ballot, error) {
	ballot, err := s.repo.AssignBallot(ctx, ballotID, accountID, drawID)
	if err != nil {
		return domain.Ballot{}, fmt.Errorf("s.repo.AssignBallot -> %w", err)
	}

	return ballot, nil
}

func (s *BallotService) GetBallot(ctx context.Context, accountID, ballotID uint) (domain.Ballot, error) {
	ballot, err := s.repo.FindBallot(ctx, ballotID, accountID)
	if err != nil {
		return domain.Ballot{}, fmt.Errorf("s.repo.FindBallot -> %w", err)
	}

	return ballot, nil
}

func (s *BallotService) MyBallots(ctx context.Context, accountID uint) (domain.BallotList, error) {
	ballots, err := s.repo.ListBallots(ctx, accountID)
	if err != nil {
		return domain.BallotList{}, fmt.Errorf("s.repo.ListBallots -> %w", err)
	}

	return domain.NewBallotList(ballots), nil
}

func (s *BallotService) MyWinnings(ctx context.Context, accountID uint) (domain.Winnings, error) {
	ballots, err := s.repo.ListWinningBallots(ctx, accountID)
	if err != nil {
		return domain.Winnings{}, fmt.Errorf("s.repo.ListWinningBallots -> %w", err)
	}

	return domain.NewWinnings(ballots), nil
}
