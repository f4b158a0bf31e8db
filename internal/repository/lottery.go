package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/lottery-api/internal/domain"
	"github.com/vietanh2810/lottery-api/internal/repository/dao"
	"github.com/vietanh2810/lottery-api/internal/schedule"
)

var (
	ErrAccountNotFound       = dao.ErrAccountNotFound
	ErrDrawTypeNotFound      = dao.ErrDrawTypeNotFound
	ErrPrizeNotFound         = dao.ErrPrizeNotFound
	ErrDrawNotFound          = dao.ErrDrawNotFound
	ErrBallotNotFound        = dao.ErrBallotNotFound
	ErrNoMatchingSchedule    = dao.ErrNoMatchingSchedule
	ErrDuplicateDraw         = dao.ErrDuplicateDraw
	ErrDrawAlreadyClosed     = dao.ErrDrawAlreadyClosed
	ErrBallotAlreadyAssigned = dao.ErrBallotAlreadyAssigned
	ErrReferentialIntegrity  = dao.ErrReferentialIntegrity
	ErrInvalidAllocation     = dao.ErrInvalidAllocation
)

type LotteryDAO interface {
	Transaction(ctx context.Context, fn func(tx *dao.LotteryDAO) error) error

	UpsertAccount(ctx context.Context, account dao.Account) (dao.Account, error)
	FindAccountByID(ctx context.Context, id uint) (dao.Account, error)

	InsertDrawType(ctx context.Context, drawType dao.DrawType) (dao.DrawType, error)
	UpdateDrawType(ctx context.Context, drawType dao.DrawType) (dao.DrawType, error)
	FindDrawTypeByID(ctx context.Context, id uint) (dao.DrawType, error)
	FindDrawTypes(ctx context.Context, activeOnly bool) ([]dao.DrawType, error)
	DeleteDrawType(ctx context.Context, id uint) error
	InsertPrize(ctx context.Context, prize dao.Prize) (dao.Prize, error)
	DeletePrize(ctx context.Context, id uint) error

	FindDrawByID(ctx context.Context, id uint) (dao.Draw, error)
	FindDrawByDate(ctx context.Context, date time.Time) (dao.Draw, error)
	FindOpenDraws(ctx context.Context, from time.Time) ([]dao.Draw, error)
	FindClosedDraws(ctx context.Context, limit int) ([]dao.Draw, error)
	DeleteDraw(ctx context.Context, id uint) error
	Stats(ctx context.Context) (dao.DrawStats, error)

	InsertBallots(ctx context.Context, accountID uint, count int) ([]dao.Ballot, error)
	AssignBallot(ctx context.Context, ballotID, accountID, drawID uint) (dao.Ballot, error)
	FindBallotByID(ctx context.Context, id, accountID uint) (dao.Ballot, error)
	FindBallotsByAccount(ctx context.Context, accountID uint) ([]dao.Ballot, error)
	FindWinningBallotsByAccount(ctx context.Context, accountID uint) ([]dao.Ballot, error)
	FindWinners(ctx context.Context, drawID uint) ([]dao.Ballot, error)
}

// AllocateFunc pairs prize instances with ballots of a draw being closed.
type AllocateFunc func(prizes []domain.Prize, ballots []domain.Ballot) []domain.Allocation

type LotteryRepository struct {
	dao LotteryDAO
}

func NewLotteryRepository(dao LotteryDAO) *LotteryRepository {
	return &LotteryRepository{
		dao: dao,
	}
}

func (r *LotteryRepository) EnsureAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	saved, err := r.dao.UpsertAccount(ctx, dao.Account{
		ID:    account.ID,
		Email: account.Email,
		Name:  account.Name,
	})
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.UpsertAccount -> %w", err)
	}

	return accountToDomain(saved), nil
}

func (r *LotteryRepository) FindAccount(ctx context.Context, id uint) (domain.Account, error) {
	found, err := r.dao.FindAccountByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.FindAccountByID -> %w", err)
	}

	return accountToDomain(found), nil
}

func (r *LotteryRepository) CreateDrawType(ctx context.Context, drawType domain.DrawType) (domain.DrawType, error) {
	row, err := drawTypeToDao(drawType)
	if err != nil {
		return domain.DrawType{}, err
	}

	created, err := r.dao.InsertDrawType(ctx, row)
	if err != nil {
		return domain.DrawType{}, fmt.Errorf("r.dao.InsertDrawType -> %w", err)
	}

	return drawTypeToDomain(created)
}

func (r *LotteryRepository) UpdateDrawType(ctx context.Context, drawType domain.DrawType) (domain.DrawType, error) {
	row, err := drawTypeToDao(drawType)
	if err != nil {
		return domain.DrawType{}, err
	}

	updated, err := r.dao.UpdateDrawType(ctx, row)
	if err != nil {
		return domain.DrawType{}, fmt.Errorf("r.dao.UpdateDrawType -> %w", err)
	}

	return drawTypeToDomain(updated)
}

func (r *LotteryRepository) FindDrawType(ctx context.Context, id uint) (domain.DrawType, error) {
	found, err := r.dao.FindDrawTypeByID(ctx, id)
	if err != nil {
		return domain.DrawType{}, fmt.Errorf("r.dao.FindDrawTypeByID -> %w", err)
	}

	return drawTypeToDomain(found)
}

func (r *LotteryRepository) ListDrawTypes(ctx context.Context, activeOnly bool) ([]domain.DrawType, error) {
	found, err := r.dao.FindDrawTypes(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindDrawTypes -> %w", err)
	}

	return drawTypesToDomain(found)
}

func (r *LotteryRepository) DeleteDrawType(ctx context.Context, id uint) error {
	if err := r.dao.DeleteDrawType(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteDrawType -> %w", err)
	}

	return nil
}

func (r *LotteryRepository) AddPrize(ctx context.Context, prize domain.Prize) (domain.Prize, error) {
	created, err := r.dao.InsertPrize(ctx, dao.Prize{
		DrawTypeID: prize.DrawTypeID,
		Name:       prize.Name,
		Amount:     prize.Amount,
		Count:      prize.Count,
	})
	if err != nil {
		return domain.Prize{}, fmt.Errorf("r.dao.InsertPrize -> %w", err)
	}

	return prizeToDomain(created), nil
}

func (r *LotteryRepository) DeletePrize(ctx context.Context, id uint) error {
	if err := r.dao.DeletePrize(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeletePrize -> %w", err)
	}

	return nil
}

// CreateDraw stores a draw for draw.Date. Without a DrawTypeID the draw type is
// picked by the schedule matcher among the active draw types, and creation fails
// with ErrNoMatchingSchedule when none matches.
func (r *LotteryRepository) CreateDraw(ctx context.Context, draw domain.Draw) (domain.Draw, error) {
	var created dao.Draw

	err := r.dao.Transaction(ctx, func(tx *dao.LotteryDAO) error {
		drawTypeID := draw.DrawTypeID
		if drawTypeID == 0 {
			rows, err := tx.FindDrawTypes(ctx, true)
			if err != nil {
				return fmt.Errorf("tx.FindDrawTypes -> %w", err)
			}
			drawTypes, err := drawTypesToDomain(rows)
			if err != nil {
				return err
			}
			matched, ok := schedule.Match(draw.Date, drawTypes)
			if !ok {
				return ErrNoMatchingSchedule
			}
			drawTypeID = matched.ID
		}

		var err error
		created, err = tx.InsertDraw(ctx, dao.Draw{
			DrawTypeID: drawTypeID,
			Date:       domain.DateOf(draw.Date),
		})
		if err != nil {
			return fmt.Errorf("tx.InsertDraw -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Draw{}, err
	}

	return drawToDomain(created)
}

func (r *LotteryRepository) FindDraw(ctx context.Context, id uint) (domain.Draw, error) {
	found, err := r.dao.FindDrawByID(ctx, id)
	if err != nil {
		return domain.Draw{}, fmt.Errorf("r.dao.FindDrawByID -> %w", err)
	}

	return drawToDomain(found)
}

func (r *LotteryRepository) FindDrawByDate(ctx context.Context, date time.Time) (domain.Draw, error) {
	found, err := r.dao.FindDrawByDate(ctx, domain.DateOf(date))
	if err != nil {
		return domain.Draw{}, fmt.Errorf("r.dao.FindDrawByDate -> %w", err)
	}

	return drawToDomain(found)
}

func (r *LotteryRepository) ListOpenDraws(ctx context.Context, from time.Time) ([]domain.Draw, error) {
	found, err := r.dao.FindOpenDraws(ctx, domain.DateOf(from))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindOpenDraws -> %w", err)
	}

	return drawsToDomain(found)
}

func (r *LotteryRepository) ListClosedDraws(ctx context.Context, limit int) ([]domain.Draw, error) {
	found, err := r.dao.FindClosedDraws(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindClosedDraws -> %w", err)
	}

	return drawsToDomain(found)
}

func (r *LotteryRepository) DeleteDraw(ctx context.Context, id uint) error {
	if err := r.dao.DeleteDraw(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteDraw -> %w", err)
	}

	return nil
}

// CloseDraw closes an open draw and stores the allocation produced by allocate, all
// in one transaction. When the draw was already closed nothing is allocated and the
// stored result is returned with AlreadyClosed set. The result is read inside the
// transaction, so a committed close always comes back as a success.
func (r *LotteryRepository) CloseDraw(ctx context.Context, drawID uint, at time.Time, allocate AllocateFunc) (domain.ClosedDraw, error) {
	var result domain.ClosedDraw

	err := r.dao.Transaction(ctx, func(tx *dao.LotteryDAO) error {
		closedNow, err := tx.CloseDraw(ctx, drawID, at)
		if err != nil {
			return fmt.Errorf("tx.CloseDraw -> %w", err)
		}

		found, err := tx.FindDrawByID(ctx, drawID)
		if err != nil {
			return fmt.Errorf("tx.FindDrawByID -> %w", err)
		}
		if closedNow {
			if err := awardPrizes(ctx, tx, found, allocate); err != nil {
				return err
			}
		}

		draw, err := drawToDomain(found)
		if err != nil {
			return err
		}
		winners, err := tx.FindWinners(ctx, drawID)
		if err != nil {
			return fmt.Errorf("tx.FindWinners -> %w", err)
		}

		result = domain.ClosedDraw{
			Draw:          draw,
			Winners:       winnersToDomain(winners),
			AlreadyClosed: !closedNow,
		}

		return nil
	})
	if err != nil {
		return domain.ClosedDraw{}, err
	}

	return result, nil
}

func awardPrizes(ctx context.Context, tx *dao.LotteryDAO, draw dao.Draw, allocate AllocateFunc) error {
	prizeRows, err := tx.FindPrizesByDrawType(ctx, draw.DrawTypeID)
	if err != nil {
		return fmt.Errorf("tx.FindPrizesByDrawType -> %w", err)
	}
	ballotRows, err := tx.FindDrawBallots(ctx, draw.ID)
	if err != nil {
		return fmt.Errorf("tx.FindDrawBallots -> %w", err)
	}
	ballots, err := ballotsToDomain(ballotRows)
	if err != nil {
		return err
	}
	prizes := prizesToDomain(prizeRows)

	allocations := allocate(prizes, ballots)
	if err := validateAllocations(prizes, ballots, allocations); err != nil {
		return err
	}
	for _, a := range allocations {
		if err := tx.AwardPrize(ctx, draw.ID, a.BallotID, a.PrizeID); err != nil {
			return fmt.Errorf("tx.AwardPrize -> %w", err)
		}
	}

	return nil
}

// Winners lists the prize-carrying ballots of a draw, grouped by account.
func (r *LotteryRepository) Winners(ctx context.Context, drawID uint) ([]domain.Winner, error) {
	found, err := r.dao.FindWinners(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindWinners -> %w", err)
	}

	return winnersToDomain(found), nil
}

func validateAllocations(prizes []domain.Prize, ballots []domain.Ballot, allocations []domain.Allocation) error {
	remaining := make(map[uint]int, len(prizes))
	for _, p := range prizes {
		remaining[p.ID] += p.Count
	}
	open := make(map[uint]bool, len(ballots))
	for _, b := range ballots {
		open[b.ID] = true
	}

	for _, a := range allocations {
		if !open[a.BallotID] {
			return fmt.Errorf("%w: ballot %d is not available", ErrInvalidAllocation, a.BallotID)
		}
		if remaining[a.PrizeID] == 0 {
			return fmt.Errorf("%w: prize %d has no instance left", ErrInvalidAllocation, a.PrizeID)
		}
		open[a.BallotID] = false
		remaining[a.PrizeID]--
	}

	return nil
}

func (r *LotteryRepository) Stats(ctx context.Context) (domain.Stats, error) {
	found, err := r.dao.Stats(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("r.dao.Stats -> %w", err)
	}

	return domain.Stats{
		TotalDraws:    found.TotalDraws,
		OpenDraws:     found.OpenDraws,
		ClosedDraws:   found.ClosedDraws,
		PrizesAwarded: found.PrizesAwarded,
		AmountAwarded: found.AmountAwarded,
	}, nil
}

func (r *LotteryRepository) CreateBallots(ctx context.Context, accountID uint, count int) ([]domain.Ballot, error) {
	created, err := r.dao.InsertBallots(ctx, accountID, count)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertBallots -> %w", err)
	}

	return ballotsToDomain(created)
}

func (r *LotteryRepository) AssignBallot(ctx context.Context, ballotID, accountID, drawID uint) (domain.Ballot, error) {
	assigned, err := r.dao.AssignBallot(ctx, ballotID, accountID, drawID)
	if err != nil {
		return domain.Ballot{}, fmt.Errorf("r.dao.AssignBallot -> %w", err)
	}

	return ballotToDomain(assigned)
}

func (r *LotteryRepository) FindBallot(ctx context.Context, id, accountID uint) (domain.Ballot, error) {
	found, err := r.dao.FindBallotByID(ctx, id, accountID)
	if err != nil {
		return domain.Ballot{}, fmt.Errorf("r.dao.FindBallotByID -> %w", err)
	}

	return ballotToDomain(found)
}

func (r *LotteryRepository) ListBallots(ctx context.Context, accountID uint) ([]domain.Ballot, error) {
	found, err := r.dao.FindBallotsByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindBallotsByAccount -> %w", err)
	}

	return ballotsToDomain(found)
}

func (r *LotteryRepository) ListWinningBallots(ctx context.Context, accountID uint) ([]domain.Ballot, error) {
	found, err := r.dao.FindWinningBallotsByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindWinningBallotsByAccount -> %w", err)
	}

	return ballotsToDomain(found)
}
