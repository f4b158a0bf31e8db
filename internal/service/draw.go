package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vietanh2810/lottery-api/internal/domain"
	"github.com/vietanh2810/lottery-api/internal/schedule"
)

const recentClosedDraws = 5

type DrawRepository interface {
	CreateDrawType(ctx context.Context, drawType domain.DrawType) (domain.DrawType, error)
	UpdateDrawType(ctx context.Context, drawType domain.DrawType) (domain.DrawType, error)
	FindDrawType(ctx context.Context, id uint) (domain.DrawType, error)
	ListDrawTypes(ctx context.Context, activeOnly bool) ([]domain.DrawType, error)
	DeleteDrawType(ctx context.Context, id uint) error
	AddPrize(ctx context.Context, prize domain.Prize) (domain.Prize, error)
	DeletePrize(ctx context.Context, id uint) error

	CreateDraw(ctx context.Context, draw domain.Draw) (domain.Draw, error)
	FindDraw(ctx context.Context, id uint) (domain.Draw, error)
	ListOpenDraws(ctx context.Context, from time.Time) ([]domain.Draw, error)
	ListClosedDraws(ctx context.Context, limit int) ([]domain.Draw, error)
	DeleteDraw(ctx context.Context, id uint) error
	Winners(ctx context.Context, drawID uint) ([]domain.Winner, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

type DrawService struct {
	repo DrawRepository
	loc  *time.Location
	now  func() time.Time
}

// NewDrawService needs loc to decide what "today" is. A nil now defaults to time.Now.
func NewDrawService(repo DrawRepository, loc *time.Location, now func() time.Time) *DrawService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}

	return &DrawService{
		repo: repo,
		loc:  loc,
		now:  now,
	}
}

// Today is the current calendar date in the lottery timezone.
func (s *DrawService) Today() time.Time {
	return domain.DateOf(s.now().In(s.loc))
}

func (s *DrawService) CreateDrawType(ctx context.Context, drawType domain.DrawType) (domain.DrawType, error) {
	if err := validateDrawType(drawType); err != nil {
		return domain.DrawType{}, err
	}

	created, err := s.repo.CreateDrawType(ctx, drawType)
	if err != nil {
		return domain.DrawType{}, fmt.Errorf("s.repo.CreateDrawType -> %w", err)
	}

	return created, nil
}

func (s *DrawService) UpdateDrawType(ctx context.Context, drawType domain.DrawType) (domain.DrawType, error) {
	if err := validateDrawType(drawType); err != nil {
		return domain.DrawType{}, err
	}

	updated, err := s.repo.UpdateDrawType(ctx, drawType)
	if err != nil {
		return domain.DrawType{}, fmt.Errorf("s.repo.UpdateDrawType -> %w", err)
	}

	return updated, nil
}

func validateDrawType(drawType domain.DrawType) error {
	if strings.TrimSpace(drawType.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDrawType)
	}

	return drawType.Schedule.Validate()
}

func (s *DrawService) GetDrawType(ctx context.Context, id uint) (domain.DrawType, error) {
	found, err := s.repo.FindDrawType(ctx, id)
	if err != nil {
		return domain.DrawType{}, fmt.Errorf("s.repo.FindDrawType -> %w", err)
	}

	return found, nil
}

func (s *DrawService) ListDrawTypes(ctx context.Context) ([]domain.DrawType, error) {
	found, err := s.repo.ListDrawTypes(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListDrawTypes -> %w", err)
	}

	return found, nil
}

func (s *DrawService) DeleteDrawType(ctx context.Context, id uint) error {
	if err := s.repo.DeleteDrawType(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteDrawType -> %w", err)
	}

	return nil
}

func (s *DrawService) AddPrize(ctx context.Context, prize domain.Prize) (domain.Prize, error) {
	switch {
	case strings.TrimSpace(prize.Name) == "":
		return domain.Prize{}, fmt.Errorf("%w: name is required", ErrInvalidPrize)
	case prize.Amount < 0:
		return domain.Prize{}, fmt.Errorf("%w: amount must not be negative", ErrInvalidPrize)
	case prize.Amount > domain.MaxPrizeAmount:
		return domain.Prize{}, fmt.Errorf("%w: amount must be at most %d", ErrInvalidPrize, domain.MaxPrizeAmount)
	case prize.Count < 1:
		return domain.Prize{}, fmt.Errorf("%w: count must be at least 1", ErrInvalidPrize)
	case prize.Count > domain.MaxPrizeCount:
		return domain.Prize{}, fmt.Errorf("%w: count must be at most %d", ErrInvalidPrize, domain.MaxPrizeCount)
	}

	created, err := s.repo.AddPrize(ctx, prize)
	if err != nil {
		return domain.Prize{}, fmt.Errorf("s.repo.AddPrize -> %w", err)
	}

	return created, nil
}

func (s *DrawService) DeletePrize(ctx context.Context, id uint) error {
	if err := s.repo.DeletePrize(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeletePrize -> %w", err)
	}

	return nil
}

// MatchDrawType reports which active draw type would govern date.
func (s *DrawService) MatchDrawType(ctx context.Context, date time.Time) (domain.DrawType, error) {
	drawTypes, err := s.repo.ListDrawTypes(ctx, true)
	if err != nil {
		return domain.DrawType{}, fmt.Errorf("s.repo.ListDrawTypes -> %w", err)
	}

	matched, ok := schedule.Match(domain.DateOf(date), drawTypes)
	if !ok {
		return domain.DrawType{}, ErrNoMatchingSchedule
	}

	return matched, nil
}

// CreateDraw creates the draw for date. A zero drawTypeID lets the schedule matcher pick the type.
func (s *DrawService) CreateDraw(ctx context.Context, date time.Time, drawTypeID uint) (domain.Draw, error) {
	date = domain.DateOf(date)
	if date.Before(s.Today()) {
		return domain.Draw{}, ErrDrawDateInPast
	}

	created, err := s.repo.CreateDraw(ctx, domain.Draw{DrawTypeID: drawTypeID, Date: date})
	if err != nil {
		return domain.Draw{}, fmt.Errorf("s.repo.CreateDraw -> %w", err)
	}

	return created, nil
}

func (s *DrawService) DeleteDraw(ctx context.Context, id uint) error {
	if err := s.repo.DeleteDraw(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteDraw -> %w", err)
	}

	return nil
}

// OpenDraws lists draws that are still open and not dated before today.
func (s *DrawService) OpenDraws(ctx context.Context) ([]domain.Draw, error) {
	draws, err := s.repo.ListOpenDraws(ctx, s.Today())
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListOpenDraws -> %w", err)
	}

	return draws, nil
}

func (s *DrawService) ClosedDraws(ctx context.Context, limit int) ([]domain.DrawResult, error) {
	draws, err := s.repo.ListClosedDraws(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListClosedDraws -> %w", err)
	}

	results := make([]domain.DrawResult, 0, len(draws))
	for _, d := range draws {
		winners, err := s.repo.Winners(ctx, d.ID)
		if err != nil {
			return nil, fmt.Errorf("s.repo.Winners -> %w", err)
		}
		results = append(results, domain.DrawResult{Draw: d, Winners: winners})
	}

	return results, nil
}

func (s *DrawService) GetDraw(ctx context.Context, id uint) (domain.DrawDetail, error) {
	draw, err := s.repo.FindDraw(ctx, id)
	if err != nil {
		return domain.DrawDetail{}, fmt.Errorf("s.repo.FindDraw -> %w", err)
	}

	var winners []domain.Winner
	if draw.IsClosed() {
		winners, err = s.repo.Winners(ctx, id)
		if err != nil {
			return domain.DrawDetail{}, fmt.Errorf("s.repo.Winners -> %w", err)
		}
	}

	return domain.NewDrawDetail(draw, winners), nil
}

func (s *DrawService) Stats(ctx context.Context) (domain.Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("s.repo.Stats -> %w", err)
	}

	stats.RecentWinners, err = s.ClosedDraws(ctx, recentClosedDraws)
	if err != nil {
		return domain.Stats{}, err
	}

	return stats, nil
}
