package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vietanh2810/lottery-api/internal/domain"
	"github.com/vietanh2810/lottery-api/internal/metrics"
	"github.com/vietanh2810/lottery-api/internal/repository"
)

// notifyTimeout bounds the winner fan-out that follows a committed close.
const notifyTimeout = 5 * time.Minute

type CloserRepository interface {
	CloseDraw(ctx context.Context, drawID uint, at time.Time, allocate repository.AllocateFunc) (domain.ClosedDraw, error)
	FindDrawByDate(ctx context.Context, date time.Time) (domain.Draw, error)
}

// Notifier delivers one winner notice. Implementations live in the notify package.
type Notifier interface {
	NotifyWinner(ctx context.Context, notice domain.WinnerNotice) error
}

// DrawCloser closes draws, allocates their prizes and tells the winners.
type DrawCloser struct {
	repo      CloserRepository
	notifier  Notifier
	allocator *Allocator
	now       func() time.Time
}

func NewDrawCloser(repo CloserRepository, notifier Notifier, allocator *Allocator, now func() time.Time) *DrawCloser {
	if allocator == nil {
		allocator = NewAllocator(nil)
	}
	if now == nil {
		now = time.Now
	}

	return &DrawCloser{
		repo:      repo,
		notifier:  notifier,
		allocator: allocator,
		now:       now,
	}
}

// Close closes the draw and notifies each winning account once. Calling Close on a
// closed draw returns the stored result with AlreadyClosed set and sends nothing.
func (c *DrawCloser) Close(ctx context.Context, drawID uint) (domain.ClosedDraw, error) {
	started := time.Now()
	runID := uuid.NewString()
	log := zap.L().With(zap.Uint("draw_id", drawID), zap.String("close_run", runID))

	result, err := c.repo.CloseDraw(ctx, drawID, c.now().UTC(), c.allocator.Allocate)
	if err != nil {
		metrics.RecordDrawClose(metrics.ResultFailed, 0, started)
		return domain.ClosedDraw{}, fmt.Errorf("c.repo.CloseDraw -> %w", err)
	}

	if result.AlreadyClosed {
		metrics.RecordDrawClose(metrics.ResultAlreadyClosed, 0, started)
		log.Info("lottery draw already closed")
		return result, nil
	}

	metrics.RecordDrawClose(metrics.ResultClosed, len(result.Winners), started)
	log.Info("lottery draw closed", zap.Int("prizes_awarded", len(result.Winners)))

	// The allocation is committed. Winners are told even when the caller goes away.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	c.notifyWinners(notifyCtx, log, result)

	return result, nil
}

// CloseForDate closes the draw dated on date. It returns ErrDrawNotFound when there is none.
func (c *DrawCloser) CloseForDate(ctx context.Context, date time.Time) (domain.ClosedDraw, error) {
	draw, err := c.repo.FindDrawByDate(ctx, domain.DateOf(date))
	if err != nil {
		return domain.ClosedDraw{}, fmt.Errorf("c.repo.FindDrawByDate -> %w", err)
	}

	return c.Close(ctx, draw.ID)
}

func (c *DrawCloser) notifyWinners(ctx context.Context, log *zap.Logger, result domain.ClosedDraw) {
	notices := domain.GroupWinners(result.Draw, result.Winners)

	failed := 0
	for _, notice := range notices {
		err := c.notify(ctx, notice)
		metrics.RecordNotification(err)
		if err != nil {
			failed++
			log.Error("failed to send lottery winner notice",
				zap.Uint("account_id", notice.Account.ID),
				zap.String("email", notice.Account.Email),
				zap.Error(err),
			)
			continue
		}
		log.Info("lottery winner notice sent", zap.Uint("account_id", notice.Account.ID))
	}

	log.Info("lottery winner notices done", zap.Int("sent", len(notices)-failed), zap.Int("failed", failed))
}

// notify turns a panicking notifier into an error so the remaining winners are still told.
func (c *DrawCloser) notify(ctx context.Context, notice domain.WinnerNotice) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()

	return c.notifier.NotifyWinner(ctx, notice)
}
