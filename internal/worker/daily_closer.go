// Package worker runs the background jobs of the lottery.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/lottery-api/internal/config"
	"github.com/vietanh2810/lottery-api/internal/domain"
	"github.com/vietanh2810/lottery-api/internal/service"
)

const closeTimeout = 5 * time.Minute

type DrawCloser interface {
	CloseForDate(ctx context.Context, date time.Time) (domain.ClosedDraw, error)
}

// DailyCloser closes the draw of the current day at a fixed wall clock time.
type DailyCloser struct {
	closer DrawCloser
	now    func() time.Time

	mu     sync.Mutex
	hour   int
	minute int
	loc    *time.Location

	reschedule chan struct{}
}

func NewDailyCloser(closer DrawCloser, conf *config.LotteryConfig) (*DailyCloser, error) {
	w := &DailyCloser{
		closer:     closer,
		now:        time.Now,
		reschedule: make(chan struct{}, 1),
	}
	if err := w.UpdateSchedule(conf); err != nil {
		return nil, err
	}

	return w, nil
}

// UpdateSchedule switches to a new close time or timezone. A running loop re-arms its timer.
func (w *DailyCloser) UpdateSchedule(conf *config.LotteryConfig) error {
	hour, minute, err := conf.ClockTime()
	if err != nil {
		return err
	}
	loc, err := conf.Location()
	if err != nil {
		return err
	}

	w.mu.Lock()
	changed := w.hour != hour || w.minute != minute || w.loc == nil || w.loc.String() != loc.String()
	w.hour, w.minute, w.loc = hour, minute, loc
	w.mu.Unlock()

	if changed {
		select {
		case w.reschedule <- struct{}{}:
		default:
		}
	}

	return nil
}

// NextRun returns the first hour:minute in loc strictly after now.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}

	return next
}

func (w *DailyCloser) next() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	return NextRun(w.now(), w.hour, w.minute, w.loc)
}

// Start runs the loop until ctx is cancelled.
func (w *DailyCloser) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			at := w.next()
			zap.L().Info("next lottery close scheduled", zap.Time("at", at))
			timer := time.NewTimer(time.Until(at))

			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-w.reschedule:
				timer.Stop()
			case <-timer.C:
				w.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce closes today's draw, if there is one.
func (w *DailyCloser) RunOnce(ctx context.Context) {
	w.mu.Lock()
	today := domain.DateOf(w.now().In(w.loc))
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, closeTimeout)
	defer cancel()

	log := zap.L().With(zap.String("date", today.Format(time.DateOnly)))
	result, err := w.closer.CloseForDate(ctx, today)
	switch {
	case errors.Is(err, service.ErrDrawNotFound):
		log.Info("no lottery draw today")
	case err != nil:
		log.Error("closing today's lottery draw failed", zap.Error(err))
	default:
		log.Info("today's lottery draw handled",
			zap.Uint("draw_id", result.Draw.ID),
			zap.Bool("already_closed", result.AlreadyClosed),
			zap.Int("winners", len(result.Winners)),
		)
	}
}
