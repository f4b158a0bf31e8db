package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/lottery-api/internal/config"
	"github.com/vietanh2810/lottery-api/internal/domain"
	"github.com/vietanh2810/lottery-api/internal/service"
)

type recordingCloser struct {
	mu    sync.Mutex
	dates []time.Time
	err   error
}

func (r *recordingCloser) CloseForDate(_ context.Context, date time.Time) (domain.ClosedDraw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates = append(r.dates, date)
	return domain.ClosedDraw{Draw: domain.Draw{ID: 1, Date: date}}, r.err
}

func TestNextRun(t *testing.T) {
	cet := time.FixedZone("CET", 3600)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"later today", time.Date(2030, 1, 4, 10, 0, 0, 0, cet), time.Date(2030, 1, 4, 20, 0, 0, 0, cet)},
		{"exactly now rolls over", time.Date(2030, 1, 4, 20, 0, 0, 0, cet), time.Date(2030, 1, 5, 20, 0, 0, 0, cet)},
		{"after close", time.Date(2030, 1, 4, 21, 0, 0, 0, cet), time.Date(2030, 1, 5, 20, 0, 0, 0, cet)},
		{"month end", time.Date(2030, 1, 31, 22, 0, 0, 0, cet), time.Date(2030, 2, 1, 20, 0, 0, 0, cet)},
		{"utc input", time.Date(2030, 1, 4, 19, 30, 0, 0, time.UTC), time.Date(2030, 1, 5, 20, 0, 0, 0, cet)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextRun(tt.now, 20, 0, cet)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestRunOnceUsesLotteryTimezone(t *testing.T) {
	closer := &recordingCloser{}
	w, err := NewDailyCloser(closer, &config.LotteryConfig{CloseTime: "20:00", Timezone: "UTC"})
	require.NoError(t, err)
	w.loc = time.FixedZone("CET", 3600)
	w.now = func() time.Time { return time.Date(2030, 1, 4, 23, 30, 0, 0, time.UTC) }

	w.RunOnce(context.Background())

	require.Len(t, closer.dates, 1)
	assert.Equal(t, time.Date(2030, 1, 5, 0, 0, 0, 0, time.UTC), closer.dates[0])
}

func TestRunOnceToleratesErrors(t *testing.T) {
	for _, err := range []error{service.ErrDrawNotFound, errors.New("db down")} {
		closer := &recordingCloser{err: err}
		w, nerr := NewDailyCloser(closer, &config.LotteryConfig{CloseTime: "20:00"})
		require.NoError(t, nerr)

		assert.NotPanics(t, func() { w.RunOnce(context.Background()) })
		assert.Len(t, closer.dates, 1)
	}
}

func TestUpdateSchedule(t *testing.T) {
	w, err := NewDailyCloser(&recordingCloser{}, &config.LotteryConfig{CloseTime: "20:00"})
	require.NoError(t, err)
	<-w.reschedule

	require.NoError(t, w.UpdateSchedule(&config.LotteryConfig{CloseTime: "20:00"}))
	assert.Len(t, w.reschedule, 0)

	require.NoError(t, w.UpdateSchedule(&config.LotteryConfig{CloseTime: "18:45"}))
	assert.Len(t, w.reschedule, 1)
	assert.Equal(t, 18, w.hour)
	assert.Equal(t, 45, w.minute)

	assert.Error(t, w.UpdateSchedule(&config.LotteryConfig{CloseTime: "25:00"}))
	assert.Equal(t, 18, w.hour)
}

func TestStartStopsOnCancel(t *testing.T) {
	w, err := NewDailyCloser(&recordingCloser{}, &config.LotteryConfig{CloseTime: "20:00"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	w.Start(ctx, &wg)
	require.NoError(t, w.UpdateSchedule(&config.LotteryConfig{CloseTime: "21:00"}))
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("daily closer did not stop")
	}
}
