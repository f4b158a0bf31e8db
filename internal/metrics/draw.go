package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultClosed        = "closed"
	ResultAlreadyClosed = "already_closed"
	ResultFailed        = "failed"
)

var (
	drawCloseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lottery_draw_close_total",
			Help: "Draw close attempts by result",
		},
		[]string{"result"},
	)

	drawCloseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lottery_draw_close_duration_ms",
			Help:    "Draw close duration in milliseconds, including allocation",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result"},
	)

	prizesAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lottery_prizes_awarded_total",
			Help: "Prize instances handed out by draw closes",
		},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lottery_winner_notifications_total",
			Help: "Winner notifications by result",
		},
		[]string{"result"},
	)
)

// RecordDrawClose records one close attempt. result is one of the Result* constants.
func RecordDrawClose(result string, awarded int, started time.Time) {
	drawCloseTotal.WithLabelValues(result).Inc()
	drawCloseDuration.WithLabelValues(result).Observe(float64(time.Since(started).Milliseconds()))
	if awarded > 0 {
		prizesAwarded.Add(float64(awarded))
	}
}

func RecordNotification(err error) {
	if err != nil {
		notificationsTotal.WithLabelValues("fail").Inc()
		return
	}
	notificationsTotal.WithLabelValues("success").Inc()
}
