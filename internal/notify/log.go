package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/vietanh2810/lottery-api/internal/domain"
)

// LogNotifier only logs winner notices. It is used when mail delivery is disabled.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) NotifyWinner(_ context.Context, notice domain.WinnerNotice) error {
	zap.L().Info("winner notice",
		zap.Uint("draw_id", notice.Draw.ID),
		zap.Uint("account_id", notice.Account.ID),
		zap.Int("prizes", len(notice.Prizes)),
		zap.String("total", domain.FormatAmount(notice.Total())),
	)

	return nil
}
