package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/lottery-api/internal/api"
	"github.com/vietanh2810/lottery-api/internal/config"
	"github.com/vietanh2810/lottery-api/internal/db"
	"github.com/vietanh2810/lottery-api/internal/logger"
	"github.com/vietanh2810/lottery-api/internal/notify"
	"github.com/vietanh2810/lottery-api/internal/repository/dao"
	"github.com/vietanh2810/lottery-api/internal/service"
	"github.com/vietanh2810/lottery-api/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func configPath() string {
	if path := os.Getenv("LOTTERY_CONFIG"); path != "" {
		return path
	}
	return "./cmd/app/config.yml"
}

func Start() error {
	// Reloads only reach the worker once it exists.
	var closer *worker.DailyCloser
	var mu sync.Mutex

	conf, err := config.Watch(configPath(), func(updated *config.AppConfig) {
		logger.SetLevel(updated.Log.Level)

		mu.Lock()
		defer mu.Unlock()
		if closer == nil {
			return
		}
		if err := closer.UpdateSchedule(updated.Lottery); err != nil {
			zap.L().Warn("ignoring lottery schedule change", zap.Error(err))
			return
		}
		zap.L().Info("lottery close time updated",
			zap.String("close_time", updated.Lottery.CloseTime),
			zap.String("timezone", updated.Lottery.Timezone),
		)
	}, func(err error) {
		zap.L().Warn("config reload rejected", zap.Error(err))
	})
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.Log.Level, conf.Log.File); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to migrate database -> %w", err)
	}

	s, err := api.NewServer(conf, postgresDB, newNotifier(conf))
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}

	daily, err := worker.NewDailyCloser(s.Closer, conf.Lottery)
	if err != nil {
		return fmt.Errorf("failed to initialize daily closer -> %w", err)
	}
	mu.Lock()
	closer = daily
	mu.Unlock()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	daily.Start(ctx, &wg)

	srv := &http.Server{
		Addr:              ":" + conf.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		zap.L().Info("shutting down")
	case err = <-serveErr:
		stop()
		wg.Wait()
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown failed", zap.Error(err))
	}
	wg.Wait()

	return nil
}

func newNotifier(conf *config.AppConfig) service.Notifier {
	if conf.Mail.Enabled {
		zap.L().Info("winner notifications by mail", zap.String("host", conf.Mail.Host))
		return notify.NewMailNotifier(conf.Mail)
	}

	zap.L().Info("mail disabled, winner notifications are logged")
	return notify.NewLogNotifier()
}
