package app

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fieldwatch/internal/attendance"
	"fieldwatch/internal/messaging/kafka"
	"fieldwatch/internal/reconcile"
	"fieldwatch/internal/shared/connection"
	"fieldwatch/internal/tracking"

	"go.uber.org/zap"
)

const (
	defaultSweepInterval = time.Minute
	sweepTimeout         = 45 * time.Second
)

// RunSweeper drives the attendance reconciliation loop. A redis lock
// elects one active sweeper, so extra replicas idle until the holder
// dies and its lock expires.
func RunSweeper() error {
	logger := zap.L().Named("app.sweeper")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	attendanceRepo := attendance.NewRepository(gormDB)
	trackingRepo := tracking.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	store := reconcile.NewStore(sqlDB, gormDB, attendanceRepo, trackingRepo, outboxRepo)
	engine := reconcile.NewEngine(store, store, logger)
	lock := reconcile.NewRedisLock(redisClient, 2*time.Minute)

	interval := defaultSweepInterval
	if raw := os.Getenv("SWEEP_INTERVAL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			interval = time.Duration(secs) * time.Second
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("sweeper started", zap.Duration("interval", interval))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweepOnce(ctx, engine, lock, logger)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("sweeper shutting down")
	cancel()

	return nil
}

func sweepOnce(ctx context.Context, engine *reconcile.Engine, lock reconcile.LeaderLock, logger *zap.Logger) {
	acquired, err := lock.Acquire(ctx)
	if err != nil {
		logger.Error("lock acquire failed", zap.Error(err))
		return
	}
	if !acquired {
		logger.Debug("another sweeper holds the lock, skipping")
		return
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			logger.Warn("lock release failed", zap.Error(err))
		}
	}()

	sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	summary, err := engine.Run(sweepCtx)
	if err != nil {
		logger.Error("sweep aborted",
			zap.Int("shift_end_closures", summary.ShiftEndClosures),
			zap.Int("geofence_closures", summary.GeofenceClosures),
			zap.Int("conflicts", summary.Conflicts),
			zap.Int("failures", summary.Failures),
			zap.Error(err),
		)
		return
	}

	if summary.ShiftEndClosures+summary.GeofenceClosures+summary.Conflicts+summary.Failures > 0 {
		logger.Info("sweep completed",
			zap.Int("shift_end_closures", summary.ShiftEndClosures),
			zap.Int("geofence_closures", summary.GeofenceClosures),
			zap.Int("conflicts", summary.Conflicts),
			zap.Int("failures", summary.Failures),
		)
	}
}
