package cron

import (
	"context"
	"fmt"
	"time"

	"deskhub/config"
	"deskhub/services/booking"
	"deskhub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeReservationSweep = "reservation:sweep"

// InitSweepWorker starts the background expiry sweep: an asynq scheduler
// enqueues a sweep task on the configured interval and a worker processes
// it by cancelling every reservation whose check-in window has elapsed.
// Clients also expire opportunistically; this is the authority that runs
// whether or not anyone has the app open.
func InitSweepWorker(engine booking.ReservationEngine) {
	logger := utils.GetLogger()
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{"default": 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReservationSweep, handleSweepTask(engine))

	go func() {
		logger.Info("starting reservation sweep worker")
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("sweep worker failed to start",
				zap.Int("attempt", attempt), zap.Error(err))
			if attempt == maxAttempts {
				logger.Fatal("sweep worker exhausted retries")
			}
			time.Sleep(time.Duration(attempt*2) * time.Second)
		}
	}()

	go runSweepScheduler(redisOpts, logger)
}

// runSweepScheduler registers the periodic sweep task.
func runSweepScheduler(redisOpts asynq.RedisClientOpt, logger *zap.Logger) {
	interval := config.AppConfig.SweepIntervalSeconds
	if interval <= 0 {
		interval = 60
	}

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{
		Location: time.Local,
	})
	spec := fmt.Sprintf("@every %ds", interval)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeReservationSweep, nil)); err != nil {
		logger.Fatal("failed to register sweep schedule", zap.Error(err))
	}

	logger.Info("reservation sweep scheduled", zap.Int("intervalSeconds", interval))
	if err := scheduler.Run(); err != nil {
		logger.Fatal("sweep scheduler stopped", zap.Error(err))
	}
}

func handleSweepTask(engine booking.ReservationEngine) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()
		expired, err := engine.ExpireAllOverdue(ctx)
		if err != nil {
			logger.Error("reservation sweep failed", zap.Error(err))
			return err
		}
		if expired > 0 {
			logger.Info("reservation sweep expired reservations", zap.Int("count", expired))
		}
		return nil
	}
}
