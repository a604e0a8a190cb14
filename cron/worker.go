package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"salonbook/config"
	holdRepo "salonbook/database/repository/hold"
	"salonbook/handlers"
	"salonbook/models"
	"salonbook/services/notification"

	"github.com/hibiken/asynq"
)

// InitQueueWorker runs the async worker in background. It drains the
// notification dispatch queue and the hold reap queue; queue Redis health is
// covered by the shared dependency monitor, not the worker itself.
func InitQueueWorker(notifSvc notification.NotificationService, holds holdRepo.HoldRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeNotifyDispatch, handleDispatchTask(notifSvc))
	mux.HandleFunc(handlers.TypeHoldReap, handleHoldReapTask(holds))

	go func() {
		log.Println("[QueueWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[QueueWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[QueueWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleDispatchTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var intents []models.NotificationIntent
		if err := json.Unmarshal(task.Payload(), &intents); err != nil {
			log.Printf("[DispatchHandler] invalid payload: %v", err)
			return err
		}
		return notifSvc.Dispatch(ctx, intents)
	}
}

func handleHoldReapTask(holds holdRepo.HoldRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p handlers.HoldReapPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[HoldReapHandler] invalid payload: %v", err)
			return err
		}
		return holds.Reap(ctx, p.SalonID, p.Date, p.HoldID)
	}
}
