package cron

import (
	"context"
	"encoding/json"
	"log"

	"reflink/config"
	sessionRepo "reflink/database/repository/session"
	userRepo "reflink/database/repository/user"
	"reflink/services/tasks"

	"github.com/hibiken/asynq"
)

// InitCounterWorker runs the background worker that repairs derived
// counters. Tasks arrive when a synchronous counter write failed after
// the primary session write succeeded; the recompute is idempotent, so
// asynq's retry policy can redeliver freely.
func InitCounterWorker(users userRepo.UserRepository, sessions sessionRepo.SessionRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCounterRecount, handleCounterRecount(users, sessions))

	go func() {
		log.Println("[CounterWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[CounterWorker] worker stopped: %v", err)
		}
	}()
}

func handleCounterRecount(users userRepo.UserRepository, sessions sessionRepo.SessionRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.CounterRecountPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[CounterWorker] invalid payload: %v", err)
			return err
		}

		completed, err := sessions.CountCompletedForJobSeeker(ctx, p.UserID)
		if err != nil {
			return err
		}
		if err := users.SetCompletedSessions(ctx, p.UserID, completed); err != nil {
			return err
		}

		log.Printf("[CounterWorker] recounted completedSessions for user %s: %d", p.UserID, completed)
		return nil
	}
}
