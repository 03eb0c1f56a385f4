package tasks

import (
	"encoding/json"
	"time"

	"reflink/config"

	"github.com/hibiken/asynq"
)

// TypeCounterRecount asks the worker to recompute a user's derived
// counters from the authoritative session records.
const TypeCounterRecount = "counter:recount"

// CounterRecountPayload identifies the user whose counters drifted.
type CounterRecountPayload struct {
	UserID string `json:"userId"`
}

// NewCounterRecountTask builds the recount task with retry options.
// Recounting is a recompute, so redelivery is harmless.
func NewCounterRecountTask(userID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(CounterRecountPayload{UserID: userID})
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.MaxRetry(10),
		asynq.Timeout(30 * time.Second),
	}
	return asynq.NewTask(TypeCounterRecount, b), opts, nil
}

// Client enqueues reconciliation tasks onto the Redis-backed queue.
type Client struct {
	inner *asynq.Client
}

// NewClient builds the task queue client from app config.
func NewClient() *Client {
	return &Client{inner: asynq.NewClient(redisOpt())}
}

func redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}
}

// EnqueueRecount schedules an eventual counter recompute for the user.
func (c *Client) EnqueueRecount(userID string) error {
	task, opts, err := NewCounterRecountTask(userID)
	if err != nil {
		return err
	}
	_, err = c.inner.Enqueue(task, opts...)
	return err
}

// Close releases the underlying queue connection.
func (c *Client) Close() error {
	return c.inner.Close()
}
