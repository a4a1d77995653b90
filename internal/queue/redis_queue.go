package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/quotedesk/internal/logger"
)

// RedisQueue implements Queue using Redis Lists.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue creates a new Redis-backed queue on the given list key.
// An empty key falls back to DefaultKey.
func NewRedisQueue(client *redis.Client, key string) (Queue, error) {
	if key == "" {
		key = DefaultKey
	}

	// Test connection before handing the queue out.
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Errorf("NewRedisQueue: failed to ping Redis: %v", err)
		return nil, err
	}

	logger.Printf("NewRedisQueue: key=%s", key)
	return &RedisQueue{client: client, key: key}, nil
}

// Enqueue adds a job to the queue using RPUSH.
func (r *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	if err := r.client.RPush(ctx, r.key, data).Err(); err != nil {
		logger.Errorf("Enqueue: failed to push to %s: %v", r.key, err)
		return err
	}

	logger.Printf("Enqueue: key=%s type=%s payloadSize=%d", r.key, job.Type, len(data))
	return nil
}

// Dequeue blocks until a job is available using BLPOP, then returns it.
func (r *RedisQueue) Dequeue(ctx context.Context) (Job, error) {
	// BLPop does not honor ctx cancellation mid-block, so run it in a
	// goroutine and race it against ctx.Done.
	type result struct {
		val []string
		err error
	}
	resultChan := make(chan result, 1)

	go func() {
		val, err := r.client.BLPop(ctx, 0, r.key).Result()
		resultChan <- result{val: val, err: err}
	}()

	select {
	case <-ctx.Done():
		return Job{}, ctx.Err()
	case res := <-resultChan:
		if res.err != nil {
			if res.err == redis.Nil {
				return Job{}, ctx.Err()
			}
			logger.Errorf("Dequeue: failed to pop from %s: %v", r.key, res.err)
			return Job{}, res.err
		}

		if len(res.val) < 2 {
			return Job{}, fmt.Errorf("invalid BLPOP result: expected 2 elements, got %d", len(res.val))
		}

		var job Job
		if err := json.Unmarshal([]byte(res.val[1]), &job); err != nil {
			logger.Errorf("Dequeue: failed to unmarshal job: %v", err)
			return Job{}, err
		}

		logger.Debugf("Dequeue: key=%s type=%s", r.key, job.Type)
		return job, nil
	}
}
