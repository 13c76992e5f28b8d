package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisQueue shares events between service instances through a Redis list.
type RedisQueue struct {
	rdb *redis.Client
	key string
	cap int64
}

func NewRedisQueue(redisURL, channel string, capacity int) (*RedisQueue, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	if channel == "" {
		channel = "default"
	}
	if capacity <= 0 {
		capacity = 200
	}
	return &RedisQueue{rdb: rdb, key: "notifications:" + channel, cap: int64(capacity)}, nil
}

func (q *RedisQueue) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(stamp(e))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = q.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, q.key, data)
		p.LTrim(ctx, q.key, -q.cap, -1)
		return nil
	})
	return err
}

func (q *RedisQueue) Drain(ctx context.Context, max int) ([]Event, error) {
	if max <= 0 {
		max = int(q.cap)
	}
	var vals *redis.StringSliceCmd
	_, err := q.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		vals = p.LRange(ctx, q.key, 0, int64(max-1))
		p.LTrim(ctx, q.key, int64(max), -1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to drain notifications: %w", err)
	}
	out := make([]Event, 0, len(vals.Val()))
	for _, raw := range vals.Val() {
		var e Event
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (q *RedisQueue) Close() error {
	return q.rdb.Close()
}
