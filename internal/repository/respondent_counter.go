package repository

import (
	"context"

	"github.com/go-redis/redis/v8"
)

const RespondentCounterKey = "health_survey:respondents"

// RespondentCounter 开始页展示的参与人数
type RespondentCounter interface {
	Increment(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type RedisRespondentCounter struct {
	Client *redis.Client
	Key    string
}

func NewRedisRespondentCounter(client *redis.Client) *RedisRespondentCounter {
	return &RedisRespondentCounter{Client: client, Key: RespondentCounterKey}
}

func (r *RedisRespondentCounter) Increment(ctx context.Context) (int64, error) {
	return r.Client.Incr(ctx, r.Key).Result()
}

func (r *RedisRespondentCounter) Count(ctx context.Context) (int64, error) {
	n, err := r.Client.Get(ctx, r.Key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// NoopRespondentCounter 未启用 Redis 时使用
type NoopRespondentCounter struct{}

func (NoopRespondentCounter) Increment(context.Context) (int64, error) { return 0, nil }

func (NoopRespondentCounter) Count(context.Context) (int64, error) { return 0, nil }
