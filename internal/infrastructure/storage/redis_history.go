package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yourusername/deepseek-assistant-bot/internal/domain/entity"
	"github.com/yourusername/deepseek-assistant-bot/internal/domain/repository"
)

// Bo'sh tarixda ajratgichsiz yozadi, aks holda ajratgich bilan qo'shadi
var appendHistoryScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if not cur or cur == '' then
	redis.call('SET', KEYS[1], ARGV[1])
	return ARGV[1]
end
local joined = cur .. ARGV[2] .. ARGV[1]
redis.call('SET', KEYS[1], joined)
return joined
`)

// RedisOptions redis ulanish sozlamalari
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type redisHistoryRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisHistoryRepository Redis asosidagi tarix repository
func NewRedisHistoryRepository(ctx context.Context, opts RedisOptions) (repository.HistoryRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &redisHistoryRepository{client: client, prefix: opts.Prefix}, nil
}

func (r *redisHistoryRepository) key(scope int64) string {
	return r.prefix + "history:" + strconv.FormatInt(scope, 10)
}

// Append tarixga matn qo'shish
func (r *redisHistoryRepository) Append(ctx context.Context, scope int64, text string) (string, error) {
	content, err := appendHistoryScript.Run(ctx, r.client, []string{r.key(scope)}, text, entity.HistorySeparator).Text()
	if err != nil {
		return "", fmt.Errorf("append history: %w", err)
	}
	return content, nil
}

// Read tarixni o'qish
func (r *redisHistoryRepository) Read(ctx context.Context, scope int64) (string, error) {
	content, err := r.client.Get(ctx, r.key(scope)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return content, nil
}

// Close ulanishni yopish
func (r *redisHistoryRepository) Close() error {
	return r.client.Close()
}
