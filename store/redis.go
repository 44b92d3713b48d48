package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding one field per preset.
const DefaultRedisKey = "minesweeper:best"

// recordScript sets the field only when it is missing or larger, so
// concurrent winners cannot overwrite a faster time.
var recordScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1])
if (not cur) or tonumber(ARGV[2]) < tonumber(cur) then
  redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
  return 1
end
return 0
`)

// Redis keeps best times in a redis hash.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis connects to addr and pings it.
func NewRedis(ctx context.Context, addr, key string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis store: ping %s: %w", addr, err)
	}
	return NewRedisFromClient(client, key), nil
}

// NewRedisFromClient wraps an existing client. An empty key selects
// DefaultRedisKey.
func NewRedisFromClient(client *redis.Client, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Best(ctx context.Context, preset string) (int, bool, error) {
	raw, err := r.client.HGet(ctx, r.key, preset).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis store: hget %s: %w", preset, err)
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("redis store: bad value %q for %s: %w", raw, preset, err)
	}
	return seconds, true, nil
}

func (r *Redis) Record(ctx context.Context, preset string, seconds int) (bool, error) {
	if err := validate(seconds); err != nil {
		return false, err
	}

	n, err := recordScript.Run(ctx, r.client, []string{r.key}, preset, seconds).Int()
	if err != nil {
		return false, fmt.Errorf("redis store: record %s: %w", preset, err)
	}
	return n == 1, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
