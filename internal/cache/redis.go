package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "wasafinance:cache:"

const setIfGenerationScript = `
local gen = redis.call("GET", KEYS[2])
if gen == false then
  gen = "0"
end
if gen ~= ARGV[1] then
  return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`

const invalidateScript = `
redis.call("INCR", KEYS[2])
redis.call("DEL", KEYS[1])
return 1
`

type redisStore struct {
	client     *redis.Client
	setIfGen   *redis.Script
	invalidate *redis.Script
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{
		client:     client,
		setIfGen:   redis.NewScript(setIfGenerationScript),
		invalidate: redis.NewScript(invalidateScript),
	}
}

func valueKey(key string) string      { return redisKeyPrefix + key }
func generationKey(key string) string { return redisKeyPrefix + key + ":gen" }

func (r *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, valueKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *redisStore) Generation(ctx context.Context, key string) (uint64, error) {
	gen, err := r.client.Get(ctx, generationKey(key)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *redisStore) SetIfGeneration(ctx context.Context, key string, generation uint64, value []byte, ttl time.Duration) (bool, error) {
	stored, err := r.setIfGen.Run(ctx, r.client,
		[]string{valueKey(key), generationKey(key)},
		strconv.FormatUint(generation, 10),
		value,
		ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

func (r *redisStore) Invalidate(ctx context.Context, key string) error {
	return r.invalidate.Run(ctx, r.client, []string{valueKey(key), generationKey(key)}).Err()
}
