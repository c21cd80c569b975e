package kvstore

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
)

var ctx = context.Background()

type Redis struct {
	client *redis.Client
}

func NewRedis(addr string, password string, db int) KVStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}

	return Redis{client: rdb}
}

func (r Redis) Set(key string, value interface{}) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r Redis) Get(key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r Redis) Delete(key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r Redis) Keys(pattern string) ([]string, error) {
	return r.client.Keys(ctx, pattern).Result()
}

func (r Redis) LPush(key string, values ...interface{}) error {
	return r.client.LPush(ctx, key, values...).Err()
}

func (r Redis) RPush(key string, values ...interface{}) error {
	return r.client.RPush(ctx, key, values...).Err()
}

func (r Redis) LPop(key string) (string, error) {
	val, err := r.client.LPop(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r Redis) RPop(key string) (string, error) {
	val, err := r.client.RPop(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r Redis) LLen(key string) (int64, error) {
	return r.client.LLen(ctx, key).Result()
}

func (r Redis) LIndex(key string, index int64) (string, error) {
	val, err := r.client.LIndex(ctx, key, index).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r Redis) LRange(key string, start, stop int64) ([]string, error) {
	return r.client.LRange(ctx, key, start, stop).Result()
}

func (r Redis) LRem(key string, count int64, value interface{}) error {
	return r.client.LRem(ctx, key, count, value).Err()
}

func (r Redis) HGet(key, field string) (string, error) {
	val, err := r.client.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r Redis) HSet(key, field string, value interface{}) error {
	return r.client.HSet(ctx, key, field, value).Err()
}

func (r Redis) HGetAll(key string) (map[string]string, error) {
	return r.client.HGetAll(ctx, key).Result()
}

func (r Redis) HDel(key string, fields ...string) error {
	return r.client.HDel(ctx, key, fields...).Err()
}

func (r Redis) INCR(key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r Redis) DECR(key string) (int64, error) {
	return r.client.Decr(ctx, key).Result()
}
