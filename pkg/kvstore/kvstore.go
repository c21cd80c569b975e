package kvstore

import "errors"

// ErrNotFound is returned when a key or hash field does not exist.
var ErrNotFound = errors.New("kvstore: key not found")

type KVStore interface {
	Get(key string) (string, error)
	Set(key string, value interface{}) error
	Delete(key string) error
	Keys(pattern string) ([]string, error)
	LPush(key string, values ...interface{}) error
	RPush(key string, values ...interface{}) error
	LPop(key string) (string, error)
	RPop(key string) (string, error)
	LLen(key string) (int64, error)
	LIndex(key string, index int64) (string, error)
	LRange(key string, start, stop int64) ([]string, error)
	LRem(key string, count int64, value interface{}) error
	HGet(key, field string) (string, error)
	HSet(key, field string, value interface{}) error
	HGetAll(key string) (map[string]string, error)
	HDel(key string, fields ...string) error
	INCR(key string) (int64, error)
	DECR(key string) (int64, error)
}
