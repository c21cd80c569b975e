package kvstore

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Memory is an in-process KVStore used by tests and local development.
// It mirrors the redis semantics the services rely on.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	lists  map[string][]string
	hashes map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string),
		lists:  make(map[string][]string),
		hashes: make(map[string]map[string]string),
	}
}

func (m *Memory) Set(key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	delete(m.lists, key)
	delete(m.hashes, key)
	return nil
}

// Keys supports the trailing-star patterns the services use, nothing fancier.
func (m *Memory) Keys(pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	for k := range m.lists {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *Memory) LPush(key string, values ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range values {
		m.lists[key] = append([]string{fmt.Sprintf("%v", v)}, m.lists[key]...)
	}
	return nil
}

func (m *Memory) RPush(key string, values ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range values {
		m.lists[key] = append(m.lists[key], fmt.Sprintf("%v", v))
	}
	return nil
}

func (m *Memory) LPop(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.lists[key]
	if len(list) == 0 {
		return "", ErrNotFound
	}
	val := list[0]
	m.lists[key] = list[1:]
	return val, nil
}

func (m *Memory) RPop(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.lists[key]
	if len(list) == 0 {
		return "", ErrNotFound
	}
	val := list[len(list)-1]
	m.lists[key] = list[:len(list)-1]
	return val, nil
}

func (m *Memory) LLen(key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.lists[key])), nil
}

func (m *Memory) LIndex(key string, index int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.lists[key]
	if index < 0 {
		index = int64(len(list)) + index
	}
	if index < 0 || index >= int64(len(list)) {
		return "", ErrNotFound
	}
	return list[index], nil
}

func (m *Memory) LRange(key string, start, stop int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.lists[key]
	n := int64(len(list))
	if start < 0 {
		start = n + start
	}
	if stop < 0 {
		stop = n + stop
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || n == 0 {
		return []string{}, nil
	}
	out := make([]string, stop-start+1)
	copy(out, list[start:stop+1])
	return out, nil
}

func (m *Memory) LRem(key string, count int64, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	target := fmt.Sprintf("%v", value)
	list := m.lists[key]
	removed := int64(0)
	var out []string
	for _, v := range list {
		if v == target && (count == 0 || removed < count) {
			removed++
			continue
		}
		out = append(out, v)
	}
	m.lists[key] = out
	return nil
}

func (m *Memory) HGet(key, field string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hash, ok := m.hashes[key]
	if !ok {
		return "", ErrNotFound
	}
	val, ok := hash[field]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *Memory) HSet(key, field string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hashes[key] == nil {
		m.hashes[key] = make(map[string]string)
	}
	m.hashes[key][field] = fmt.Sprintf("%v", value)
	return nil
}

func (m *Memory) HGetAll(key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.hashes[key]))
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) HDel(key string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range fields {
		delete(m.hashes[key], f)
	}
	return nil
}

func (m *Memory) INCR(key string) (int64, error) {
	return m.addInt(key, 1)
}

func (m *Memory) DECR(key string) (int64, error) {
	return m.addInt(key, -1)
}

func (m *Memory) addInt(key string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := int64(0)
	if raw, ok := m.values[key]; ok {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, err
		}
		cur = parsed
	}
	cur += delta
	m.values[key] = strconv.FormatInt(cur, 10)
	return cur, nil
}
