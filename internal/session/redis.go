package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"
)

const keyPrefix = "oni:session:"

// RedisManager stores serialized flow state in Redis, one key per user.
type RedisManager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisManager(client *redis.Client, ttl time.Duration) *RedisManager {
	return &RedisManager{client: client, ttl: ttl}
}

func NewRedisClient(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if _, err := client.Ping().Result(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func key(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

func (m *RedisManager) Get(ctx context.Context, userID int64) (*State, error) {
	raw, err := m.client.Get(key(userID)).Result()
	if err == redis.Nil {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &state, nil
}

func (m *RedisManager) Set(ctx context.Context, userID int64, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.client.Set(key(userID), raw, m.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (m *RedisManager) Clear(ctx context.Context, userID int64) error {
	if err := m.client.Del(key(userID)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
