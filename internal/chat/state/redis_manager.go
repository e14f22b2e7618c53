package state

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisManager stores conversation context in Redis so chat sessions
// survive restarts and are shared across replicas.
type RedisManager struct {
	client *redis.Client
}

func NewRedisManager(redisHost, redisPort string) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", redisHost, redisPort),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisManager{client: client}, nil
}

func contextKey(userID, chatID uint) string {
	return fmt.Sprintf("user:%d:chat:%d:context", userID, chatID)
}

func (m *RedisManager) SetContext(userID, chatID uint, contextText string) {
	ctx := context.Background()
	m.client.Set(ctx, contextKey(userID, chatID), contextText, contextTTL)
}

func (m *RedisManager) GetContext(userID, chatID uint) (string, bool) {
	ctx := context.Background()
	result := m.client.Get(ctx, contextKey(userID, chatID))
	if result.Err() != nil {
		return "", false
	}
	return result.Val(), true
}

func (m *RedisManager) ClearContext(userID, chatID uint) {
	ctx := context.Background()
	m.client.Del(ctx, contextKey(userID, chatID))
}

func (m *RedisManager) Close() error {
	return m.client.Close()
}
