package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RecommendationCache guarda textos del asesor por prompt para ahorrar cuota.
type RecommendationCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, text string, ttl time.Duration) error
}

// cacheKey resume el prompt completo; dos perfiles con el mismo resumen comparten entrada.
func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

type memoryEntry struct {
	text      string
	expiresAt time.Time
}

type memoryRecommendationCache struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryRecommendationCache() RecommendationCache {
	return &memoryRecommendationCache{
		items: make(map[string]memoryEntry),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (c *memoryRecommendationCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return "", false, nil
	}
	if c.now().After(e.expiresAt) {
		delete(c.items, key)
		return "", false, nil
	}
	return e.text, true, nil
}

func (c *memoryRecommendationCache) Set(_ context.Context, key, text string, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" || ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memoryEntry{text: text, expiresAt: c.now().Add(ttl)}
	return nil
}

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisRecommendationCache struct {
	client redisKVClient
	prefix string
}

func NewRedisRecommendationCache(client *redis.Client) RecommendationCache {
	if client == nil {
		return nil
	}
	return &redisRecommendationCache{
		client: client,
		prefix: "advisor:rec:",
	}
}

func (c *redisRecommendationCache) Get(ctx context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	text, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (c *redisRecommendationCache) Set(ctx context.Context, key, text string, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" || ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+key, text, ttl).Err()
}
