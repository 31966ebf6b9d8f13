package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openwager/engine/internal/wager"
)

// Redis backs the cache with a shared redis instance so multiple
// gateway processes see the same active-wager entries. Entries expire
// on their own as a backstop against eviction bugs.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewRedis connects and verifies the instance is reachable.
func NewRedis(addr, password string, db int, logger *log.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Redis{client: client, ttl: 24 * time.Hour, logger: logger}, nil
}

func (r *Redis) key(userID string) string {
	return "session:active-wager:" + userID
}

func (r *Redis) Get(ctx context.Context, userID string) (*wager.Wager, bool) {
	data, err := r.client.Get(ctx, r.key(userID)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		r.logger.Printf("redis get failed, falling back to storage: %v", err)
		return nil, false
	}
	var w wager.Wager
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		r.logger.Printf("redis entry for %s is corrupt, evicting: %v", userID, err)
		r.client.Del(ctx, r.key(userID))
		return nil, false
	}
	return &w, true
}

func (r *Redis) Put(ctx context.Context, userID string, w *wager.Wager) {
	data, err := json.Marshal(w)
	if err != nil {
		r.logger.Printf("failed to marshal wager for cache: %v", err)
		return
	}
	if err := r.client.Set(ctx, r.key(userID), data, r.ttl).Err(); err != nil {
		r.logger.Printf("redis put failed: %v", err)
	}
}

func (r *Redis) Evict(ctx context.Context, userID string) {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		r.logger.Printf("redis evict failed: %v", err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
