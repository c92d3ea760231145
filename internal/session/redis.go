package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"mini-games-bot/internal/game"
)

const keyPrefix = "minigames:session:"

// RedisStore keeps sessions in Redis as JSON so they survive restarts.
// Every Put refreshes the TTL; abandoned games expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to url (redis:// or rediss://) and pings the server.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	if url == "" {
		return nil, errors.New("redis: url is not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	c := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return &RedisStore{client: c, ttl: ttl}, nil
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

func (r *RedisStore) Get(ctx context.Context, userID int64) (game.State, bool, error) {
	raw, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.State{}, false, nil
	}
	if err != nil {
		return game.State{}, false, fmt.Errorf("redis: get session: %w", err)
	}

	var state game.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return game.State{}, false, fmt.Errorf("redis: decode session: %w", err)
	}
	return state, true, nil
}

func (r *RedisStore) Put(ctx context.Context, userID int64, state game.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("redis: encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(userID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis: put session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis: delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
