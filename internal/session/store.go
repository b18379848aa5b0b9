package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"panel-dashboard/internal/models"

	"github.com/redis/go-redis/v9"
)

// State is what the durable store knows about a session: the
// isLoggedIn flag and the user payload stored with it.
type State struct {
	LoggedIn bool
	User     *models.User
}

// Store holds the durable half of a session. The flag and the user are
// always written and cleared together.
type Store interface {
	Get(ctx context.Context, sessionID string) (State, error)
	SetLoggedIn(ctx context.Context, sessionID string, user models.User) error
	Clear(ctx context.Context, sessionID string) error
}

const loggedInValue = "true"

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore keeps both keys for ttl; zero means no expiry.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func flagKey(id string) string { return fmt.Sprintf("session:%s:isLoggedIn", id) }
func userKey(id string) string { return fmt.Sprintf("session:%s:user", id) }

func (s *RedisStore) Get(ctx context.Context, sessionID string) (State, error) {
	vals, err := s.rdb.MGet(ctx, flagKey(sessionID), userKey(sessionID)).Result()
	if err != nil {
		return State{}, fmt.Errorf("session get: %w", err)
	}

	flag, _ := vals[0].(string)
	if flag != loggedInValue {
		return State{}, nil
	}

	st := State{LoggedIn: true}
	if raw, ok := vals[1].(string); ok && raw != "" {
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return State{}, fmt.Errorf("session user payload: %w", err)
		}
		st.User = &u
	}
	return st, nil
}

func (s *RedisStore) SetLoggedIn(ctx context.Context, sessionID string, user models.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session user payload: %w", err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, flagKey(sessionID), loggedInValue, s.ttl)
		pipe.Set(ctx, userKey(sessionID), payload, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, flagKey(sessionID), userKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
