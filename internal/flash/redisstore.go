package flash

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	sessionCookieName    = "flash_session"
	sessionContextKey    = "flash.session"
	flashKeyPrefix       = "flash:" // Key prefix for pending messages: flash:{session_id}
	defaultRedisFlashTTL = 10 * time.Minute
)

// RedisStore keeps messages in a Redis list per browser session.
// The client only carries a random session id.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultRedisFlashTTL
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) Add(c echo.Context, message Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode flash message: %w", err)
	}

	sessionID := s.sessionID(c)
	if sessionID == "" {
		sessionID = uuid.NewString()
		c.Set(sessionContextKey, sessionID)
		c.SetCookie(&http.Cookie{
			Name:     sessionCookieName,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	ctx := c.Request().Context()
	key := flashKey(sessionID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store flash message: %w", err)
	}
	return nil
}

func (s *RedisStore) Pop(c echo.Context) ([]Message, error) {
	sessionID := s.sessionID(c)
	if sessionID == "" {
		return nil, nil
	}

	ctx := c.Request().Context()
	key := flashKey(sessionID)
	var entries *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		entries = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pop flash messages: %w", err)
	}

	values, err := entries.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read flash messages: %w", err)
	}

	messages := make([]Message, 0, len(values))
	for _, value := range values {
		var message Message
		if err := json.Unmarshal([]byte(value), &message); err != nil {
			return nil, fmt.Errorf("failed to decode flash message: %w", err)
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (s *RedisStore) sessionID(c echo.Context) string {
	if id, ok := c.Get(sessionContextKey).(string); ok {
		return id
	}
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

func flashKey(sessionID string) string {
	return flashKeyPrefix + sessionID
}
