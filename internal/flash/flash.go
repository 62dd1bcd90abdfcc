// Package flash keeps one-shot messages between a redirect and the next rendered page.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	CategorySuccess = "success"
	CategoryError   = "error"
)

type Message struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

func Success(text string) Message {
	return Message{Category: CategorySuccess, Text: text}
}

func Error(text string) Message {
	return Message{Category: CategoryError, Text: text}
}

// Store persists messages for the client of the current request.
// Pop returns the pending messages and removes them.
type Store interface {
	Add(c echo.Context, message Message) error
	Pop(c echo.Context) ([]Message, error)
}

func encodeMessages(messages []Message) (string, error) {
	data, err := json.Marshal(messages)
	if err != nil {
		return "", fmt.Errorf("failed to encode flash messages: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func decodeMessages(value string) ([]Message, error) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode flash cookie: %w", err)
	}
	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode flash messages: %w", err)
	}
	return messages, nil
}

// NewStore creates the store named by storeType ("cookie" or "redis").
func NewStore(storeType string, client *redis.Client, ttl time.Duration) (Store, error) {
	switch storeType {
	case "", "cookie":
		return NewCookieStore(), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis flash store requires a client")
		}
		return NewRedisStore(client, ttl), nil
	default:
		return nil, fmt.Errorf("unsupported flash store type: %q", storeType)
	}
}
