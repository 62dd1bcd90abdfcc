package flash

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	cookieName        = "flash"
	pendingContextKey = "flash.pending"
)

// CookieStore keeps messages client side in a base64url encoded JSON cookie.
type CookieStore struct{}

func NewCookieStore() *CookieStore {
	return &CookieStore{}
}

func (s *CookieStore) Add(c echo.Context, message Message) error {
	messages, _ := c.Get(pendingContextKey).([]Message)
	if messages == nil {
		if cookie, err := c.Cookie(cookieName); err == nil {
			// an unreadable cookie is replaced rather than failing the request
			messages, _ = decodeMessages(cookie.Value)
		}
	}
	messages = append(messages, message)

	value, err := encodeMessages(messages)
	if err != nil {
		return err
	}
	c.Set(pendingContextKey, messages)
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *CookieStore) Pop(c echo.Context) ([]Message, error) {
	cookie, err := c.Cookie(cookieName)
	if err != nil {
		return nil, nil
	}

	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return decodeMessages(cookie.Value)
}
