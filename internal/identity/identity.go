// Package identity resolves the caller of a request to an explicit value:
// either an authenticated user or an anonymous session key. Handlers and
// services receive this value instead of digging through cookies.
package identity

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	accessTokenCookie = "accessToken"
	sessionCookie     = "cart_session"

	ctxKey = "identity"
)

// Identity is exactly one of: an authenticated user (UserID > 0) or an
// anonymous session (SessionKey set).
type Identity struct {
	UserID     uint
	SessionKey string
}

func (id Identity) Authenticated() bool { return id.UserID != 0 }

// Key is a stable string for event partitioning and logs.
func (id Identity) Key() string {
	if id.Authenticated() {
		return fmt.Sprintf("user:%d", id.UserID)
	}
	return "session:" + id.SessionKey
}

func Authenticated(userID uint) Identity { return Identity{UserID: userID} }

func Anonymous(sessionKey string) Identity { return Identity{SessionKey: sessionKey} }

// Middleware resolves the caller. A valid accessToken cookie wins; otherwise
// the session cookie is used, issuing a fresh one on first contact so the
// anonymous cart survives across requests.
func Middleware(jwtSecret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID, err := userIDFromCookie(c, jwtSecret); err == nil {
				c.Set(ctxKey, Authenticated(userID))
				return next(c)
			}

			key := sessionKey(c)
			c.Set(ctxKey, Anonymous(key))
			return next(c)
		}
	}
}

// From returns the identity resolved by Middleware. Routes without the
// middleware see a zero value, which services reject.
func From(c echo.Context) Identity {
	if v, ok := c.Get(ctxKey).(Identity); ok {
		return v
	}
	return Identity{}
}

func userIDFromCookie(c echo.Context, jwtSecret []byte) (uint, error) {
	cookie, err := c.Cookie(accessTokenCookie)
	if err != nil || cookie.Value == "" {
		return 0, fmt.Errorf("missing auth cookie")
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	subRaw, ok := claims["sub"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid subject claim")
	}

	return uint(subRaw), nil
}

func sessionKey(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	key := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
	return key
}

// AccessToken issues the signed cookie value for an authenticated user.
func AccessToken(userID uint, jwtSecret []byte, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": float64(userID),
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}
