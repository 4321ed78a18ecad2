// Package session is the authentication gate: an opaque token in an HTTP-only
// cookie maps to a server-side session record with a fixed time-to-live. The
// record store is pluggable — an in-process map by default, Redis when
// instances need to share sessions.
package session

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ais-booking-backend/utils"
)

// ErrNotFound is returned for tokens that are unknown or have expired.
var ErrNotFound = errors.New("session not found")

// CookieName carries the opaque session token.
const CookieName = "session_token"

// ContextUserIDKey is where RequireAdmin stores the authenticated user id.
const ContextUserIDKey = "userId"

// Session is one authenticated admin session.
type Session struct {
	Token     string
	UserID    uint
	ExpiresAt time.Time
}

// Store persists session records. Implementations treat expired records as
// absent.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// Manager issues, resolves, and destroys sessions over a Store.
type Manager struct {
	store  Store
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		ttl:    ttl,
		secure: os.Getenv("SECURE_COOKIES") == "true",
	}
}

// Create starts a session for the user and sets the cookie on the response.
func (m *Manager) Create(c *gin.Context, userID uint) (*Session, error) {
	s := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.store.Save(c.Request.Context(), s); err != nil {
		return nil, err
	}
	c.SetCookie(CookieName, s.Token, int(m.ttl.Seconds()), "/", "", m.secure, true)
	return s, nil
}

// Destroy removes the session record and clears the cookie. It succeeds with
// no active session too.
func (m *Manager) Destroy(c *gin.Context) error {
	token, err := c.Cookie(CookieName)
	if err == nil && token != "" {
		if err := m.store.Delete(c.Request.Context(), token); err != nil {
			return err
		}
	}
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
	return nil
}

// Current resolves the request's session, if any. Non-mutating.
func (m *Manager) Current(c *gin.Context) (*Session, bool) {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return nil, false
	}
	s, err := m.store.Get(c.Request.Context(), token)
	if err != nil {
		return nil, false
	}
	return s, true
}

// RequireAdmin gates administrative routes. An absent, unknown, or expired
// session aborts with 401.
func (m *Manager) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := m.Current(c)
		if !ok {
			utils.RespondWithError(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		c.Set(ContextUserIDKey, s.UserID)
		c.Next()
	}
}
