package auth

import (
	"time"

	"github.com/jcargnielo/designacao-pedidos/internal/models"
)

// DefaultTimeout is how long a session may sit idle before it is dropped.
const DefaultTimeout = 30 * time.Minute

// Identity is the authenticated user as carried in the session cookie.
type Identity struct {
	Username    string
	Role        models.Role
	DisplayName string
}

// Session is the per-viewer state: either anonymous (nil Identity) or
// authenticated with a last-activity timestamp. The request boundary owns it;
// nothing below the handlers holds session state.
type Session struct {
	Identity     *Identity
	LastActivity time.Time
}

func (s *Session) Authenticated() bool {
	return s.Identity != nil
}

// Touch records activity. Called on every authenticated request and on login.
func (s *Session) Touch(now time.Time) {
	s.LastActivity = now
}

// Expired reports whether the session sat idle longer than timeout. Only
// meaningful for authenticated sessions.
func (s *Session) Expired(now time.Time, timeout time.Duration) bool {
	return s.Authenticated() && now.Sub(s.LastActivity) > timeout
}

// Clear drops the identity and goes back to anonymous.
func (s *Session) Clear() {
	s.Identity = nil
	s.LastActivity = time.Time{}
}
