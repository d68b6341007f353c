package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/jcargnielo/designacao-pedidos/internal/auth"
	"github.com/jcargnielo/designacao-pedidos/internal/models"
)

// Session cookie keys.
const (
	KeyUsername     = "username"
	KeyRole         = "role"
	KeyDisplayName  = "display_name"
	KeyLastActivity = "last_activity"
)

// SessionFrom rebuilds the session value from the cookie. Anonymous sessions
// come back with a nil identity.
func SessionFrom(c *gin.Context) auth.Session {
	sess := sessions.Default(c)

	username, _ := sess.Get(KeyUsername).(string)
	if username == "" {
		return auth.Session{}
	}
	roleStr, _ := sess.Get(KeyRole).(string)
	displayName, _ := sess.Get(KeyDisplayName).(string)
	lastUnix, _ := sess.Get(KeyLastActivity).(int64)

	return auth.Session{
		Identity: &auth.Identity{
			Username:    username,
			Role:        models.Role(roleStr),
			DisplayName: displayName,
		},
		LastActivity: time.Unix(lastUnix, 0),
	}
}

// SaveSession writes the session value back into the cookie.
func SaveSession(c *gin.Context, s auth.Session) error {
	sess := sessions.Default(c)
	if !s.Authenticated() {
		sess.Clear()
		return sess.Save()
	}
	sess.Set(KeyUsername, s.Identity.Username)
	sess.Set(KeyRole, string(s.Identity.Role))
	sess.Set(KeyDisplayName, s.Identity.DisplayName)
	sess.Set(KeyLastActivity, s.LastActivity.Unix())
	return sess.Save()
}

// RequireAuth redirects anonymous viewers to the login form and drops
// sessions that sat idle longer than timeout. Active sessions are touched on
// every request.
func RequireAuth(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := SessionFrom(c)
		if !s.Authenticated() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		now := time.Now()
		if s.Expired(now, timeout) {
			s.Clear()
			_ = SaveSession(c, s)
			c.Redirect(http.StatusFound, "/login?expirada=1")
			c.Abort()
			return
		}

		s.Touch(now)
		_ = SaveSession(c, s)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	roleSet := map[models.Role]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		s := SessionFrom(c)
		if !s.Authenticated() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if _, ok := roleSet[s.Identity.Role]; !ok {
			c.String(http.StatusForbidden, "Acesso negado")
			c.Abort()
			return
		}
		c.Next()
	}
}
