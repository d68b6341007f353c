package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jcargnielo/designacao-pedidos/internal/auth"
)

// InjectIdentity puts the authenticated identity (if any) on the gin context
// so handlers and templates can reach it without touching the cookie again.
func InjectIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s := SessionFrom(c); s.Authenticated() {
			c.Set("CurrentUser", *s.Identity)
		}
		c.Next()
	}
}

// CurrentIdentity pulls the identity stored by InjectIdentity.
func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get("CurrentUser")
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}
