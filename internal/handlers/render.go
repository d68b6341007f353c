package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jcargnielo/designacao-pedidos/internal/middleware"
)

// render wraps c.HTML and hands every template the current identity.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if id, ok := middleware.CurrentIdentity(c); ok {
		data["CurrentUser"] = id
		data["CurrentUsername"] = id.Username
		data["CurrentUserRole"] = id.Role
		data["CurrentDisplayName"] = id.DisplayName
	}

	c.HTML(status, tmpl, data)
}
