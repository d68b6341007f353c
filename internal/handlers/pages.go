package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jcargnielo/designacao-pedidos/internal/middleware"
)

func (h *Handlers) IndexPage(c *gin.Context) {
	if id, ok := middleware.CurrentIdentity(c); ok {
		c.Redirect(http.StatusFound, roleHome(id.Role))
		return
	}
	c.Redirect(http.StatusFound, "/login")
}
