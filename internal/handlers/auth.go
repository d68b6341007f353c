package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jcargnielo/designacao-pedidos/internal/auth"
	"github.com/jcargnielo/designacao-pedidos/internal/middleware"
	"github.com/jcargnielo/designacao-pedidos/internal/models"
)

func (h *Handlers) ShowLogin(c *gin.Context) {
	msg := ""
	if c.Query("expirada") != "" {
		msg = "Sessão encerrada por inatividade"
	}
	render(c, http.StatusOK, "login.html", gin.H{"error": "", "notice": msg})
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (h *Handlers) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": "Dados inválidos"})
		return
	}

	form.Username = strings.TrimSpace(form.Username)
	user, err := h.auth.VerifyLogin(form.Username, form.Password)
	if err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": "Credenciais inválidas"})
		return
	}

	s := auth.Session{
		Identity: &auth.Identity{
			Username:    user.Username,
			Role:        user.Role,
			DisplayName: user.DisplayName,
		},
	}
	s.Touch(time.Now())
	if err := middleware.SaveSession(c, s); err != nil {
		h.logger.Error("failed to save session", zap.Error(err))
		render(c, http.StatusInternalServerError, "login.html", gin.H{"error": "Erro interno"})
		return
	}

	c.Redirect(http.StatusFound, roleHome(user.Role))
}

func (h *Handlers) Logout(c *gin.Context) {
	_ = middleware.SaveSession(c, auth.Session{})
	c.Redirect(http.StatusFound, "/login")
}

func roleHome(r models.Role) string {
	if r == models.RoleLeader {
		return "/orders"
	}
	return "/my-orders"
}
