package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jcargnielo/designacao-pedidos/internal/models"
	"github.com/jcargnielo/designacao-pedidos/internal/store"
)

//
// user management (leader only)
//

func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers()
	if err != nil {
		c.String(http.StatusInternalServerError, "Erro ao carregar usuários")
		return
	}
	render(c, http.StatusOK, "users_list.html", gin.H{
		"users": users,
	})
}

func (h *Handlers) ShowNewUser(c *gin.Context) {
	render(c, http.StatusOK, "users_new.html", gin.H{"error": ""})
}

func (h *Handlers) CreateUser(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	displayName := strings.TrimSpace(c.PostForm("nome_completo"))
	password := c.PostForm("password")
	role := models.Role(c.PostForm("role"))

	if username == "" || displayName == "" || password == "" {
		renderUserError(c, "Preencha todos os campos obrigatórios (*)")
		return
	}
	if !role.Valid() {
		renderUserError(c, "Tipo de usuário inválido")
		return
	}

	if err := h.auth.CreateUser(username, password, role, displayName); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			renderUserError(c, "Nome de usuário já existe")
			return
		}
		renderUserError(c, "Erro ao salvar usuário")
		return
	}

	c.Redirect(http.StatusFound, "/users")
}

func (h *Handlers) ShowEditUser(c *gin.Context) {
	user, err := h.users.FindUser(c.Param("username"))
	if err != nil {
		c.String(http.StatusNotFound, "Usuário não encontrado")
		return
	}
	render(c, http.StatusOK, "users_edit.html", gin.H{
		"user":  user,
		"error": "",
	})
}

func (h *Handlers) UpdateUser(c *gin.Context) {
	username := c.Param("username")
	user, err := h.users.FindUser(username)
	if err != nil {
		c.String(http.StatusNotFound, "Usuário não encontrado")
		return
	}

	displayName := strings.TrimSpace(c.PostForm("nome_completo"))
	newPassword := c.PostForm("password")
	role := models.Role(c.PostForm("role"))

	if displayName == "" {
		renderUserEditError(c, user, "Preencha todos os campos obrigatórios (*)")
		return
	}
	if !role.Valid() {
		renderUserEditError(c, user, "Tipo de usuário inválido")
		return
	}

	if err := h.auth.UpdateUser(username, displayName, role, newPassword); err != nil {
		if errors.Is(err, store.ErrLastLeader) {
			renderUserEditError(c, user, "Não é possível rebaixar o último líder")
			return
		}
		renderUserEditError(c, user, "Erro ao salvar usuário")
		return
	}

	c.Redirect(http.StatusFound, "/users")
}

func (h *Handlers) DeleteUser(c *gin.Context) {
	username := c.Param("username")

	if err := h.auth.DeleteUser(username); err != nil {
		if errors.Is(err, store.ErrLastLeader) {
			if user, ferr := h.users.FindUser(username); ferr == nil {
				renderUserEditError(c, user, "Não é possível remover o último líder")
				return
			}
		}
		c.String(http.StatusNotFound, "Usuário não encontrado")
		return
	}

	c.Redirect(http.StatusFound, "/users")
}

func renderUserError(c *gin.Context, msg string) {
	render(c, http.StatusBadRequest, "users_new.html", gin.H{"error": msg})
}

func renderUserEditError(c *gin.Context, user *models.User, msg string) {
	render(c, http.StatusBadRequest, "users_edit.html", gin.H{
		"user":  user,
		"error": msg,
	})
}
