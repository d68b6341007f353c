package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jcargnielo/designacao-pedidos/internal/middleware"
	"github.com/jcargnielo/designacao-pedidos/internal/models"
	"github.com/jcargnielo/designacao-pedidos/internal/store"
)

// flash codes carried on redirects; each maps to an inline message.
var flashMessages = map[string]string{
	"criado":     "Pedido adicionado!",
	"salvo":      "Alterações salvas!",
	"excluido":   "Pedido excluído!",
	"transicao":  "Mudança de status não permitida",
	"acao":       "Ação não permitida",
	"iniciado":   "Pedido iniciado!",
	"pausado":    "Pedido pausado!",
	"finalizado": "Pedido finalizado!",
}

func flash(c *gin.Context) (notice, errMsg string) {
	if m, ok := flashMessages[c.Query("ok")]; ok {
		notice = m
	}
	if m, ok := flashMessages[c.Query("erro")]; ok {
		errMsg = m
	}
	return
}

// employeeNames lists the display names selectable as assignees.
func (h *Handlers) employeeNames() ([]string, error) {
	users, err := h.users.ListUsers()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, u := range users {
		if u.Role == models.RoleEmployee {
			names = append(names, u.DisplayName)
		}
	}
	return names, nil
}

//
// leader screens
//

func (h *Handlers) ListOrders(c *gin.Context) {
	filter := store.OrderFilter{
		Assignee: strings.TrimSpace(c.Query("funcionario")),
		Status:   models.Status(c.Query("status")),
	}

	orders, err := h.orders.ListOrders(filter)
	if err != nil {
		c.String(http.StatusInternalServerError, "Erro ao carregar pedidos")
		return
	}
	employees, err := h.employeeNames()
	if err != nil {
		c.String(http.StatusInternalServerError, "Erro ao carregar usuários")
		return
	}

	notice, errMsg := flash(c)
	render(c, http.StatusOK, "orders_list.html", gin.H{
		"orders":            orders,
		"employees":         employees,
		"statuses":          models.AllStatuses,
		"filterFuncionario": filter.Assignee,
		"filterStatus":      string(filter.Status),
		"notice":            notice,
		"error":             errMsg,
	})
}

func (h *Handlers) CreateOrder(c *gin.Context) {
	number := strings.TrimSpace(c.PostForm("numero"))
	assignee := strings.TrimSpace(c.PostForm("funcionario"))

	if number == "" || !isDigits(number) {
		h.renderOrdersError(c, "Número de pedido inválido")
		return
	}
	employees, err := h.employeeNames()
	if err != nil || !contains(employees, assignee) {
		h.renderOrdersError(c, "Funcionário inválido")
		return
	}

	order, err := h.orders.CreateOrder(number, assignee)
	if err != nil {
		h.renderOrdersError(c, "Erro ao salvar pedido")
		return
	}
	h.notify.Record(order.Number, order.Assignee, time.Now())

	c.Redirect(http.StatusFound, "/orders?ok=criado")
}

func (h *Handlers) UpdateOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "ID de pedido inválido")
		return
	}

	order, err := h.orders.FindOrder(id)
	if err != nil {
		c.String(http.StatusNotFound, "Pedido não encontrado")
		return
	}

	assignee := strings.TrimSpace(c.PostForm("funcionario"))
	status := models.Status(c.PostForm("status"))

	// validate the whole edit before touching the store, so a rejected
	// status change cannot leave a half-applied reassignment behind
	if !order.Status.CanTransition(status) {
		c.Redirect(http.StatusFound, "/orders?erro=transicao")
		return
	}
	reassign := assignee != "" && assignee != order.Assignee
	if reassign {
		employees, err := h.employeeNames()
		if err != nil || !contains(employees, assignee) {
			h.renderOrdersError(c, "Funcionário inválido")
			return
		}
	}

	if reassign {
		if err := h.orders.UpdateAssignee(id, assignee); err != nil {
			c.String(http.StatusNotFound, "Pedido não encontrado")
			return
		}
	}
	if status != order.Status {
		if _, err := h.orders.ApplyStatus(id, status); err != nil {
			if errors.Is(err, models.ErrIllegalTransition) {
				c.Redirect(http.StatusFound, "/orders?erro=transicao")
				return
			}
			c.String(http.StatusNotFound, "Pedido não encontrado")
			return
		}
	}

	c.Redirect(http.StatusFound, "/orders?ok=salvo")
}

func (h *Handlers) DeleteOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "ID de pedido inválido")
		return
	}
	if err := h.orders.DeleteOrder(id); err != nil {
		c.String(http.StatusNotFound, "Pedido não encontrado")
		return
	}
	c.Redirect(http.StatusFound, "/orders?ok=excluido")
}

//
// employee screen
//

func (h *Handlers) MyOrders(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	all, err := h.orders.ListOrders(store.OrderFilter{Assignee: id.DisplayName})
	if err != nil {
		c.String(http.StatusInternalServerError, "Erro ao carregar pedidos")
		return
	}
	var open []models.Order
	for _, o := range all {
		if o.Open() {
			open = append(open, o)
		}
	}

	alert, alertAt := "", ""
	if a, ok := h.notify.ShouldNotify(id.DisplayName); ok {
		alert = "Novo pedido #" + a.Number + " atribuído a você!"
		alertAt = a.At.Format(models.TimeLayout)
		h.notify.MarkNotified()
	}

	notice, errMsg := flash(c)
	render(c, http.StatusOK, "orders_my.html", gin.H{
		"orders":  open,
		"alert":   alert,
		"alertAt": alertAt,
		"notice":  notice,
		"error":   errMsg,
	})
}

// statusActions maps the employee buttons to target statuses.
var statusActions = map[string]struct {
	status models.Status
	ok     string
}{
	"start":  {models.StatusInProgress, "iniciado"},
	"pause":  {models.StatusPaused, "pausado"},
	"finish": {models.StatusDone, "finalizado"},
}

func (h *Handlers) MyOrderAction(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	action, ok := statusActions[c.Param("action")]
	if !ok {
		c.String(http.StatusNotFound, "Ação desconhecida")
		return
	}
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		c.String(http.StatusBadRequest, "ID de pedido inválido")
		return
	}

	order, err := h.orders.FindOrder(orderID)
	if err != nil {
		c.String(http.StatusNotFound, "Pedido não encontrado")
		return
	}
	// employees may only move their own orders
	if order.Assignee != id.DisplayName {
		c.String(http.StatusForbidden, "Acesso negado")
		return
	}

	if _, err := h.orders.ApplyStatus(orderID, action.status); err != nil {
		if errors.Is(err, models.ErrIllegalTransition) {
			c.Redirect(http.StatusFound, "/my-orders?erro=acao")
			return
		}
		c.String(http.StatusNotFound, "Pedido não encontrado")
		return
	}

	c.Redirect(http.StatusFound, "/my-orders?ok="+action.ok)
}

func (h *Handlers) renderOrdersError(c *gin.Context, msg string) {
	orders, _ := h.orders.ListOrders(store.OrderFilter{})
	employees, _ := h.employeeNames()
	render(c, http.StatusBadRequest, "orders_list.html", gin.H{
		"orders":            orders,
		"employees":         employees,
		"statuses":          models.AllStatuses,
		"filterFuncionario": "",
		"filterStatus":      "",
		"error":             msg,
	})
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
