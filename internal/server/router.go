package server

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/jcargnielo/designacao-pedidos/internal/config"
	"github.com/jcargnielo/designacao-pedidos/internal/handlers"
	"github.com/jcargnielo/designacao-pedidos/internal/middleware"
	"github.com/jcargnielo/designacao-pedidos/internal/models"
)

// statusColors paints the order cards, one background per status.
var statusColors = map[models.Status]string{
	models.StatusPending:    "#FFCDD2",
	models.StatusInProgress: "#E0E0E0",
	models.StatusPaused:     "#FFF9C4",
	models.StatusDone:       "#C8E6C9",
}

func statusColor(s models.Status) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return "#FFFFFF"
}

// darken shades a #RRGGBB color by 20%, used for the status badge on top of
// the card color.
func darken(hexColor string) string {
	var r, g, b int
	if _, err := fmt.Sscanf(hexColor, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return hexColor
	}
	r = r * 80 / 100
	g = g * 80 / 100
	b = b * 80 / 100
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func NewRouter(cfg *config.Config, h *handlers.Handlers) *gin.Engine {
	r := gin.Default()

	r.SetFuncMap(template.FuncMap{
		"statusColor": statusColor,
		"statusBadge": func(s models.Status) string { return darken(statusColor(s)) },
		"roleLabel":   func(role models.Role) string { return role.Label() },
	})
	r.LoadHTMLGlob(cfg.TemplatesGlob)

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("pedidos_session", store))

	r.Use(middleware.InjectIdentity())

	r.GET("/", h.IndexPage)

	// AUTH
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth(cfg.SessionTimeout))

	// PEDIDOS (líder)
	leader := auth.Group("/")
	leader.Use(middleware.RequireRole(models.RoleLeader))

	leader.GET("/orders", h.ListOrders)
	leader.POST("/orders/new", h.CreateOrder)
	leader.POST("/orders/:id/edit", h.UpdateOrder)
	leader.POST("/orders/:id/delete", h.DeleteOrder)
	leader.GET("/orders/report.xlsx", h.DownloadXLSX)
	leader.GET("/orders/report.csv", h.DownloadCSV)

	// USUÁRIOS (líder)
	leader.GET("/users", h.ListUsers)
	leader.GET("/users/new", h.ShowNewUser)
	leader.POST("/users/new", h.CreateUser)
	leader.GET("/users/:username/edit", h.ShowEditUser)
	leader.POST("/users/:username/edit", h.UpdateUser)
	leader.POST("/users/:username/delete", h.DeleteUser)

	// MEUS PEDIDOS (funcionário)
	employee := auth.Group("/")
	employee.Use(middleware.RequireRole(models.RoleEmployee))

	employee.GET("/my-orders", h.MyOrders)
	employee.POST("/my-orders/:id/:action", h.MyOrderAction)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
