package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jcargnielo/designacao-pedidos/internal/export"
	"github.com/jcargnielo/designacao-pedidos/internal/models"
	"github.com/jcargnielo/designacao-pedidos/internal/store"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// filteredOrders resolves the same filter query the listing screen uses, so
// downloads always match what is on screen.
func (h *Handlers) filteredOrders(c *gin.Context) ([]models.Order, error) {
	return h.orders.ListOrders(store.OrderFilter{
		Assignee: strings.TrimSpace(c.Query("funcionario")),
		Status:   models.Status(c.Query("status")),
	})
}

func (h *Handlers) DownloadXLSX(c *gin.Context) {
	orders, err := h.filteredOrders(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "Erro ao carregar pedidos")
		return
	}
	data, err := export.OrdersXLSX(orders)
	if err != nil {
		h.logger.Error("failed to build xlsx report", zap.Error(err))
		c.String(http.StatusInternalServerError, "Erro ao gerar relatório")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="relatorio_pedidos.xlsx"`)
	c.Data(http.StatusOK, xlsxMIME, data)
}

func (h *Handlers) DownloadCSV(c *gin.Context) {
	orders, err := h.filteredOrders(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "Erro ao carregar pedidos")
		return
	}
	data, err := export.OrdersCSV(orders)
	if err != nil {
		h.logger.Error("failed to build csv report", zap.Error(err))
		c.String(http.StatusInternalServerError, "Erro ao gerar relatório")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="relatorio_pedidos.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
