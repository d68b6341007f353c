package handlers

import (
	"go.uber.org/zap"

	"github.com/jcargnielo/designacao-pedidos/internal/auth"
	"github.com/jcargnielo/designacao-pedidos/internal/notify"
	"github.com/jcargnielo/designacao-pedidos/internal/store"
)

// Handlers groups the screen handlers around their dependencies.
type Handlers struct {
	orders store.OrderStore
	users  store.UserStore
	auth   *auth.Service
	notify *notify.Tracker
	logger *zap.Logger
}

func New(orders store.OrderStore, users store.UserStore, authSvc *auth.Service, tracker *notify.Tracker, logger *zap.Logger) *Handlers {
	return &Handlers{
		orders: orders,
		users:  users,
		auth:   authSvc,
		notify: tracker,
		logger: logger,
	}
}
