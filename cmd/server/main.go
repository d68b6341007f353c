package main

import (
	"fmt"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"

	"github.com/jcargnielo/designacao-pedidos/internal/auth"
	"github.com/jcargnielo/designacao-pedidos/internal/config"
	"github.com/jcargnielo/designacao-pedidos/internal/handlers"
	"github.com/jcargnielo/designacao-pedidos/internal/models"
	"github.com/jcargnielo/designacao-pedidos/internal/notify"
	"github.com/jcargnielo/designacao-pedidos/internal/server"
	"github.com/jcargnielo/designacao-pedidos/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	seed := models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: auth.SHA256Hex(cfg.AdminPassword),
		Role:         models.RoleLeader,
		DisplayName:  "Administrador",
	}

	var (
		orders store.OrderStore
		users  store.UserStore
	)
	switch cfg.StoreDriver {
	case "csv":
		s, err := store.NewCSV(logger, cfg.DataDir, seed)
		if err != nil {
			logger.Fatal("failed to open csv store", zap.Error(err))
		}
		orders, users = s, s
	case "sqlite":
		path := cfg.DBDSN
		if path == "" {
			path = filepath.Join(cfg.DataDir, "pedidos.db")
		}
		s, err := store.NewGorm(logger, sqlite.Open(path), seed)
		if err != nil {
			logger.Fatal("failed to open sqlite store", zap.Error(err))
		}
		orders, users = s, s
	case "postgres":
		s, err := store.NewGorm(logger, postgres.Open(cfg.DBDSN), seed)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		orders, users = s, s
	default:
		logger.Fatal("unknown STORE_DRIVER", zap.String("driver", cfg.StoreDriver))
	}

	h := handlers.New(orders, users, auth.NewService(users, nil), notify.NewTracker(), logger)
	r := server.NewRouter(cfg, h)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
