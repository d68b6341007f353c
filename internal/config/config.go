package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir        string
	ServerPort     string
	SessionSecret  string
	SessionTimeout time.Duration
	TemplatesGlob  string

	// StoreDriver selects the persistence backend: csv (default), sqlite
	// or postgres.
	StoreDriver string
	DBDSN       string

	AdminUsername string
	AdminPassword string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:       os.Getenv("DATA_DIR"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		StoreDriver:   os.Getenv("STORE_DRIVER"),
		DBDSN:         os.Getenv("DB_DSN"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = "csv"
	}
	cfg.TemplatesGlob = os.Getenv("TEMPLATES_GLOB")
	if cfg.TemplatesGlob == "" {
		cfg.TemplatesGlob = "web/templates/*.html"
	}
	if cfg.StoreDriver == "postgres" && cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
	}

	cfg.SessionTimeout = 30 * time.Minute
	if v := os.Getenv("SESSION_TIMEOUT_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			log.Fatalf("invalid SESSION_TIMEOUT_MINUTES: %q", v)
		}
		cfg.SessionTimeout = time.Duration(minutes) * time.Minute
	}

	return cfg
}
