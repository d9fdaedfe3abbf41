package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/pickzo/pickzo-client/internal/config"
	"github.com/pickzo/pickzo-client/internal/logger"
	"github.com/pickzo/pickzo-client/internal/mockapi"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New("mockapi", cfg.LogLevel)

	srv := mockapi.New(cfg.JWTSecret)
	log.Info("mock storefront API listening", "addr", cfg.MockAddr)
	if err := srv.Listen(cfg.MockAddr); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
