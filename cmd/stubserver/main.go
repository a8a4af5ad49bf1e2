package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"storefront/internal/config"
	"storefront/internal/stubserver"
	"storefront/pkg/logger"
)

func main() {
	//.envは無ければ無いでよい
	_ = godotenv.Load()

	log := logger.New(logger.Options{Service: "stubserver", Level: os.Getenv("LOG_LEVEL")})

	cfg := config.LoadStub()

	srv := stubserver.New(cfg.JWTSecret)

	//空のカタログでは動作確認しづらいので最低限を入れておく
	srv.SeedProduct("Yoga Mat", decimal.RequireFromString("29.99"), 50)
	srv.SeedProduct("Dumbbells Set", decimal.RequireFromString("89.99"), 30)
	srv.SeedProduct("Protein Powder", decimal.RequireFromString("45.50"), 100)

	addr := ":" + cfg.Port
	log.Info("stub backend listening", "addr", addr)

	if err := srv.Start(addr); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
