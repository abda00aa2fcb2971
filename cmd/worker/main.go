package main

import (
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/app"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/config"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}

	if err := app.RunWorker(cfg); err != nil {
		logger.Fatal("run worker failed", zap.Error(err))
	}
}
