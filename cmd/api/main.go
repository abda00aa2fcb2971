package main

import (
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/app"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/bootstrap"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/config"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"

	"github.com/gin-gonic/gin"
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

	r := gin.Default()

	if err := app.BuildApp(r, cfg); err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	auditLogger := bootstrap.NewZapAuditLogger(logger)
	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		auditLogger,
	)
}
