package app

import (
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/config"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/middleware"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func BuildApp(router *gin.Engine, cfg config.Config) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	return registerModules(router, gormDB, redisClient, cfg)
}
