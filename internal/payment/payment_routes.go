package payment

import (
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb ...*redis.Client) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payments := r.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		if redisClient != nil {
			payments.POST("/single", middleware.Idempotency(redisClient), handler.PaySingle)
			payments.POST("/batch", middleware.Idempotency(redisClient), handler.PayBatch)
		} else {
			payments.POST("/single", handler.PaySingle)
			payments.POST("/batch", handler.PayBatch)
		}
		payments.POST("/:payrollId/cancel", handler.CancelPayment)
	}
}
