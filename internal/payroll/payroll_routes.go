package payroll

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

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("", handler.GetAll)
		payrolls.GET("/:id", handler.GetById)
		if redisClient != nil {
			payrolls.POST("", middleware.Idempotency(redisClient), handler.Generate)
		} else {
			payrolls.POST("", handler.Generate)
		}
		payrolls.POST("/:id/cancel", handler.Cancel)
	}
}
