package invoice

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

	invoices := r.Group("/invoices")
	invoices.Use(middleware.AuthMiddleware())
	{
		invoices.GET("", handler.GetAll)
		invoices.GET("/:id", handler.GetById)
		invoices.POST("", handler.Create)
		invoices.POST("/generate-from-sales", handler.GenerateFromSales)
		if redisClient != nil {
			invoices.POST("/:id/payments", middleware.Idempotency(redisClient), handler.AddPayment)
		} else {
			invoices.POST("/:id/payments", handler.AddPayment)
		}
		invoices.POST("/:id/cancel", handler.Cancel)
	}
}
