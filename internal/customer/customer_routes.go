package customer

import (
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	customers := r.Group("/customers")
	customers.Use(middleware.AuthMiddleware())
	{
		customers.GET("", handler.GetAll)
		customers.GET("/:id", handler.GetById)
		customers.POST("", handler.Create)
		customers.PUT("/:id", handler.Update)
		customers.POST("/:id/credit/increase", handler.IncreaseCredit)
		customers.POST("/:id/credit/decrease", handler.DecreaseCredit)
	}
}
