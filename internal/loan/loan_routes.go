package loan

import (
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	loans := r.Group("/loans")
	loans.Use(middleware.AuthMiddleware())
	{
		loans.GET("", handler.GetAll)
		loans.GET("/:id", handler.GetById)
		loans.POST("", handler.Create)
		loans.POST("/preview-schedule", handler.PreviewSchedule)
	}
}
