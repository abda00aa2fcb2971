package bank

import (
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	accounts := r.Group("/bank-accounts")
	accounts.Use(middleware.AuthMiddleware())
	{
		accounts.GET("", handler.GetAll)
		accounts.GET("/:id", handler.GetById)
		accounts.POST("", handler.Create)
		accounts.POST("/:id/deposits", handler.Deposit)
		accounts.POST("/:id/withdrawals", handler.Withdraw)
		accounts.GET("/:id/transactions", handler.GetTransactions)
	}
}
