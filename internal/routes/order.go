package routes

import (
	"github.com/labstack/echo/v4"

	"pharma-pos/internal/controllers"
)

func runOrderRouter(group *echo.Group, orderCtrl *controllers.OrderController) {
	orderGroup := group.Group("/orders")
	{
		orderGroup.GET("", orderCtrl.GetOrders)
		orderGroup.POST("/offline", orderCtrl.CreateOfflineOrder)
		orderGroup.POST("/:grabOrderId/accept", orderCtrl.Accept)
		orderGroup.POST("/:grabOrderId/reject", orderCtrl.Reject)
		orderGroup.POST("/:grabOrderId/ready", orderCtrl.MarkReady)
		orderGroup.GET("/:grabOrderId/cancelable", orderCtrl.CheckCancellable)
		orderGroup.POST("/:grabOrderId/cancel", orderCtrl.Cancel)
	}
}
