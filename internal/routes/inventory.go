package routes

import (
	"github.com/labstack/echo/v4"

	"pharma-pos/internal/controllers"
)

func runInventoryRouter(group *echo.Group, inventoryCtrl *controllers.InventoryController) {
	group.GET("/branches/:branchId/stock", inventoryCtrl.GetStock)
	group.POST("/branches/:branchId/stock/adjust", inventoryCtrl.AdjustStock)
}
