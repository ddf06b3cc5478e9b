package routes

import (
	"github.com/labstack/echo/v4"

	"pharma-pos/internal/controllers"
)

func runMenuRouter(group *echo.Group, menuCtrl *controllers.MenuController) {
	group.GET("/menu/categories", menuCtrl.MartCategories)
}
