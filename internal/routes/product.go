package routes

import (
	"github.com/labstack/echo/v4"

	"pharma-pos/internal/controllers"
)

func runProductRouter(group *echo.Group, productCtrl *controllers.ProductController) {
	group.GET("/products", productCtrl.GetProducts)
	group.GET("/products/:id", productCtrl.FindProduct)
	group.POST("/products", productCtrl.CreateProduct)
	group.PUT("/products/:id", productCtrl.UpdateProduct)
}
