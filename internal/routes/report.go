package routes

import (
	"github.com/labstack/echo/v4"

	"pharma-pos/internal/controllers"
)

func runReportRouter(group *echo.Group, reportCtrl *controllers.ReportController) {
	group.GET("/reports/stock", reportCtrl.StockReport)
}
