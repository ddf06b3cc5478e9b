package routes

import (
	"github.com/labstack/echo/v4"

	"pharma-pos/internal/controllers"
)

func runBranchRouter(group *echo.Group, branchCtrl *controllers.BranchController) {
	group.GET("/branches", branchCtrl.GetBranches)
	group.GET("/branches/:id", branchCtrl.FindBranch)
	group.POST("/branches", branchCtrl.CreateBranch)
	group.PUT("/branches/:id", branchCtrl.UpdateBranch)
}
