package routes

import (
	"github.com/labstack/echo/v4"

	"pharma-pos/internal/controllers"
	"pharma-pos/pkg/middleware"
)

func runWebhookRouter(api *echo.Group, webhookCtrl *controllers.WebhookController, signatureMW *middleware.SignatureMiddleware) {
	webhookGroup := api.Group("/grab", signatureMW.Verify)
	{
		webhookGroup.POST("/submit-order", webhookCtrl.SubmitOrder)
		webhookGroup.POST("/order-status", webhookCtrl.OrderState)
		webhookGroup.POST("/integration-status", webhookCtrl.IntegrationStatus)
		webhookGroup.POST("/menu-sync-state", webhookCtrl.MenuSyncState)
		webhookGroup.GET("/menu", webhookCtrl.GetMenu)
	}
}
