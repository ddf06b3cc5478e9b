package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pharma-pos/internal/controllers"
	"pharma-pos/internal/integrations/grab"
	"pharma-pos/internal/repositories"
	"pharma-pos/internal/services"
	"pharma-pos/pkg/config"
	"pharma-pos/pkg/eventbus"
	"pharma-pos/pkg/middleware"
	"pharma-pos/pkg/service"
)

// InitRouter собирает весь граф зависимостей и вешает маршруты.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	bus *eventbus.Bus,
	cfg *config.Config,
	logger *zap.Logger,
) {
	logger.Info("InitRouter: Начало создания маршрутов")

	// --- ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger.Named("auth"))
	signatureMW := middleware.NewSignatureMiddleware(cfg.Grab.WebhookSecret, logger.Named("signature"))
	txManager := repositories.NewTxManager(dbConn)
	grabProvider := grab.New(cfg.Grab, logger)

	// --- РЕПОЗИТОРИИ ---
	branchRepo := repositories.NewBranchRepository(dbConn, logger)
	productRepo := repositories.NewProductRepository(dbConn, logger)
	inventoryRepo := repositories.NewInventoryRepository(dbConn, logger)
	orderRepo := repositories.NewOrderRepository(dbConn, logger.Named("order"))
	menuSyncRepo := repositories.NewMenuSyncLogRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- СЕРВИСЫ ---
	webhookService := services.NewWebhookService(txManager, orderRepo, branchRepo, menuSyncRepo, logger.Named("webhook"))
	orderService := services.NewOrderService(
		txManager, orderRepo, inventoryRepo, branchRepo, grabProvider,
		cacheRepo, cfg.Cache.CancelReasonsTTL, logger.Named("order"),
	)
	branchService := services.NewBranchService(branchRepo, logger)
	productService := services.NewProductService(productRepo, logger)
	inventoryService := services.NewInventoryService(inventoryRepo, logger)
	menuService := services.NewMenuService(branchRepo, inventoryRepo, grabProvider, cacheRepo, cfg.Cache.MenuTTL, logger.Named("menu"))
	reportService := services.NewReportService(inventoryRepo, branchRepo, logger)

	// Запись заказа в БД выполняют слушатели шины, вебхук отвечает сразу.
	services.RegisterWebhookListeners(bus, webhookService)

	// --- КОНТРОЛЛЕРЫ ---
	webhookCtrl := controllers.NewWebhookController(webhookService, menuService, bus, logger.Named("webhook"))
	orderCtrl := controllers.NewOrderController(orderService, branchRepo, logger.Named("order"))
	branchCtrl := controllers.NewBranchController(branchService, logger)
	productCtrl := controllers.NewProductController(productService, logger)
	inventoryCtrl := controllers.NewInventoryController(inventoryService, logger)
	menuCtrl := controllers.NewMenuController(menuService, logger)
	reportCtrl := controllers.NewReportController(reportService, branchRepo, logger)

	// --- РОУТЕРЫ ---
	// Вебхуки Grab защищены HMAC-подписью, POS-маршруты — JWT.
	runWebhookRouter(api, webhookCtrl, signatureMW)

	secureGroup := api.Group("", authMW.Auth)
	runOrderRouter(secureGroup, orderCtrl)
	runBranchRouter(secureGroup, branchCtrl)
	runProductRouter(secureGroup, productCtrl)
	runInventoryRouter(secureGroup, inventoryCtrl)
	runMenuRouter(secureGroup, menuCtrl)
	runReportRouter(secureGroup, reportCtrl)

	logger.Info("InitRouter: Создание маршрутов завершено")
}
