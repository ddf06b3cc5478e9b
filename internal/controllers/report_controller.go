package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pharma-pos/internal/repositories"
	"pharma-pos/internal/services"
	"pharma-pos/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	branchRepo    repositories.BranchRepositoryInterface
	logger        *zap.Logger
}

func NewReportController(
	reportService services.ReportServiceInterface,
	branchRepo repositories.BranchRepositoryInterface,
	logger *zap.Logger,
) *ReportController {
	return &ReportController{
		reportService: reportService,
		branchRepo:    branchRepo,
		logger:        logger,
	}
}

// StockReport — выгрузка остатков в XLSX. Видимость филиалов
// ограничивается ролью так же, как в списке заказов.
func (c *ReportController) StockReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	branchIDs, err := services.BranchScope(reqCtx, c.branchRepo)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	buf, err := c.reportService.StockReport(reqCtx, branchIDs)
	if err != nil {
		c.logger.Error("Ошибка формирования отчёта по остаткам", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filename := "stock-report-" + time.Now().Format("2006-01-02") + ".xlsx"
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
