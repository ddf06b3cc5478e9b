package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"pharma-pos/internal/entities"
	"pharma-pos/internal/repositories"
)

// ReportServiceInterface — выгрузка остатков в XLSX для ревизии.
type ReportServiceInterface interface {
	StockReport(ctx context.Context, branchIDs []uint64) (*bytes.Buffer, error)
}

type ReportService struct {
	inventoryRepo repositories.InventoryRepositoryInterface
	branchRepo    repositories.BranchRepositoryInterface
	logger        *zap.Logger
}

func NewReportService(
	inventoryRepo repositories.InventoryRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	logger *zap.Logger,
) ReportServiceInterface {
	return &ReportService{
		inventoryRepo: inventoryRepo,
		branchRepo:    branchRepo,
		logger:        logger,
	}
}

// StockReport формирует книгу с остатками. Пустой список филиалов
// означает "все филиалы".
func (s *ReportService) StockReport(ctx context.Context, branchIDs []uint64) (*bytes.Buffer, error) {
	rows, err := s.inventoryRepo.StockByBranches(ctx, branchIDs)
	if err != nil {
		return nil, err
	}

	branchNames, err := s.branchNames(ctx, rows)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Warn("Ошибка закрытия XLSX-файла", zap.Error(err))
		}
	}()

	const sheet = "Остатки"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания листа отчёта: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"Филиал", "Код товара", "Наименование", "Цена", "Остаток (ат. ед.)"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = file.SetCellStyle(sheet, "A1", "E1", headerStyle)
	}

	for i, row := range rows {
		values := []interface{}{
			branchNames[row.BranchID],
			row.ProductID,
			row.ProductName,
			row.Price,
			row.OpnameStock,
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("ошибка записи XLSX в буфер: %w", err)
	}

	s.logger.Info("Сформирован отчёт по остаткам",
		zap.Int("rows", len(rows)),
		zap.Int("branches", len(branchIDs)),
	)
	return buf, nil
}

func (s *ReportService) branchNames(ctx context.Context, rows []entities.StockRow) (map[uint64]string, error) {
	names := make(map[uint64]string)
	for _, row := range rows {
		if _, ok := names[row.BranchID]; ok {
			continue
		}
		branch, err := s.branchRepo.FindBranch(ctx, row.BranchID)
		if err != nil {
			return nil, err
		}
		names[row.BranchID] = branch.BranchName
	}
	return names, nil
}
