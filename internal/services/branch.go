package services

import (
	"context"

	"go.uber.org/zap"

	"pharma-pos/internal/dto"
	"pharma-pos/internal/entities"
	"pharma-pos/internal/repositories"
)

type BranchServiceInterface interface {
	GetBranches(ctx context.Context, kota string, limit, offset uint64) ([]entities.Branch, uint64, error)
	FindBranch(ctx context.Context, id uint64) (*entities.Branch, error)
	CreateBranch(ctx context.Context, branchData dto.CreateBranchDTO) (uint64, error)
	UpdateBranch(ctx context.Context, id uint64, branchData dto.UpdateBranchDTO) error
}

type BranchService struct {
	branchRepo repositories.BranchRepositoryInterface
	logger     *zap.Logger
}

func NewBranchService(branchRepo repositories.BranchRepositoryInterface, logger *zap.Logger) BranchServiceInterface {
	return &BranchService{branchRepo: branchRepo, logger: logger}
}

func (s *BranchService) GetBranches(ctx context.Context, kota string, limit, offset uint64) ([]entities.Branch, uint64, error) {
	return s.branchRepo.GetBranches(ctx, kota, limit, offset)
}

func (s *BranchService) FindBranch(ctx context.Context, id uint64) (*entities.Branch, error) {
	return s.branchRepo.FindBranch(ctx, id)
}

func (s *BranchService) CreateBranch(ctx context.Context, branchData dto.CreateBranchDTO) (uint64, error) {
	id, err := s.branchRepo.CreateBranch(ctx, entities.Branch{
		BranchName:     branchData.BranchName,
		Kota:           branchData.Kota,
		GrabMerchantID: branchData.GrabMerchantID,
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("Создан филиал",
		zap.Uint64("branch_id", id),
		zap.String("branch_name", branchData.BranchName),
	)
	return id, nil
}

func (s *BranchService) UpdateBranch(ctx context.Context, id uint64, branchData dto.UpdateBranchDTO) error {
	return s.branchRepo.UpdateBranch(ctx, id, entities.Branch{
		BranchName: branchData.BranchName,
		Kota:       branchData.Kota,
	})
}
