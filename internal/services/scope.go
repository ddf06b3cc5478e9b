package services

import (
	"context"

	"pharma-pos/internal/repositories"
	"pharma-pos/pkg/contextkeys"
	apperrors "pharma-pos/pkg/errors"
)

// Роли Web POS. Токены выпускает внешний сервис авторизации,
// здесь роль только сужает видимость данных.
const (
	RoleSuperadmin    = "superadmin"
	RoleBisnisManager = "bisnis_manager"
	RoleAdminCabang   = "admin_cabang"
)

// BranchScope возвращает филиалы, доступные текущему пользователю.
// nil означает "все филиалы" (superadmin).
func BranchScope(ctx context.Context, branchRepo repositories.BranchRepositoryInterface) ([]uint64, error) {
	role, _ := ctx.Value(contextkeys.UserRoleKey).(string)

	switch role {
	case RoleSuperadmin:
		return nil, nil
	case RoleBisnisManager:
		area, _ := ctx.Value(contextkeys.AreaKey).(string)
		if area == "" {
			return nil, apperrors.ErrForbidden
		}
		ids, err := branchRepo.BranchIDsByKota(ctx, area)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, apperrors.ErrForbidden
		}
		return ids, nil
	case RoleAdminCabang:
		branchID, _ := ctx.Value(contextkeys.BranchIDKey).(int)
		if branchID <= 0 {
			return nil, apperrors.ErrForbidden
		}
		return []uint64{uint64(branchID)}, nil
	}
	return nil, apperrors.ErrForbidden
}
