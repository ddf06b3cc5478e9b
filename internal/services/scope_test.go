package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharma-pos/internal/entities"
	"pharma-pos/pkg/contextkeys"
	apperrors "pharma-pos/pkg/errors"
)

func TestBranchScope(t *testing.T) {
	branchRepo := &fakeBranchRepo{branches: map[uint64]entities.Branch{
		1: {ID: 1, BranchName: "Apotek Pusat", Kota: "Jakarta", GrabMerchantID: "M-1"},
		2: {ID: 2, BranchName: "Apotek Selatan", Kota: "Jakarta", GrabMerchantID: "M-2"},
		3: {ID: 3, BranchName: "Apotek Bandung", Kota: "Bandung", GrabMerchantID: "M-3"},
	}}

	withClaims := func(role, area string, branchID int) context.Context {
		ctx := context.WithValue(context.Background(), contextkeys.UserRoleKey, role)
		ctx = context.WithValue(ctx, contextkeys.AreaKey, area)
		return context.WithValue(ctx, contextkeys.BranchIDKey, branchID)
	}

	t.Run("superadmin видит все филиалы", func(t *testing.T) {
		ids, err := BranchScope(withClaims(RoleSuperadmin, "", 0), branchRepo)
		require.NoError(t, err)
		assert.Nil(t, ids)
	})

	t.Run("bisnis_manager ограничен городом", func(t *testing.T) {
		ids, err := BranchScope(withClaims(RoleBisnisManager, "Jakarta", 0), branchRepo)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint64{1, 2}, ids)
	})

	t.Run("bisnis_manager без города", func(t *testing.T) {
		_, err := BranchScope(withClaims(RoleBisnisManager, "", 0), branchRepo)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("admin_cabang ограничен своим филиалом", func(t *testing.T) {
		ids, err := BranchScope(withClaims(RoleAdminCabang, "", 3), branchRepo)
		require.NoError(t, err)
		assert.Equal(t, []uint64{3}, ids)
	})

	t.Run("admin_cabang без филиала", func(t *testing.T) {
		_, err := BranchScope(withClaims(RoleAdminCabang, "", 0), branchRepo)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("неизвестная роль", func(t *testing.T) {
		_, err := BranchScope(withClaims("kasir", "", 1), branchRepo)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("без claims в контексте", func(t *testing.T) {
		_, err := BranchScope(context.Background(), branchRepo)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}
