package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MenuSyncLogRepositoryInterface interface {
	InsertLog(ctx context.Context, jobID, partnerMerchantID, status string, errorsJSON []byte) error
}

type MenuSyncLogRepository struct {
	storage *pgxpool.Pool
}

func NewMenuSyncLogRepository(storage *pgxpool.Pool) MenuSyncLogRepositoryInterface {
	return &MenuSyncLogRepository{storage: storage}
}

func (r *MenuSyncLogRepository) InsertLog(ctx context.Context, jobID, partnerMerchantID, status string, errorsJSON []byte) error {
	_, err := r.storage.Exec(ctx, `
		INSERT INTO menu_sync_logs (id, job_id, partner_merchant_id, status, errors, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, uuid.New(), jobID, partnerMerchantID, status, errorsJSON)
	if err != nil {
		return fmt.Errorf("ошибка записи лога синхронизации меню: %w", err)
	}
	return nil
}
