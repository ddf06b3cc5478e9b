package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"pharma-pos/internal/entities"
	apperrors "pharma-pos/pkg/errors"
)

const branchTable = "branches"

type BranchRepositoryInterface interface {
	GetBranches(ctx context.Context, kota string, limit, offset uint64) ([]entities.Branch, uint64, error)
	FindBranch(ctx context.Context, id uint64) (*entities.Branch, error)
	FindByGrabMerchantID(ctx context.Context, q Querier, grabMerchantID string) (*entities.Branch, error)
	BranchIDsByKota(ctx context.Context, kota string) ([]uint64, error)
	CreateBranch(ctx context.Context, branch entities.Branch) (uint64, error)
	UpdateBranch(ctx context.Context, id uint64, branch entities.Branch) error
}

type BranchRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewBranchRepository(storage *pgxpool.Pool, logger *zap.Logger) BranchRepositoryInterface {
	return &BranchRepository{storage: storage, logger: logger}
}

func scanBranch(row pgx.Row) (*entities.Branch, error) {
	var b entities.Branch
	err := row.Scan(&b.ID, &b.BranchName, &b.Kota, &b.GrabMerchantID, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования branch: %w", err)
	}
	return &b, nil
}

func (r *BranchRepository) GetBranches(ctx context.Context, kota string, limit, offset uint64) ([]entities.Branch, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := psql.Select("COUNT(id)").From(branchTable)
	if kota != "" {
		countBuilder = countBuilder.Where(sq.Eq{"kota": kota})
	}
	sqlCount, argsCount, _ := countBuilder.ToSql()

	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Branch{}, 0, nil
	}

	builder := psql.Select("id", "branch_name", "kota", "grab_merchant_id", "created_at", "updated_at").
		From(branchTable).
		OrderBy("kota", "branch_name").
		Limit(limit).
		Offset(offset)
	if kota != "" {
		builder = builder.Where(sq.Eq{"kota": kota})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	branches := make([]entities.Branch, 0, limit)
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, 0, err
		}
		branches = append(branches, *branch)
	}

	return branches, total, rows.Err()
}

func (r *BranchRepository) findOne(ctx context.Context, q Querier, where sq.Eq) (*entities.Branch, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("id", "branch_name", "kota", "grab_merchant_id", "created_at", "updated_at").
		From(branchTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanBranch(q.QueryRow(ctx, query, args...))
}

func (r *BranchRepository) FindBranch(ctx context.Context, id uint64) (*entities.Branch, error) {
	return r.findOne(ctx, r.storage, sq.Eq{"id": id})
}

// FindByGrabMerchantID резолвит partnerMerchantID входящего заказа в наш филиал.
func (r *BranchRepository) FindByGrabMerchantID(ctx context.Context, q Querier, grabMerchantID string) (*entities.Branch, error) {
	if q == nil {
		q = r.storage
	}
	return r.findOne(ctx, q, sq.Eq{"grab_merchant_id": grabMerchantID})
}

func (r *BranchRepository) BranchIDsByKota(ctx context.Context, kota string) ([]uint64, error) {
	rows, err := r.storage.Query(ctx, `SELECT id FROM branches WHERE kota = $1`, kota)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *BranchRepository) CreateBranch(ctx context.Context, branch entities.Branch) (uint64, error) {
	query := `
		INSERT INTO branches (branch_name, kota, grab_merchant_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.storage.QueryRow(ctx, query, branch.BranchName, branch.Kota, branch.GrabMerchantID).Scan(&newID)
	return newID, err
}

func (r *BranchRepository) UpdateBranch(ctx context.Context, id uint64, branch entities.Branch) error {
	query := `
		UPDATE branches
		SET branch_name = $1, kota = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.storage.Exec(ctx, query, branch.BranchName, branch.Kota, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
