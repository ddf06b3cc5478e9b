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

// InventoryRepositoryInterface — леджер остатков. IncreaseStock и DecreaseStock —
// единственные санкционированные мутаторы opname_stock: офлайн-продажи, приёмка
// и любые пакетные обновления обязаны проходить через них, иначе инвариант
// "остаток не уходит в минус" никто не гарантирует.
type InventoryRepositoryInterface interface {
	IncreaseStock(ctx context.Context, q Querier, branchID uint64, productID string, qty int64) error
	DecreaseStock(ctx context.Context, q Querier, branchID uint64, productID string, qty int64) error
	StockByBranch(ctx context.Context, branchID uint64) ([]entities.StockRow, error)
	StockByBranches(ctx context.Context, branchIDs []uint64) ([]entities.StockRow, error)
	UpsertEntry(ctx context.Context, branchID uint64, productID string, qty int64) error
}

type InventoryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewInventoryRepository(storage *pgxpool.Pool, logger *zap.Logger) InventoryRepositoryInterface {
	return &InventoryRepository{storage: storage, logger: logger}
}

func (r *InventoryRepository) querier(q Querier) Querier {
	if q != nil {
		return q
	}
	return r.storage
}

// DecreaseStock атомарно списывает qty атомарных единиц.
// Условный UPDATE c "opname_stock >= qty" выполняется в БД одной операцией,
// поэтому параллельные списания по одной паре (branch, product) не могут
// увести остаток в минус.
func (r *InventoryRepository) DecreaseStock(ctx context.Context, q Querier, branchID uint64, productID string, qty int64) error {
	if qty < 0 {
		return apperrors.NewInvalidInputError("количество для списания не может быть отрицательным: %d", qty)
	}
	querier := r.querier(q)

	tag, err := querier.Exec(ctx, `
		UPDATE inventories
		SET opname_stock = opname_stock - $3, updated_at = NOW()
		WHERE branch_id = $1 AND product_id = $2 AND opname_stock >= $3
	`, branchID, productID, qty)
	if err != nil {
		return fmt.Errorf("ошибка списания остатка: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Ноль строк: либо пары (branch, product) нет, либо остатка не хватает.
	var current int64
	err = querier.QueryRow(ctx,
		`SELECT opname_stock FROM inventories WHERE branch_id = $1 AND product_id = $2`,
		branchID, productID,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("товар %s в филиале %d: %w", productID, branchID, apperrors.ErrNotFound)
	}
	if err != nil {
		return err
	}

	r.logger.Warn("Недостаточно остатка для списания",
		zap.Uint64("branch_id", branchID),
		zap.String("product_id", productID),
		zap.Int64("requested", qty),
		zap.Int64("available", current),
	)
	return fmt.Errorf("товар %s: запрошено %d, в наличии %d: %w",
		productID, qty, current, apperrors.ErrInsufficientStock)
}

// IncreaseStock атомарно возвращает qty атомарных единиц на остаток.
func (r *InventoryRepository) IncreaseStock(ctx context.Context, q Querier, branchID uint64, productID string, qty int64) error {
	if qty < 0 {
		return apperrors.NewInvalidInputError("количество для возврата не может быть отрицательным: %d", qty)
	}
	querier := r.querier(q)

	tag, err := querier.Exec(ctx, `
		UPDATE inventories
		SET opname_stock = opname_stock + $3, updated_at = NOW()
		WHERE branch_id = $1 AND product_id = $2
	`, branchID, productID, qty)
	if err != nil {
		return fmt.Errorf("ошибка возврата остатка: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("товар %s в филиале %d: %w", productID, branchID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *InventoryRepository) StockByBranch(ctx context.Context, branchID uint64) ([]entities.StockRow, error) {
	return r.StockByBranches(ctx, []uint64{branchID})
}

func (r *InventoryRepository) StockByBranches(ctx context.Context, branchIDs []uint64) ([]entities.StockRow, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select("i.branch_id", "i.product_id", "p.product_name", "p.price", "p.category_id", "p.sub_category_id", "i.opname_stock").
		From("inventories AS i").
		Join("products p ON p.product_id = i.product_id").
		OrderBy("i.branch_id", "p.product_name")
	if len(branchIDs) > 0 {
		builder = builder.Where(sq.Eq{"i.branch_id": branchIDs})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]entities.StockRow, 0)
	for rows.Next() {
		var row entities.StockRow
		if err := rows.Scan(&row.BranchID, &row.ProductID, &row.ProductName, &row.Price, &row.CategoryID, &row.SubCategoryID, &row.OpnameStock); err != nil {
			return nil, fmt.Errorf("ошибка сканирования stock row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// UpsertEntry заводит строку остатка (новый товар в филиале).
// Существующую строку не трогает: изменение количества — только через леджер.
func (r *InventoryRepository) UpsertEntry(ctx context.Context, branchID uint64, productID string, qty int64) error {
	if qty < 0 {
		return apperrors.NewInvalidInputError("начальный остаток не может быть отрицательным: %d", qty)
	}
	_, err := r.storage.Exec(ctx, `
		INSERT INTO inventories (branch_id, product_id, opname_stock, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (branch_id, product_id) DO NOTHING
	`, branchID, productID, qty)
	return err
}
