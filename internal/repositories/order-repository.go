package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"pharma-pos/internal/entities"
	apperrors "pharma-pos/pkg/errors"
)

type OrderFilter struct {
	BranchIDs []uint64
	Status    string
	Limit     uint64
	Offset    uint64
}

type OrderRepositoryInterface interface {
	UpsertFromGrab(ctx context.Context, tx pgx.Tx, branchID uint64, grabOrderID string, rawPayload []byte, scheduledTime null.Time, items []entities.OrderItem) (uint64, error)
	FindByGrabID(ctx context.Context, q Querier, grabOrderID string) (*entities.Order, error)
	UpdateStatusFrom(ctx context.Context, q Querier, grabOrderID string, from []entities.OrderStatus, to entities.OrderStatus) error
	UpdateStatusByGrabID(ctx context.Context, grabOrderID string, status entities.OrderStatus) error
	CreateOffline(ctx context.Context, tx pgx.Tx, branchID uint64, items []entities.OrderItem) (uint64, error)
	GetOrders(ctx context.Context, filter OrderFilter) ([]entities.Order, uint64, error)
}

type OrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) OrderRepositoryInterface {
	return &OrderRepository{storage: storage, logger: logger}
}

// UpsertFromGrab — идемпотентная запись заказа из вебхука, ключ — grab_order_id.
// Повторная доставка того же идентификатора (ретрай или правка заказа на стороне
// Grab) обновляет запись: статус возвращается в INCOMING, сырой payload
// перезаписывается, позиции заменяются целиком (delete + insert), а не сливаются.
func (r *OrderRepository) UpsertFromGrab(ctx context.Context, tx pgx.Tx, branchID uint64, grabOrderID string, rawPayload []byte, scheduledTime null.Time, items []entities.OrderItem) (uint64, error) {
	var orderID uint64
	err := tx.QueryRow(ctx, `SELECT id FROM orders WHERE grab_order_id = $1`, grabOrderID).Scan(&orderID)

	switch {
	case err == nil:
		r.logger.Info("Повторная доставка заказа, обновляем",
			zap.String("grab_order_id", grabOrderID), zap.Uint64("order_id", orderID))

		_, err = tx.Exec(ctx, `
			UPDATE orders
			SET status = $1, grab_payload_raw = $2, scheduled_time = $3, updated_at = NOW()
			WHERE id = $4
		`, entities.StatusIncoming, rawPayload, scheduledTime, orderID)
		if err != nil {
			return 0, fmt.Errorf("ошибка обновления заказа %s: %w", grabOrderID, err)
		}

		if _, err = tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
			return 0, fmt.Errorf("ошибка удаления старых позиций заказа %s: %w", grabOrderID, err)
		}

	case errors.Is(err, pgx.ErrNoRows):
		err = tx.QueryRow(ctx, `
			INSERT INTO orders (branch_id, status, grab_order_id, grab_payload_raw, scheduled_time, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING id
		`, branchID, entities.StatusIncoming, grabOrderID, rawPayload, scheduledTime).Scan(&orderID)
		if err != nil {
			return 0, fmt.Errorf("ошибка вставки заказа %s: %w", grabOrderID, err)
		}

	default:
		return 0, fmt.Errorf("ошибка поиска заказа %s: %w", grabOrderID, err)
	}

	if err := r.insertItems(ctx, tx, orderID, items); err != nil {
		return 0, err
	}
	return orderID, nil
}

func (r *OrderRepository) insertItems(ctx context.Context, tx pgx.Tx, orderID uint64, items []entities.OrderItem) error {
	for _, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity)
			VALUES ($1, $2, $3)
		`, orderID, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("ошибка вставки позиции заказа %d: %w", orderID, err)
		}
	}
	return nil
}

func (r *OrderRepository) FindByGrabID(ctx context.Context, q Querier, grabOrderID string) (*entities.Order, error) {
	if q == nil {
		q = r.storage
	}

	var o entities.Order
	var raw []byte
	err := q.QueryRow(ctx, `
		SELECT id, branch_id, status, grab_order_id, grab_payload_raw, scheduled_time, created_at, updated_at
		FROM orders WHERE grab_order_id = $1
	`, grabOrderID).Scan(&o.ID, &o.BranchID, &o.Status, &o.GrabOrderID, &raw, &o.ScheduledTime, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("заказ %s: %w", grabOrderID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования заказа %s: %w", grabOrderID, err)
	}
	o.GrabPayloadRaw = json.RawMessage(raw)
	return &o, nil
}

// UpdateStatusFrom — CAS-переход статуса: UPDATE применяется только если текущий
// статус входит в from. Параллельные операции над одним заказом сериализуются
// именно здесь: проигравший видит 0 затронутых строк и получает
// ErrInvalidStateTransition, а не повторное списание склада.
func (r *OrderRepository) UpdateStatusFrom(ctx context.Context, q Querier, grabOrderID string, from []entities.OrderStatus, to entities.OrderStatus) error {
	if q == nil {
		q = r.storage
	}

	fromStrs := make([]string, 0, len(from))
	for _, s := range from {
		fromStrs = append(fromStrs, string(s))
	}

	tag, err := q.Exec(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE grab_order_id = $2 AND status = ANY($3)
	`, to, grabOrderID, fromStrs)
	if err != nil {
		return fmt.Errorf("ошибка перехода статуса заказа %s: %w", grabOrderID, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Ноль строк: заказа нет вовсе или он уже в другом статусе.
	var current string
	err = q.QueryRow(ctx, `SELECT status FROM orders WHERE grab_order_id = $1`, grabOrderID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("заказ %s: %w", grabOrderID, apperrors.ErrNotFound)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("заказ %s в статусе %s, переход в %s невозможен: %w",
		grabOrderID, current, to, apperrors.ErrInvalidStateTransition)
}

// UpdateStatusByGrabID — безусловное обновление статуса из вебхука order-status.
func (r *OrderRepository) UpdateStatusByGrabID(ctx context.Context, grabOrderID string, status entities.OrderStatus) error {
	tag, err := r.storage.Exec(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE grab_order_id = $2
	`, status, grabOrderID)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса заказа %s: %w", grabOrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("заказ %s: %w", grabOrderID, apperrors.ErrNotFound)
	}
	return nil
}

// CreateOffline — офлайн-продажа за кассой. Заказ рождается сразу в PREPARING,
// без grab_order_id и сырого payload.
func (r *OrderRepository) CreateOffline(ctx context.Context, tx pgx.Tx, branchID uint64, items []entities.OrderItem) (uint64, error) {
	var orderID uint64
	err := tx.QueryRow(ctx, `
		INSERT INTO orders (branch_id, status, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id
	`, branchID, entities.StatusPreparing).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания офлайн-заказа: %w", err)
	}
	if err := r.insertItems(ctx, tx, orderID, items); err != nil {
		return 0, err
	}
	return orderID, nil
}

func (r *OrderRepository) GetOrders(ctx context.Context, filter OrderFilter) ([]entities.Order, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyFilter := func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(filter.BranchIDs) > 0 {
			b = b.Where(sq.Eq{"o.branch_id": filter.BranchIDs})
		}
		if filter.Status != "" {
			b = b.Where(sq.Eq{"o.status": filter.Status})
		}
		return b
	}

	countBuilder := applyFilter(psql.Select("COUNT(o.id)").From("orders AS o"))
	sqlCount, argsCount, _ := countBuilder.ToSql()

	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Order{}, 0, nil
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}

	builder := applyFilter(
		psql.Select(
			"o.id", "o.branch_id", "o.status", "o.grab_order_id", "o.grab_payload_raw",
			"o.scheduled_time", "o.created_at", "o.updated_at",
			"b.id", "b.branch_name", "b.kota", "b.grab_merchant_id", "b.created_at", "b.updated_at",
		).From("orders AS o").Join("branches b ON b.id = o.branch_id"),
	).OrderBy("o.created_at DESC").Limit(limit).Offset(filter.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]entities.Order, 0, limit)
	for rows.Next() {
		var o entities.Order
		var b entities.Branch
		var raw []byte
		err := rows.Scan(
			&o.ID, &o.BranchID, &o.Status, &o.GrabOrderID, &raw,
			&o.ScheduledTime, &o.CreatedAt, &o.UpdatedAt,
			&b.ID, &b.BranchName, &b.Kota, &b.GrabMerchantID, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования заказа: %w", err)
		}
		o.GrabPayloadRaw = json.RawMessage(raw)
		o.Branch = &b
		orders = append(orders, o)
	}

	return orders, total, rows.Err()
}
