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

const productTable = "products"

type ProductRepositoryInterface interface {
	GetProducts(ctx context.Context, search string, limit, offset uint64) ([]entities.Product, uint64, error)
	FindProduct(ctx context.Context, productID string) (*entities.Product, error)
	CreateProduct(ctx context.Context, product entities.Product) error
	UpdateProduct(ctx context.Context, productID string, product entities.Product) error
}

type ProductRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProductRepository(storage *pgxpool.Pool, logger *zap.Logger) ProductRepositoryInterface {
	return &ProductRepository{storage: storage, logger: logger}
}

func scanProduct(row pgx.Row) (*entities.Product, error) {
	var p entities.Product
	err := row.Scan(&p.ProductID, &p.ProductName, &p.Price, &p.CategoryID, &p.SubCategoryID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) GetProducts(ctx context.Context, search string, limit, offset uint64) ([]entities.Product, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if search != "" {
			return b.Where(sq.ILike{"product_name": "%" + search + "%"})
		}
		return b
	}

	countBuilder := applySearch(psql.Select("COUNT(product_id)").From(productTable))
	sqlCount, argsCount, _ := countBuilder.ToSql()

	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Product{}, 0, nil
	}

	builder := applySearch(
		psql.Select("product_id", "product_name", "price", "category_id", "sub_category_id", "created_at", "updated_at").
			From(productTable),
	).OrderBy("product_name").Limit(limit).Offset(offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]entities.Product, 0, limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *product)
	}

	return products, total, rows.Err()
}

func (r *ProductRepository) FindProduct(ctx context.Context, productID string) (*entities.Product, error) {
	query := `
		SELECT product_id, product_name, price, category_id, sub_category_id, created_at, updated_at
		FROM products WHERE product_id = $1
	`
	return scanProduct(r.storage.QueryRow(ctx, query, productID))
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product entities.Product) error {
	query := `
		INSERT INTO products (product_id, product_name, price, category_id, sub_category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.storage.Exec(ctx, query,
		product.ProductID, product.ProductName, product.Price, product.CategoryID, product.SubCategoryID)
	return err
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, productID string, product entities.Product) error {
	query := `
		UPDATE products
		SET product_name = $1, price = $2, category_id = $3, sub_category_id = $4, updated_at = NOW()
		WHERE product_id = $5
	`
	result, err := r.storage.Exec(ctx, query,
		product.ProductName, product.Price, product.CategoryID, product.SubCategoryID, productID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
