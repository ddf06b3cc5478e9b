package services

import (
	"context"

	"go.uber.org/zap"

	"pharma-pos/internal/dto"
	"pharma-pos/internal/entities"
	"pharma-pos/internal/repositories"
)

type ProductServiceInterface interface {
	GetProducts(ctx context.Context, search string, limit, offset uint64) ([]entities.Product, uint64, error)
	FindProduct(ctx context.Context, productID string) (*entities.Product, error)
	CreateProduct(ctx context.Context, productData dto.CreateProductDTO) error
	UpdateProduct(ctx context.Context, productID string, productData dto.UpdateProductDTO) error
}

type ProductService struct {
	productRepo repositories.ProductRepositoryInterface
	logger      *zap.Logger
}

func NewProductService(productRepo repositories.ProductRepositoryInterface, logger *zap.Logger) ProductServiceInterface {
	return &ProductService{productRepo: productRepo, logger: logger}
}

func (s *ProductService) GetProducts(ctx context.Context, search string, limit, offset uint64) ([]entities.Product, uint64, error) {
	return s.productRepo.GetProducts(ctx, search, limit, offset)
}

func (s *ProductService) FindProduct(ctx context.Context, productID string) (*entities.Product, error) {
	return s.productRepo.FindProduct(ctx, productID)
}

func (s *ProductService) CreateProduct(ctx context.Context, productData dto.CreateProductDTO) error {
	return s.productRepo.CreateProduct(ctx, entities.Product{
		ProductID:     productData.ProductID,
		ProductName:   productData.ProductName,
		Price:         productData.Price,
		CategoryID:    productData.CategoryID,
		SubCategoryID: productData.SubCategoryID,
	})
}

// UpdateProduct обновляет карточку товара. Не переданные поля берутся
// из текущей записи, частичное обновление не затирает их пустыми значениями.
func (s *ProductService) UpdateProduct(ctx context.Context, productID string, productData dto.UpdateProductDTO) error {
	current, err := s.productRepo.FindProduct(ctx, productID)
	if err != nil {
		return err
	}

	updated := *current
	if productData.ProductName != "" {
		updated.ProductName = productData.ProductName
	}
	if productData.Price != nil {
		updated.Price = *productData.Price
	}
	if productData.CategoryID != "" {
		updated.CategoryID = productData.CategoryID
	}
	if productData.SubCategoryID != "" {
		updated.SubCategoryID = productData.SubCategoryID
	}

	return s.productRepo.UpdateProduct(ctx, productID, updated)
}
