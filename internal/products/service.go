package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db/models"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/enums"
	pkgerrors "github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/errors"
)

// Service exposes catalog browse and admin product management operations.
type Service interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU            string
	Name           string
	Description    *string
	Category       enums.ProductCategory
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Sizes          []string
	Colors         []string
	ImageURL       *string
	Stock          int
	Status         enums.ProductStatus
	IsFeatured     bool
	OnSale         bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU            *string
	Name           *string
	Description    *string
	Category       *enums.ProductCategory
	Price          *decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Sizes          *[]string
	Colors         *[]string
	ImageURL       *string
	Stock          *int
	Status         *enums.ProductStatus
	IsFeatured     *bool
	OnSale         *bool
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// GetProduct loads one product by id.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	return NewProductDTO(row), nil
}

// ListProducts returns a filtered catalog page.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if input.Filters.Category != nil && !input.Filters.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category filter")
	}
	if err := validateSort(input.Filters.Sort); err != nil {
		return nil, err
	}
	result, err := s.repo.ListProducts(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}
	return result, nil
}

// CreateProduct validates and inserts a new catalog product.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if strings.TrimSpace(input.SKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	status := input.Status
	if status == "" {
		status = enums.ProductStatusDraft
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	row := &models.Product{
		SKU:            strings.TrimSpace(input.SKU),
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Category:       input.Category,
		Price:          input.Price,
		CompareAtPrice: input.CompareAtPrice,
		Sizes:          pq.StringArray(input.Sizes),
		Colors:         pq.StringArray(input.Colors),
		ImageURL:       input.ImageURL,
		Stock:          input.Stock,
		Status:         status,
		IsFeatured:     input.IsFeatured,
		OnSale:         input.OnSale,
	}

	created, err := s.repo.CreateProduct(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_products_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct applies the provided partial update inside a transaction.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	var updated *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		row, err := txRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return err
		}

		if input.SKU != nil {
			if strings.TrimSpace(*input.SKU) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
			}
			row.SKU = strings.TrimSpace(*input.SKU)
		}
		if input.Name != nil {
			if strings.TrimSpace(*input.Name) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
			}
			row.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			row.Description = input.Description
		}
		if input.Category != nil {
			if !input.Category.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
			}
			row.Category = *input.Category
		}
		if input.Price != nil {
			if input.Price.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
			}
			row.Price = *input.Price
		}
		if input.CompareAtPrice != nil {
			row.CompareAtPrice = input.CompareAtPrice
		}
		if input.Sizes != nil {
			row.Sizes = pq.StringArray(*input.Sizes)
		}
		if input.Colors != nil {
			row.Colors = pq.StringArray(*input.Colors)
		}
		if input.ImageURL != nil {
			row.ImageURL = input.ImageURL
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
			}
			row.Stock = *input.Stock
		}
		if input.Status != nil {
			if !input.Status.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
			}
			row.Status = *input.Status
		}
		if input.IsFeatured != nil {
			row.IsFeatured = *input.IsFeatured
		}
		if input.OnSale != nil {
			row.OnSale = *input.OnSale
		}

		updated, err = txRepo.UpdateProduct(ctx, row)
		return err
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		if db.IsUniqueViolation(err, "idx_products_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes the product. A missing id reports not found.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting product")
	}
	return nil
}

func validateSort(sort string) error {
	switch sort {
	case "", SortNewest, SortPriceAsc, SortPriceDesc:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid sort")
	}
}
