package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db/models"
)

// ProductDTO represents the product payload returned to clients.
type ProductDTO struct {
	ID             uuid.UUID        `json:"id"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Description    *string          `json:"description,omitempty"`
	Category       string           `json:"category"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Sizes          []string         `json:"sizes"`
	Colors         []string         `json:"colors"`
	ImageURL       *string          `json:"image_url,omitempty"`
	Stock          int              `json:"stock"`
	Status         string           `json:"status"`
	IsFeatured     bool             `json:"is_featured"`
	OnSale         bool             `json:"on_sale"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:             product.ID,
		SKU:            product.SKU,
		Name:           product.Name,
		Description:    product.Description,
		Category:       string(product.Category),
		Price:          product.Price,
		CompareAtPrice: product.CompareAtPrice,
		Sizes:          append([]string{}, product.Sizes...),
		Colors:         append([]string{}, product.Colors...),
		ImageURL:       product.ImageURL,
		Stock:          product.Stock,
		Status:         string(product.Status),
		IsFeatured:     product.IsFeatured,
		OnSale:         product.OnSale,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}
