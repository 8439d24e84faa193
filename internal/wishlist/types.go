package wishlist

import (
	"time"

	"github.com/google/uuid"

	product "github.com/mhcottonclothbd/MHCloth-web-sub002/internal/products"
)

// ItemDTO is a single wishlist entry with its product payload.
type ItemDTO struct {
	ID      uuid.UUID          `json:"id"`
	Product product.ProductDTO `json:"product"`
	AddedAt time.Time          `json:"added_at"`
}

// PageDTO is one page of wishlist entries plus the next page cursor.
type PageDTO struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// IDsDTO carries only the liked product identifiers for cheap client lookups.
type IDsDTO struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
}
