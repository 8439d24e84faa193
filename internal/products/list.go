package product

import (
	"github.com/shopspring/decimal"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/enums"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/pagination"
)

// Sort orders supported by the browse endpoint.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	Category   *enums.ProductCategory `json:"category,omitempty"`
	PriceMin   *decimal.Decimal       `json:"price_min,omitempty"`
	PriceMax   *decimal.Decimal       `json:"price_max,omitempty"`
	Size       string                 `json:"size,omitempty"`
	Color      string                 `json:"color,omitempty"`
	OnSale     *bool                  `json:"on_sale,omitempty"`
	IsFeatured *bool                  `json:"is_featured,omitempty"`
	Query      string                 `json:"q,omitempty"`
	Sort       string                 `json:"sort,omitempty"`
}

// ListProductsInput captures the inputs needed to paginate/filter the catalog.
type ListProductsInput struct {
	Filters       ProductListFilters
	Pagination    pagination.Params
	IncludeHidden bool
}

// ProductListResult is one page of catalog results plus the next page cursor.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}
