package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/api/responses"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/api/validators"
	product "github.com/mhcottonclothbd/MHCloth-web-sub002/internal/products"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/enums"
	pkgerrors "github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/errors"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/logger"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/pagination"
)

// ListProducts serves the public catalog browse endpoint.
func ListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return listProductsHandler(svc, logg, false)
}

// AdminListProducts lists the catalog including hidden listings.
func AdminListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return listProductsHandler(svc, logg, true)
}

func listProductsHandler(svc product.Service, logg *logger.Logger, includeHidden bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, err := parseListProductsQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.IncludeHidden = includeHidden

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetProduct serves a single product by id.
func GetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// AdminCreateProduct handles catalog creation for admin users.
func AdminCreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AdminUpdateProduct applies a partial update to a product.
func AdminUpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// AdminDeleteProduct removes a product from the catalog.
func AdminDeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createProductRequest struct {
	SKU            string   `json:"sku" validate:"required"`
	Name           string   `json:"name" validate:"required"`
	Description    *string  `json:"description,omitempty"`
	Category       string   `json:"category" validate:"required"`
	Price          string   `json:"price" validate:"required"`
	CompareAtPrice *string  `json:"compare_at_price,omitempty"`
	Sizes          []string `json:"sizes,omitempty"`
	Colors         []string `json:"colors,omitempty"`
	ImageURL       *string  `json:"image_url,omitempty"`
	Stock          int      `json:"stock" validate:"min=0"`
	Status         *string  `json:"status,omitempty"`
	IsFeatured     *bool    `json:"is_featured,omitempty"`
	OnSale         *bool    `json:"on_sale,omitempty"`
}

func (r createProductRequest) toCreateInput() (product.CreateProductInput, error) {
	category, err := enums.ParseProductCategory(strings.TrimSpace(r.Category))
	if err != nil {
		return product.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}

	price, err := parsePrice(r.Price, "price")
	if err != nil {
		return product.CreateProductInput{}, err
	}

	var compareAt *decimal.Decimal
	if r.CompareAtPrice != nil {
		parsed, err := parsePrice(*r.CompareAtPrice, "compare_at_price")
		if err != nil {
			return product.CreateProductInput{}, err
		}
		compareAt = &parsed
	}

	var status enums.ProductStatus
	if r.Status != nil {
		parsed, err := enums.ParseProductStatus(strings.TrimSpace(*r.Status))
		if err != nil {
			return product.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		status = parsed
	}

	isFeatured := false
	if r.IsFeatured != nil {
		isFeatured = *r.IsFeatured
	}
	onSale := false
	if r.OnSale != nil {
		onSale = *r.OnSale
	}

	return product.CreateProductInput{
		SKU:            strings.TrimSpace(r.SKU),
		Name:           strings.TrimSpace(r.Name),
		Description:    r.Description,
		Category:       category,
		Price:          price,
		CompareAtPrice: compareAt,
		Sizes:          r.Sizes,
		Colors:         r.Colors,
		ImageURL:       r.ImageURL,
		Stock:          r.Stock,
		Status:         status,
		IsFeatured:     isFeatured,
		OnSale:         onSale,
	}, nil
}

type updateProductRequest struct {
	SKU            *string   `json:"sku,omitempty"`
	Name           *string   `json:"name,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Price          *string   `json:"price,omitempty"`
	CompareAtPrice *string   `json:"compare_at_price,omitempty"`
	Sizes          *[]string `json:"sizes,omitempty"`
	Colors         *[]string `json:"colors,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty"`
	Stock          *int      `json:"stock,omitempty" validate:"omitempty,min=0"`
	Status         *string   `json:"status,omitempty"`
	IsFeatured     *bool     `json:"is_featured,omitempty"`
	OnSale         *bool     `json:"on_sale,omitempty"`
}

func (r updateProductRequest) toUpdateInput() (product.UpdateProductInput, error) {
	input := product.UpdateProductInput{
		SKU:         r.SKU,
		Name:        r.Name,
		Description: r.Description,
		Sizes:       r.Sizes,
		Colors:      r.Colors,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		IsFeatured:  r.IsFeatured,
		OnSale:      r.OnSale,
	}

	if r.Category != nil {
		category, err := enums.ParseProductCategory(strings.TrimSpace(*r.Category))
		if err != nil {
			return product.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}
	if r.Price != nil {
		price, err := parsePrice(*r.Price, "price")
		if err != nil {
			return product.UpdateProductInput{}, err
		}
		input.Price = &price
	}
	if r.CompareAtPrice != nil {
		compareAt, err := parsePrice(*r.CompareAtPrice, "compare_at_price")
		if err != nil {
			return product.UpdateProductInput{}, err
		}
		input.CompareAtPrice = &compareAt
	}
	if r.Status != nil {
		status, err := enums.ParseProductStatus(strings.TrimSpace(*r.Status))
		if err != nil {
			return product.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}

	return input, nil
}

func parseListProductsQuery(r *http.Request) (product.ListProductsInput, error) {
	query := r.URL.Query()

	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
	if err != nil {
		return product.ListProductsInput{}, err
	}

	filters := product.ProductListFilters{
		Size:  strings.TrimSpace(query.Get("size")),
		Color: strings.TrimSpace(query.Get("color")),
		Query: strings.TrimSpace(query.Get("q")),
		Sort:  strings.TrimSpace(query.Get("sort")),
	}

	if raw := strings.TrimSpace(query.Get("category")); raw != "" {
		category, err := enums.ParseProductCategory(raw)
		if err != nil {
			return product.ListProductsInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		filters.Category = &category
	}
	if raw := strings.TrimSpace(query.Get("price_min")); raw != "" {
		value, err := parsePrice(raw, "price_min")
		if err != nil {
			return product.ListProductsInput{}, err
		}
		filters.PriceMin = &value
	}
	if raw := strings.TrimSpace(query.Get("price_max")); raw != "" {
		value, err := parsePrice(raw, "price_max")
		if err != nil {
			return product.ListProductsInput{}, err
		}
		filters.PriceMax = &value
	}

	onSale, err := validators.ParseQueryBool(r, "on_sale")
	if err != nil {
		return product.ListProductsInput{}, err
	}
	filters.OnSale = onSale

	isFeatured, err := validators.ParseQueryBool(r, "featured")
	if err != nil {
		return product.ListProductsInput{}, err
	}
	filters.IsFeatured = isFeatured

	return product.ListProductsInput{
		Filters: filters,
		Pagination: pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(query.Get("cursor")),
		},
	}, nil
}

func parsePrice(raw, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid decimal value").WithDetails(map[string]any{"field": field})
	}
	if value.IsNegative() {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "value cannot be negative").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}

func parsePathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter is required").WithDetails(map[string]any{"field": param})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identifier").WithDetails(map[string]any{"field": param})
	}
	return id, nil
}
