package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/api/middleware"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/api/responses"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/api/validators"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/cart"
	pkgerrors "github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/errors"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/logger"
)

type cartView struct {
	Items     []cartLineView  `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

type cartLineView struct {
	cart.Item
	LineTotal decimal.Decimal `json:"line_total"`
}

func newCartView(store *cart.Store) cartView {
	items := store.Items()
	lines := make([]cartLineView, 0, len(items))
	for _, item := range items {
		lines = append(lines, cartLineView{Item: item, LineTotal: item.LineTotal()})
	}
	return cartView{
		Items:     lines,
		Total:     store.TotalPrice(),
		ItemCount: store.ItemCount(),
	}
}

func sessionStore(r *http.Request, manager *cart.Manager) (*cart.Store, error) {
	if manager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable")
	}
	sessionID := middleware.CartSessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session header is required")
	}
	store, err := manager.Get(sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart session")
	}
	return store, nil
}

// GetCart returns the session's cart contents and totals.
func GetCart(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}

type addCartItemRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	Name          string          `json:"name" validate:"required"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url,omitempty"`
	Quantity      int             `json:"quantity"`
	SelectedSize  string          `json:"selected_size,omitempty"`
	SelectedColor string          `json:"selected_color,omitempty"`
}

// AddCartItem adds a product to the session's cart, merging with an existing
// line when the product+size+color combination matches.
func AddCartItem(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Price.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative"))
			return
		}

		store.AddItem(cart.Entry{
			Product: cart.ProductSnapshot{
				ID:       strings.TrimSpace(payload.ProductID),
				Name:     strings.TrimSpace(payload.Name),
				Price:    payload.Price,
				ImageURL: payload.ImageURL,
			},
			Quantity:      payload.Quantity,
			SelectedSize:  payload.SelectedSize,
			SelectedColor: payload.SelectedColor,
		})
		responses.WriteSuccess(w, newCartView(store))
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem replaces the quantity on a cart line. A quantity of zero or
// below removes the line.
func UpdateCartItem(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.UpdateQuantity(lineID, payload.Quantity)
		responses.WriteSuccess(w, newCartView(store))
	}
}

// RemoveCartItem deletes a cart line. Unknown line ids are silent no-ops.
func RemoveCartItem(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		store.RemoveItem(lineID)
		responses.WriteSuccess(w, newCartView(store))
	}
}

// ClearCart empties the session's cart.
func ClearCart(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear()
		responses.WriteSuccess(w, newCartView(store))
	}
}
