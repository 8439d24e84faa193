package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/api/middleware"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/cart"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/logger"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/types"
)

func cartTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newCartManager(t *testing.T) *cart.Manager {
	t.Helper()
	manager, err := cart.NewManager(30 * time.Minute)
	if err != nil {
		t.Fatalf("failed to create cart manager: %v", err)
	}
	return manager
}

func cartRequest(t *testing.T, method, target, sessionID string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req = req.WithContext(middleware.WithCartSessionID(req.Context(), sessionID))
	}
	return req
}

func decodeCartView(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode cart response: %v", err)
	}
	view, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected cart payload %v", envelope.Data)
	}
	return view
}

func TestGetCartRequiresSession(t *testing.T) {
	manager := newCartManager(t)
	rec := httptest.NewRecorder()
	GetCart(manager, cartTestLogger()).ServeHTTP(rec, cartRequest(t, http.MethodGet, "/api/v1/cart", "", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session, got %d", rec.Code)
	}
}

func TestGetCartStartsEmpty(t *testing.T) {
	manager := newCartManager(t)
	rec := httptest.NewRecorder()
	GetCart(manager, cartTestLogger()).ServeHTTP(rec, cartRequest(t, http.MethodGet, "/api/v1/cart", "session-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	view := decodeCartView(t, rec)
	if view["item_count"].(float64) != 0 {
		t.Fatalf("expected empty cart, got %v", view)
	}
}

func TestAddCartItemMergesDuplicateSelections(t *testing.T) {
	manager := newCartManager(t)
	logg := cartTestLogger()
	handler := AddCartItem(manager, logg)

	body := map[string]any{
		"product_id":    "prod-1",
		"name":          "Oxford Shirt",
		"price":         "49.99",
		"quantity":      2,
		"selected_size": "M",
	}

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, cartRequest(t, http.MethodPost, "/api/v1/cart/items", "session-1", body))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on add, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	store, err := manager.Get("session-1")
	if err != nil {
		t.Fatalf("failed to fetch session store: %v", err)
	}
	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("expected merged single line, got %d", len(items))
	}
	if items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4 after merge, got %d", items[0].Quantity)
	}
	if items[0].ID != "prod-1-M-no-color" {
		t.Fatalf("unexpected line id %q", items[0].ID)
	}
	if got := store.TotalPrice().StringFixed(2); got != "199.96" {
		t.Fatalf("expected total 199.96, got %s", got)
	}
}

func TestAddCartItemDistinctVariantsStaySeparate(t *testing.T) {
	manager := newCartManager(t)
	handler := AddCartItem(manager, cartTestLogger())

	for _, size := range []string{"M", "L"} {
		body := map[string]any{
			"product_id":    "prod-1",
			"name":          "Oxford Shirt",
			"price":         "49.99",
			"quantity":      1,
			"selected_size": size,
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, cartRequest(t, http.MethodPost, "/api/v1/cart/items", "session-1", body))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on add, got %d", rec.Code)
		}
	}

	store, _ := manager.Get("session-1")
	if got := len(store.Items()); got != 2 {
		t.Fatalf("expected two distinct lines, got %d", got)
	}
}

func TestUpdateCartItemZeroQuantityRemovesLine(t *testing.T) {
	manager := newCartManager(t)
	store, _ := manager.Get("session-1")
	added := store.AddItem(cart.Entry{
		Product:  cart.ProductSnapshot{ID: "prod-1", Name: "Oxford Shirt"},
		Quantity: 3,
	})

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("itemId", added.ID)
	req := cartRequest(t, http.MethodPatch, "/api/v1/cart/items/"+added.ID, "session-1", map[string]any{"quantity": 0})
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	UpdateCartItem(manager, cartTestLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := len(store.Items()); got != 0 {
		t.Fatalf("expected line removed at zero quantity, got %d lines", got)
	}
}

func TestRemoveCartItemUnknownIDIsNoOp(t *testing.T) {
	manager := newCartManager(t)
	store, _ := manager.Get("session-1")
	store.AddItem(cart.Entry{
		Product:  cart.ProductSnapshot{ID: "prod-1", Name: "Oxford Shirt"},
		Quantity: 1,
	})

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("itemId", "prod-missing-no-size-no-color")
	req := cartRequest(t, http.MethodDelete, "/api/v1/cart/items/prod-missing-no-size-no-color", "session-1", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	RemoveCartItem(manager, cartTestLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := len(store.Items()); got != 1 {
		t.Fatalf("expected untouched cart, got %d lines", got)
	}
}

func TestClearCartEmptiesSession(t *testing.T) {
	manager := newCartManager(t)
	store, _ := manager.Get("session-1")
	store.AddItem(cart.Entry{
		Product:  cart.ProductSnapshot{ID: "prod-1", Name: "Oxford Shirt"},
		Quantity: 5,
	})

	rec := httptest.NewRecorder()
	ClearCart(manager, cartTestLogger()).ServeHTTP(rec, cartRequest(t, http.MethodDelete, "/api/v1/cart", "session-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	view := decodeCartView(t, rec)
	if view["item_count"].(float64) != 0 {
		t.Fatalf("expected empty cart after clear, got %v", view)
	}
	if store.ItemCount() != 0 {
		t.Fatalf("expected store cleared, got %d items", store.ItemCount())
	}
}

func TestCartSessionsAreIsolated(t *testing.T) {
	manager := newCartManager(t)
	handler := AddCartItem(manager, cartTestLogger())

	body := map[string]any{
		"product_id": "prod-1",
		"name":       "Oxford Shirt",
		"price":      "10.00",
		"quantity":   1,
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, cartRequest(t, http.MethodPost, "/api/v1/cart/items", "session-a", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	other, _ := manager.Get("session-b")
	if other.ItemCount() != 0 {
		t.Fatalf("expected session-b untouched, got %d items", other.ItemCount())
	}
}
