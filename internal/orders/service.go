package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db/models"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/enums"
	pkgerrors "github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/errors"
)

// orderNumberRetries bounds how many times Checkout re-runs its transaction
// after an order number collision.
const orderNumberRetries = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// InventoryAdjuster decrements catalog stock when an order is placed.
type InventoryAdjuster interface {
	Adjust(ctx context.Context, tx *gorm.DB, productID uuid.UUID, delta int) error
}

// Service defines checkout and order lifecycle operations.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*OrderListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	CancelStalePending(ctx context.Context, olderThan time.Time) (int, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	products  productReader
	inventory InventoryAdjuster
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, products productReader, inventory InventoryAdjuster) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory adjuster required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		products:  products,
		inventory: inventory,
	}, nil
}

// Checkout validates the submission against the catalog and records the order
// with its line items in one transaction.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*OrderDTO, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_name is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	ids := make([]uuid.UUID, 0, len(input.Items))
	computedTotal := decimal.Zero
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item product_id is required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
		ids = append(ids, item.ProductID)
		computedTotal = computedTotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if !computedTotal.Equal(input.TotalAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total_amount does not match item totals").
			WithDetails(map[string]string{
				"expected": computedTotal.String(),
				"received": input.TotalAmount.String(),
			})
	}

	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading products for checkout")
	}
	byID := make(map[uuid.UUID]*models.Product, len(catalog))
	for idx := range catalog {
		byID[catalog[idx].ID] = &catalog[idx]
	}

	lines := make([]models.OrderLineItem, 0, len(input.Items))
	for _, item := range input.Items {
		prod, ok := byID[item.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]string{"product_id": item.ProductID.String()})
		}
		if prod.Status != enums.ProductStatusActive {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available").
				WithDetails(map[string]string{"product_id": item.ProductID.String()})
		}
		if !prod.Price.Equal(item.Price) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price does not match catalog price").
				WithDetails(map[string]string{
					"product_id": item.ProductID.String(),
					"submitted":  item.Price.String(),
					"catalog":    prod.Price.String(),
				})
		}
		if prod.Stock < item.Quantity {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
				WithDetails(map[string]string{"product_id": item.ProductID.String()})
		}
		lines = append(lines, models.OrderLineItem{
			ProductID: item.ProductID,
			Name:      prod.Name,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
			LineTotal: item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	var created *models.Order
	persist := func(tx *gorm.DB) error {
		created = nil
		repo := s.repo.WithTx(tx)

		number, err := repo.NextOrderNumber(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocating order number")
		}

		order := &models.Order{
			OrderNumber:     number,
			UserID:          input.UserID,
			CustomerName:    strings.TrimSpace(input.CustomerName),
			CustomerEmail:   input.CustomerEmail,
			ShippingAddress: input.ShippingAddress,
			Status:          enums.OrderStatusPending,
			TotalAmount:     input.TotalAmount,
			Notes:           input.Notes,
			Items:           lines,
		}
		created, err = repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
		}

		for _, item := range input.Items {
			if err := s.inventory.Adjust(ctx, tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		return nil
	}

	// MAX(order_number)+1 is not serialized across transactions. A concurrent
	// checkout can pick the same number and trip the unique index, so retry
	// the whole transaction with a fresh allocation.
	for attempt := 0; ; attempt++ {
		err = s.tx.WithTx(ctx, persist)
		if err == nil || attempt >= orderNumberRetries || !db.IsUniqueViolation(err, "order_number") {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(created), nil
}

// GetOrder loads one order with its line items.
func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return NewOrderDTO(order), nil
}

// ListOrders returns one filtered page of orders.
func (s *service) ListOrders(ctx context.Context, input ListOrdersInput) (*OrderListResult, error) {
	if input.Status != "" {
		if _, err := enums.ParseOrderStatus(input.Status); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
	}
	result, err := s.repo.ListOrders(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return result, nil
}

// UpdateStatus advances the order through its lifecycle, rejecting transitions
// the state machine does not allow.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}

	if order.Status == status {
		return NewOrderDTO(order), nil
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
			WithDetails(map[string]string{
				"from": string(order.Status),
				"to":   string(status),
			})
	}

	var cancelledAt *time.Time
	if status == enums.OrderStatusCancelled {
		now := time.Now().UTC()
		cancelledAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, status, cancelledAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating order status")
	}

	order.Status = status
	order.CancelledAt = cancelledAt
	return NewOrderDTO(order), nil
}

// CancelStalePending cancels pending orders older than the cutoff and returns
// how many were cancelled.
func (s *service) CancelStalePending(ctx context.Context, olderThan time.Time) (int, error) {
	stale, err := s.repo.FindStalePending(ctx, olderThan)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finding stale orders")
	}

	cancelled := 0
	var errs []error
	for _, order := range stale {
		now := time.Now().UTC()
		if err := s.repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled, &now); err != nil {
			errs = append(errs, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancelling stale order"))
			continue
		}
		cancelled++
	}
	return cancelled, multierr.Combine(errs...)
}

type inventoryAdjusterImpl struct{}

// NewInventoryAdjuster exposes the default stock adjustment implementation.
func NewInventoryAdjuster() InventoryAdjuster {
	return inventoryAdjusterImpl{}
}

func (inventoryAdjusterImpl) Adjust(ctx context.Context, tx *gorm.DB, productID uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock adjustment")
	}

	if delta > 0 {
		res := tx.WithContext(ctx).Exec(`
			UPDATE products
			SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, delta, productID)
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "adjust stock")
		}
		return nil
	}

	// Decrements guard against concurrent oversell: the row only updates when
	// enough stock remains, and zero rows updated fails the transaction.
	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, delta, productID, -delta)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "adjust stock")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
			WithDetails(map[string]string{"product_id": productID.String()})
	}
	return nil
}
