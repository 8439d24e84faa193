package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	product "github.com/mhcottonclothbd/MHCloth-web-sub002/internal/products"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db/models"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/enums"
	pkgerrors "github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/errors"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn := setupOrdersTestDB(t)

	productsTable := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  price NUMERIC NOT NULL,
  compare_at_price NUMERIC,
  sizes TEXT NOT NULL DEFAULT '{}',
  colors TEXT NOT NULL DEFAULT '{}',
  image_url TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'active',
  is_featured INTEGER NOT NULL DEFAULT 0,
  on_sale INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(productsTable).Error)
	require.NoError(t, conn.Exec("DELETE FROM products").Error)
	return conn
}

func newCheckoutService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(conn),
		db.NewFromConn(conn),
		product.NewRepository(conn),
		NewInventoryAdjuster(),
	)
	require.NoError(t, err)
	return svc
}

func seedCatalogProduct(t *testing.T, conn *gorm.DB, name string, price int64, stock int, status enums.ProductStatus) *models.Product {
	t.Helper()
	row := &models.Product{
		ID:       uuid.New(),
		SKU:      "sku-" + uuid.NewString()[:8],
		Name:     name,
		Category: enums.ProductCategoryMens,
		Price:    decimal.NewFromInt(price),
		Sizes:    pq.StringArray{"M"},
		Colors:   pq.StringArray{"black"},
		Stock:    stock,
		Status:   status,
	}
	require.NoError(t, conn.Create(row).Error)
	return row
}

func TestCheckoutCreatesOrderAndDecrementsStock(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	ctx := context.Background()

	shirt := seedCatalogProduct(t, conn, "Oxford Shirt", 30, 10, enums.ProductStatusActive)
	tee := seedCatalogProduct(t, conn, "Plain Tee", 15, 5, enums.ProductStatusActive)

	size := "M"
	order, err := svc.Checkout(ctx, CheckoutInput{
		CustomerName: "Ayesha Rahman",
		Items: []CheckoutItemInput{
			{ProductID: shirt.ID, Quantity: 2, Price: decimal.NewFromInt(30), Size: &size},
			{ProductID: tee.ID, Quantity: 1, Price: decimal.NewFromInt(15)},
		},
		TotalAmount: decimal.NewFromInt(75),
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, int64(1001), order.OrderNumber)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Oxford Shirt", order.Items[0].Name, "name snapshots from catalog")
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(75)))

	var stock int
	require.NoError(t, conn.Raw("SELECT stock FROM products WHERE id = ?", shirt.ID).Scan(&stock).Error)
	assert.Equal(t, 8, stock)
	require.NoError(t, conn.Raw("SELECT stock FROM products WHERE id = ?", tee.ID).Scan(&stock).Error)
	assert.Equal(t, 4, stock)
}

func TestCheckoutAssignsSequentialOrderNumbers(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	ctx := context.Background()

	shirt := seedCatalogProduct(t, conn, "Shirt", 20, 50, enums.ProductStatusActive)

	for want := int64(1001); want <= 1003; want++ {
		order, err := svc.Checkout(ctx, CheckoutInput{
			CustomerName: "Repeat Buyer",
			Items: []CheckoutItemInput{
				{ProductID: shirt.ID, Quantity: 1, Price: decimal.NewFromInt(20)},
			},
			TotalAmount: decimal.NewFromInt(20),
		})
		require.NoError(t, err)
		assert.Equal(t, want, order.OrderNumber)
	}
}

func TestCheckoutValidation(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	ctx := context.Background()

	shirt := seedCatalogProduct(t, conn, "Shirt", 20, 10, enums.ProductStatusActive)

	cases := []struct {
		name  string
		input CheckoutInput
		code  pkgerrors.Code
	}{
		{
			name:  "missing customer name",
			input: CheckoutInput{Items: []CheckoutItemInput{{ProductID: shirt.ID, Quantity: 1, Price: decimal.NewFromInt(20)}}, TotalAmount: decimal.NewFromInt(20)},
			code:  pkgerrors.CodeValidation,
		},
		{
			name:  "empty items",
			input: CheckoutInput{CustomerName: "A", TotalAmount: decimal.Zero},
			code:  pkgerrors.CodeValidation,
		},
		{
			name: "zero quantity",
			input: CheckoutInput{
				CustomerName: "A",
				Items:        []CheckoutItemInput{{ProductID: shirt.ID, Quantity: 0, Price: decimal.NewFromInt(20)}},
				TotalAmount:  decimal.Zero,
			},
			code: pkgerrors.CodeValidation,
		},
		{
			name: "total mismatch",
			input: CheckoutInput{
				CustomerName: "A",
				Items:        []CheckoutItemInput{{ProductID: shirt.ID, Quantity: 1, Price: decimal.NewFromInt(20)}},
				TotalAmount:  decimal.NewFromInt(99),
			},
			code: pkgerrors.CodeValidation,
		},
		{
			name: "unknown product",
			input: CheckoutInput{
				CustomerName: "A",
				Items:        []CheckoutItemInput{{ProductID: uuid.New(), Quantity: 1, Price: decimal.NewFromInt(20)}},
				TotalAmount:  decimal.NewFromInt(20),
			},
			code: pkgerrors.CodeNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Checkout(ctx, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, tc.code, typed.Code())
		})
	}
}

func TestCheckoutRejectsInactiveAndOutOfStock(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	ctx := context.Background()

	draft := seedCatalogProduct(t, conn, "Draft Coat", 100, 10, enums.ProductStatusDraft)
	lowStock := seedCatalogProduct(t, conn, "Low Stock Tee", 10, 1, enums.ProductStatusActive)

	_, err := svc.Checkout(ctx, CheckoutInput{
		CustomerName: "A",
		Items:        []CheckoutItemInput{{ProductID: draft.ID, Quantity: 1, Price: decimal.NewFromInt(100)}},
		TotalAmount:  decimal.NewFromInt(100),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	_, err = svc.Checkout(ctx, CheckoutInput{
		CustomerName: "A",
		Items:        []CheckoutItemInput{{ProductID: lowStock.ID, Quantity: 3, Price: decimal.NewFromInt(10)}},
		TotalAmount:  decimal.NewFromInt(30),
	})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestUpdateStatusEnforcesTransitions(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	ctx := context.Background()

	order := seedOrder(t, conn, 1001, enums.OrderStatusPending, time.Now().UTC())

	updated, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, "processing", updated.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, enums.OrderStatusDelivered)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	_, err = svc.UpdateStatus(ctx, order.ID, enums.OrderStatusShipped)
	require.NoError(t, err)
	updated, err = svc.UpdateStatus(ctx, order.ID, enums.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, "delivered", updated.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled)
	require.Error(t, err, "delivered is terminal")
}

func TestUpdateStatusCancelledSetsTimestamp(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	ctx := context.Background()

	order := seedOrder(t, conn, 1001, enums.OrderStatusPending, time.Now().UTC())

	updated, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", updated.Status)
	require.NotNil(t, updated.CancelledAt)
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)

	order := seedOrder(t, conn, 1001, enums.OrderStatusPending, time.Now().UTC())

	updated, err := svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, "pending", updated.Status)
}

func TestCancelStalePending(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	ctx := context.Background()

	old := time.Now().UTC().Add(-20 * 24 * time.Hour)
	seedOrder(t, conn, 1001, enums.OrderStatusPending, old)
	seedOrder(t, conn, 1002, enums.OrderStatusPending, old)
	fresh := seedOrder(t, conn, 1003, enums.OrderStatusPending, time.Now().UTC())

	cancelled, err := svc.CancelStalePending(ctx, time.Now().UTC().Add(-14*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, cancelled)

	reloaded, err := svc.GetOrder(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", reloaded.Status)
}

func TestCheckoutRejectsMismatchedItemPrice(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	ctx := context.Background()

	shirt := seedCatalogProduct(t, conn, "Shirt", 100, 10, enums.ProductStatusActive)

	_, err := svc.Checkout(ctx, CheckoutInput{
		CustomerName: "Bargain Hunter",
		Items: []CheckoutItemInput{
			{ProductID: shirt.ID, Quantity: 1, Price: decimal.NewFromInt(1)},
		},
		TotalAmount: decimal.NewFromInt(1),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var count int64
	require.NoError(t, conn.Raw("SELECT COUNT(*) FROM orders").Scan(&count).Error)
	assert.Zero(t, count, "no order persists on a price mismatch")

	var stock int
	require.NoError(t, conn.Raw("SELECT stock FROM products WHERE id = ?", shirt.ID).Scan(&stock).Error)
	assert.Equal(t, 10, stock)
}

// collidingNumberRepo hands out an already used order number for the first
// few allocations, the way two concurrent checkouts reading MAX(order_number)
// at the same time would.
type collidingNumberRepo struct {
	Repository
	collisions *int
}

func (r *collidingNumberRepo) WithTx(tx *gorm.DB) Repository {
	return &collidingNumberRepo{Repository: r.Repository.WithTx(tx), collisions: r.collisions}
}

func (r *collidingNumberRepo) NextOrderNumber(ctx context.Context) (int64, error) {
	next, err := r.Repository.NextOrderNumber(ctx)
	if err != nil {
		return 0, err
	}
	if *r.collisions > 0 {
		*r.collisions--
		return next - 1, nil
	}
	return next, nil
}

func TestCheckoutRetriesOrderNumberCollision(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	ctx := context.Background()

	collisions := 1
	repo := &collidingNumberRepo{Repository: NewRepository(conn), collisions: &collisions}
	svc, err := NewService(repo, db.NewFromConn(conn), product.NewRepository(conn), NewInventoryAdjuster())
	require.NoError(t, err)

	shirt := seedCatalogProduct(t, conn, "Shirt", 20, 10, enums.ProductStatusActive)
	seedOrder(t, conn, 1001, enums.OrderStatusPending, time.Now().UTC())

	order, err := svc.Checkout(ctx, CheckoutInput{
		CustomerName: "Concurrent Buyer",
		Items: []CheckoutItemInput{
			{ProductID: shirt.ID, Quantity: 1, Price: decimal.NewFromInt(20)},
		},
		TotalAmount: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1002), order.OrderNumber)
	assert.Zero(t, collisions, "first allocation collided")

	var stock int
	require.NoError(t, conn.Raw("SELECT stock FROM products WHERE id = ?", shirt.ID).Scan(&stock).Error)
	assert.Equal(t, 9, stock, "only the successful attempt decrements stock")
}

func TestInventoryAdjusterRejectsOversell(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	ctx := context.Background()

	last := seedCatalogProduct(t, conn, "Last Tee", 10, 1, enums.ProductStatusActive)
	adjuster := NewInventoryAdjuster()

	err := conn.Transaction(func(tx *gorm.DB) error {
		return adjuster.Adjust(ctx, tx, last.ID, -2)
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	var stock int
	require.NoError(t, conn.Raw("SELECT stock FROM products WHERE id = ?", last.ID).Scan(&stock).Error)
	assert.Equal(t, 1, stock, "failed decrement leaves stock untouched")

	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return adjuster.Adjust(ctx, tx, last.ID, -1)
	}))
	require.NoError(t, conn.Raw("SELECT stock FROM products WHERE id = ?", last.ID).Scan(&stock).Error)
	assert.Equal(t, 0, stock)

	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return adjuster.Adjust(ctx, tx, last.ID, 1)
	}))
	require.NoError(t, conn.Raw("SELECT stock FROM products WHERE id = ?", last.ID).Scan(&stock).Error)
	assert.Equal(t, 1, stock, "restock increments without a guard")
}
