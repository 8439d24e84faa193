package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db/models"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/enums"
	pkgerrors "github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/errors"
)

type stubOrderReader struct {
	orders []models.Order
	err    error
}

func (s *stubOrderReader) ListOrdersSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Order
	for _, o := range s.orders {
		if !o.CreatedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

func makeOrder(created time.Time, status enums.OrderStatus, total int64, items ...models.OrderLineItem) models.Order {
	return models.Order{
		ID:           uuid.New(),
		CustomerName: "Customer",
		Status:       status,
		TotalAmount:  decimal.NewFromInt(total),
		Items:        items,
		CreatedAt:    created,
	}
}

func lineItem(productID uuid.UUID, name string, qty int, unitPrice int64) models.OrderLineItem {
	price := decimal.NewFromInt(unitPrice)
	return models.OrderLineItem{
		ID:        uuid.New(),
		ProductID: productID,
		Name:      name,
		UnitPrice: price,
		Quantity:  qty,
		LineTotal: price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func newFixedClockService(t *testing.T, reader orderReader, now time.Time) Service {
	t.Helper()
	svc, err := NewService(reader)
	require.NoError(t, err)
	svc.(*service).now = func() time.Time { return now }
	return svc
}

func TestSummarizeBucketsByDay(t *testing.T) {
	now := time.Date(2026, 6, 10, 15, 0, 0, 0, time.UTC)
	shirtID := uuid.New()

	reader := &stubOrderReader{orders: []models.Order{
		makeOrder(now.Add(-2*time.Hour), enums.OrderStatusPending, 60, lineItem(shirtID, "Shirt", 2, 30)),
		makeOrder(now.AddDate(0, 0, -1), enums.OrderStatusDelivered, 30, lineItem(shirtID, "Shirt", 1, 30)),
		makeOrder(now.AddDate(0, 0, -1).Add(time.Hour), enums.OrderStatusShipped, 45),
	}}

	svc := newFixedClockService(t, reader, now)
	summary, err := svc.Summarize(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, summary.WindowDays)
	require.Len(t, summary.Days, 7)
	assert.Equal(t, 3, summary.TotalOrders)
	assert.Equal(t, 1, summary.PendingOrders)
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(135)))

	today := summary.Days[6]
	assert.Equal(t, "2026-06-10", today.Date)
	assert.Equal(t, 1, today.OrderCount)
	assert.True(t, today.Revenue.Equal(decimal.NewFromInt(60)))

	yesterday := summary.Days[5]
	assert.Equal(t, "2026-06-09", yesterday.Date)
	assert.Equal(t, 2, yesterday.OrderCount)
	assert.True(t, yesterday.Revenue.Equal(decimal.NewFromInt(75)))

	empty := summary.Days[0]
	assert.Equal(t, 0, empty.OrderCount)
	assert.True(t, empty.Revenue.IsZero())
}

func TestSummarizeExcludesCancelledRevenue(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	shirtID := uuid.New()

	reader := &stubOrderReader{orders: []models.Order{
		makeOrder(now.Add(-time.Hour), enums.OrderStatusCancelled, 500, lineItem(shirtID, "Shirt", 10, 50)),
		makeOrder(now.Add(-2*time.Hour), enums.OrderStatusDelivered, 50, lineItem(shirtID, "Shirt", 1, 50)),
	}}

	svc := newFixedClockService(t, reader, now)
	summary, err := svc.Summarize(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalOrders, "cancelled orders still count toward volume")
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(50)))
	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, 1, summary.TopProducts[0].UnitsSold, "cancelled units excluded")
}

func TestSummarizeRanksTopProducts(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	shirt := uuid.New()
	tee := uuid.New()
	coat := uuid.New()

	reader := &stubOrderReader{orders: []models.Order{
		makeOrder(now.Add(-time.Hour), enums.OrderStatusDelivered, 230,
			lineItem(shirt, "Shirt", 3, 30),
			lineItem(tee, "Tee", 5, 10),
			lineItem(coat, "Coat", 1, 90),
		),
		makeOrder(now.Add(-2*time.Hour), enums.OrderStatusDelivered, 60,
			lineItem(shirt, "Shirt", 2, 30),
		),
	}}

	svc := newFixedClockService(t, reader, now)
	summary, err := svc.Summarize(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, summary.TopProducts, 3)
	assert.Equal(t, "Shirt", summary.TopProducts[0].Name)
	assert.Equal(t, 5, summary.TopProducts[0].UnitsSold)
	assert.True(t, summary.TopProducts[0].Revenue.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "Tee", summary.TopProducts[1].Name)
	assert.Equal(t, "Coat", summary.TopProducts[2].Name)
}

func TestSummarizeClampsWindow(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	svc := newFixedClockService(t, &stubOrderReader{}, now)

	summary, err := svc.Summarize(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultWindowDays, summary.WindowDays)

	summary, err = svc.Summarize(context.Background(), 10000)
	require.NoError(t, err)
	assert.Equal(t, MaxWindowDays, summary.WindowDays)
}

func TestSummarizePropagatesReaderError(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	svc := newFixedClockService(t, &stubOrderReader{err: errors.New("db down")}, now)

	_, err := svc.Summarize(context.Background(), 7)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
