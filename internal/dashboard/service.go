package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db/models"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/enums"
	pkgerrors "github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/errors"
)

const (
	// DefaultWindowDays is the reporting window when none is requested.
	DefaultWindowDays = 30
	// MaxWindowDays caps how far back a report can reach.
	MaxWindowDays = 365

	topProductLimit = 5
)

type orderReader interface {
	ListOrdersSince(ctx context.Context, since time.Time) ([]models.Order, error)
}

// DayBucket aggregates one calendar day of orders.
type DayBucket struct {
	Date       string          `json:"date"`
	OrderCount int             `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// TopProduct ranks a product by units sold inside the window.
type TopProduct struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitsSold int             `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Summary is the storefront dashboard payload.
type Summary struct {
	WindowDays    int             `json:"window_days"`
	TotalOrders   int             `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PendingOrders int             `json:"pending_orders"`
	Days          []DayBucket     `json:"days"`
	TopProducts   []TopProduct    `json:"top_products"`
}

// Service computes dashboard aggregates over recent orders.
type Service interface {
	Summarize(ctx context.Context, windowDays int) (*Summary, error)
}

type service struct {
	orders orderReader
	now    func() time.Time
}

// NewService builds the dashboard service.
func NewService(orders orderReader) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order reader required")
	}
	return &service{orders: orders, now: time.Now}, nil
}

// Summarize buckets the window's orders by calendar day (UTC) and ranks
// products by units sold. Cancelled orders count toward volume but not revenue.
func (s *service) Summarize(ctx context.Context, windowDays int) (*Summary, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	if windowDays > MaxWindowDays {
		windowDays = MaxWindowDays
	}

	now := s.now().UTC()
	since := now.Truncate(24 * time.Hour).AddDate(0, 0, -(windowDays - 1))

	orders, err := s.orders.ListOrdersSince(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading orders for dashboard")
	}

	buckets := make(map[string]*DayBucket, windowDays)
	for offset := 0; offset < windowDays; offset++ {
		day := since.AddDate(0, 0, offset).Format("2006-01-02")
		buckets[day] = &DayBucket{Date: day, Revenue: decimal.Zero}
	}

	summary := &Summary{
		WindowDays:   windowDays,
		TotalRevenue: decimal.Zero,
	}
	productUnits := map[uuid.UUID]*TopProduct{}

	for idx := range orders {
		order := &orders[idx]
		day := order.CreatedAt.UTC().Format("2006-01-02")
		bucket, ok := buckets[day]
		if !ok {
			continue
		}

		summary.TotalOrders++
		bucket.OrderCount++
		if order.Status == enums.OrderStatusPending {
			summary.PendingOrders++
		}
		if order.Status != enums.OrderStatusCancelled {
			bucket.Revenue = bucket.Revenue.Add(order.TotalAmount)
			summary.TotalRevenue = summary.TotalRevenue.Add(order.TotalAmount)

			for _, item := range order.Items {
				entry, ok := productUnits[item.ProductID]
				if !ok {
					entry = &TopProduct{
						ProductID: item.ProductID,
						Name:      item.Name,
						Revenue:   decimal.Zero,
					}
					productUnits[item.ProductID] = entry
				}
				entry.UnitsSold += item.Quantity
				entry.Revenue = entry.Revenue.Add(item.LineTotal)
			}
		}
	}

	summary.Days = make([]DayBucket, 0, windowDays)
	for offset := 0; offset < windowDays; offset++ {
		day := since.AddDate(0, 0, offset).Format("2006-01-02")
		summary.Days = append(summary.Days, *buckets[day])
	}

	summary.TopProducts = rankTopProducts(productUnits, topProductLimit)
	return summary, nil
}

func rankTopProducts(units map[uuid.UUID]*TopProduct, limit int) []TopProduct {
	ranked := make([]TopProduct, 0, len(units))
	for _, entry := range units {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].UnitsSold != ranked[j].UnitsSold {
			return ranked[i].UnitsSold > ranked[j].UnitsSold
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
