package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db/models"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/pagination"
)

// CheckoutItemInput is one cart line translated into the order request schema.
type CheckoutItemInput struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Size      *string         `json:"size,omitempty"`
	Color     *string         `json:"color,omitempty"`
}

// CheckoutInput captures a checkout submission.
type CheckoutInput struct {
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   *string             `json:"customer_email,omitempty"`
	ShippingAddress *string             `json:"shipping_address,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	UserID          *uuid.UUID          `json:"-"`
	Items           []CheckoutItemInput `json:"items"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
}

// OrderLineItemDTO is the line item payload returned to clients.
type OrderLineItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Size      *string         `json:"size,omitempty"`
	Color     *string         `json:"color,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID              uuid.UUID          `json:"id"`
	OrderNumber     int64              `json:"order_number"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   *string            `json:"customer_email,omitempty"`
	ShippingAddress *string            `json:"shipping_address,omitempty"`
	Status          string             `json:"status"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	Notes           *string            `json:"notes,omitempty"`
	Items           []OrderLineItemDTO `json:"items"`
	CancelledAt     *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ListOrdersInput captures the admin order list filters.
type ListOrdersInput struct {
	Status     string
	Pagination pagination.Params
}

// OrderListResult is one page of orders plus the next page cursor.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// NewOrderDTO builds an order payload from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		ShippingAddress: order.ShippingAddress,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		Notes:           order.Notes,
		CancelledAt:     order.CancelledAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	dto.Items = make([]OrderLineItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderLineItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
			LineTotal: item.LineTotal,
		})
	}
	return dto
}
