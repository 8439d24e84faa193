package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	sizeSentinel  = "no-size"
	colorSentinel = "no-color"
)

// ProductSnapshot captures the product fields a cart line needs at the moment
// of adding. The cart never re-fetches or syncs live product data.
type ProductSnapshot struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
}

// Entry is the input for adding a product to a cart. Size and color are
// optional variant selectors; empty means the dimension is unset.
type Entry struct {
	Product       ProductSnapshot `json:"product"`
	Quantity      int             `json:"quantity"`
	SelectedSize  string          `json:"selected_size,omitempty"`
	SelectedColor string          `json:"selected_color,omitempty"`
}

// Item is one line in the cart, identified by the product+size+color combination.
type Item struct {
	ID            string          `json:"id"`
	Product       ProductSnapshot `json:"product"`
	Quantity      int             `json:"quantity"`
	SelectedSize  string          `json:"selected_size,omitempty"`
	SelectedColor string          `json:"selected_color,omitempty"`
}

// LineTotal returns price * quantity for this line.
func (i Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineItemID derives the composite line identity from the product id and the
// variant selectors, substituting sentinel tokens for unset dimensions. Two
// entries for the same product differing only in size or color are distinct
// lines; identical combinations always collapse to the same id.
func LineItemID(productID, size, color string) string {
	sizePart := strings.TrimSpace(size)
	if sizePart == "" {
		sizePart = sizeSentinel
	}
	colorPart := strings.TrimSpace(color)
	if colorPart == "" {
		colorPart = colorSentinel
	}
	return fmt.Sprintf("%s-%s-%s", productID, sizePart, colorPart)
}
