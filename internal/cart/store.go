package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Store holds the cart state for one browsing session: an ordered line item
// collection plus totals that are always recomputed from the lines, never
// mutated independently. All methods are safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	items     []Item
	total     decimal.Decimal
	itemCount int
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{total: decimal.Zero}
}

// AddItem inserts the entry, merging by summation when a line with the same
// product+size+color combination already exists. New lines are appended so
// insertion order is preserved. Quantities below 1 are clamped to 1.
func (s *Store) AddItem(entry Entry) Item {
	quantity := entry.Quantity
	if quantity < 1 {
		quantity = 1
	}
	id := LineItemID(entry.Product.ID, entry.SelectedSize, entry.SelectedColor)

	s.mu.Lock()
	defer s.mu.Unlock()

	for idx := range s.items {
		if s.items[idx].ID == id {
			s.items[idx].Quantity += quantity
			s.recompute()
			return s.items[idx]
		}
	}

	item := Item{
		ID:            id,
		Product:       entry.Product,
		Quantity:      quantity,
		SelectedSize:  entry.SelectedSize,
		SelectedColor: entry.SelectedColor,
	}
	s.items = append(s.items, item)
	s.recompute()
	return item
}

// RemoveItem deletes the line matching id. A missing id is a silent no-op.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

// UpdateQuantity replaces the quantity on the matching line. A quantity of
// zero or below removes the line entirely; a missing id is a silent no-op.
func (s *Store) UpdateQuantity(id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(id)
		return
	}
	for idx := range s.items {
		if s.items[idx].ID == id {
			s.items[idx].Quantity = quantity
			s.recompute()
			return
		}
	}
}

// Clear resets the cart to the empty triple unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.total = decimal.Zero
	s.itemCount = 0
}

// ItemByID returns the line matching id, if present.
func (s *Store) ItemByID(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// TotalPrice returns the sum of price * quantity across all lines.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// ItemCount returns the sum of quantities across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCount
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) removeLocked(id string) {
	for idx := range s.items {
		if s.items[idx].ID == id {
			s.items = append(s.items[:idx], s.items[idx+1:]...)
			s.recompute()
			return
		}
	}
}

// recompute rebuilds total and itemCount from the lines. Callers must hold mu.
func (s *Store) recompute() {
	total := decimal.Zero
	count := 0
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
		count += item.Quantity
	}
	s.total = total
	s.itemCount = count
}
