package db

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := errors.New(`duplicate key value violates unique constraint "idx_orders_order_number"`)
	sqliteErr := errors.New("UNIQUE constraint failed: orders.order_number")

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil error", err: nil, constraint: "", want: false},
		{name: "postgres message", err: pgErr, constraint: "", want: true},
		{name: "postgres message with constraint", err: pgErr, constraint: "order_number", want: true},
		{name: "sqlite message with column", err: sqliteErr, constraint: "order_number", want: true},
		{name: "wrong constraint", err: pgErr, constraint: "idx_products_sku", want: false},
		{name: "unrelated error", err: errors.New("connection refused"), constraint: "", want: false},
		{name: "wrapped violation", err: fmt.Errorf("creating order: %w", sqliteErr), constraint: "order_number", want: true},
	}

	for _, tt := range tests {
		if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
			t.Errorf("%s: IsUniqueViolation = %v, want %v", tt.name, got, tt.want)
		}
	}
}
