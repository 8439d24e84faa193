package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func snapshot(id string, price int64) ProductSnapshot {
	return ProductSnapshot{
		ID:    id,
		Name:  "product " + id,
		Price: decimal.NewFromInt(price),
	}
}

func requireDerivedFields(t *testing.T, store *Store) {
	t.Helper()
	total := decimal.Zero
	count := 0
	for _, item := range store.Items() {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	require.True(t, store.TotalPrice().Equal(total), "total %s drifted from recomputation %s", store.TotalPrice(), total)
	require.Equal(t, count, store.ItemCount())
}

func TestLineItemID(t *testing.T) {
	require.Equal(t, "p1-no-size-no-color", LineItemID("p1", "", ""))
	require.Equal(t, "p1-M-no-color", LineItemID("p1", "M", ""))
	require.Equal(t, "p1-M-navy", LineItemID("p1", "M", "navy"))
	require.Equal(t, "p1-no-size-navy", LineItemID("p1", "  ", "navy"))
}

func TestAddMergesSameVariantBySummation(t *testing.T) {
	store := NewStore()
	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 2})
	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 3})

	require.Equal(t, 1, store.Len())
	item, ok := store.ItemByID("p1-no-size-no-color")
	require.True(t, ok)
	require.Equal(t, 5, item.Quantity)
	requireDerivedFields(t, store)
}

func TestAddKeepsDistinctVariantsApart(t *testing.T) {
	store := NewStore()
	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 1, SelectedSize: "M"})
	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 1, SelectedSize: "L"})

	require.Equal(t, 2, store.Len())
	_, okM := store.ItemByID("p1-M-no-color")
	_, okL := store.ItemByID("p1-L-no-color")
	require.True(t, okM)
	require.True(t, okL)
	requireDerivedFields(t, store)
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	store := NewStore()
	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 1})
	store.AddItem(Entry{Product: snapshot("p2", 20), Quantity: 1})
	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 4})

	items := store.Items()
	require.Len(t, items, 2)
	require.Equal(t, "p1-no-size-no-color", items[0].ID)
	require.Equal(t, "p2-no-size-no-color", items[1].ID)
	require.Equal(t, 5, items[0].Quantity)
}

func TestAddClampsQuantityToOne(t *testing.T) {
	store := NewStore()
	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 0})
	item, ok := store.ItemByID("p1-no-size-no-color")
	require.True(t, ok)
	require.Equal(t, 1, item.Quantity)

	store.AddItem(Entry{Product: snapshot("p2", 5), Quantity: -3})
	item, ok = store.ItemByID("p2-no-size-no-color")
	require.True(t, ok)
	require.Equal(t, 1, item.Quantity)
	requireDerivedFields(t, store)
}

func TestUpdateQuantityFloorClampRemoves(t *testing.T) {
	store := NewStore()
	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 2})
	store.AddItem(Entry{Product: snapshot("p2", 20), Quantity: 1})

	store.UpdateQuantity("p1-no-size-no-color", 0)
	_, ok := store.ItemByID("p1-no-size-no-color")
	require.False(t, ok)
	requireDerivedFields(t, store)

	store.UpdateQuantity("p2-no-size-no-color", -5)
	_, ok = store.ItemByID("p2-no-size-no-color")
	require.False(t, ok)
	require.Equal(t, 0, store.ItemCount())
	require.True(t, store.TotalPrice().IsZero())
}

func TestUpdateQuantityReplacesOnlyQuantity(t *testing.T) {
	store := NewStore()
	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 2, SelectedSize: "M", SelectedColor: "navy"})

	store.UpdateQuantity("p1-M-navy", 7)
	item, ok := store.ItemByID("p1-M-navy")
	require.True(t, ok)
	require.Equal(t, 7, item.Quantity)
	require.Equal(t, "M", item.SelectedSize)
	require.Equal(t, "navy", item.SelectedColor)
	require.True(t, item.Product.Price.Equal(decimal.NewFromInt(10)))
	requireDerivedFields(t, store)
}

func TestMissingIDIsNoOp(t *testing.T) {
	store := NewStore()
	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 2})
	before := store.Items()

	store.RemoveItem("nonexistent")
	store.UpdateQuantity("nonexistent", 3)

	require.Equal(t, before, store.Items())
	require.Equal(t, 2, store.ItemCount())
	require.True(t, store.TotalPrice().Equal(decimal.NewFromInt(20)))
}

func TestClearResetsFully(t *testing.T) {
	store := NewStore()
	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 2, SelectedSize: "M"})
	store.AddItem(Entry{Product: snapshot("p2", 15), Quantity: 3})
	store.UpdateQuantity("p2-no-size-no-color", 1)

	store.Clear()

	require.Empty(t, store.Items())
	require.Equal(t, 0, store.ItemCount())
	require.True(t, store.TotalPrice().IsZero())
	require.Equal(t, 0, store.Len())
}

func TestAddUpdateScenario(t *testing.T) {
	store := NewStore()

	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 2})
	require.Equal(t, 1, store.Len())
	require.Equal(t, 2, store.ItemCount())
	require.True(t, store.TotalPrice().Equal(decimal.NewFromInt(20)))

	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 3})
	require.Equal(t, 1, store.Len())
	item, ok := store.ItemByID("p1-no-size-no-color")
	require.True(t, ok)
	require.Equal(t, 5, item.Quantity)
	require.Equal(t, 5, store.ItemCount())
	require.True(t, store.TotalPrice().Equal(decimal.NewFromInt(50)))

	store.UpdateQuantity("p1-no-size-no-color", 0)
	require.Empty(t, store.Items())
	require.Equal(t, 0, store.ItemCount())
	require.True(t, store.TotalPrice().IsZero())
}

func TestRemoveItem(t *testing.T) {
	store := NewStore()
	store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 2})
	store.AddItem(Entry{Product: snapshot("p2", 4), Quantity: 1})

	store.RemoveItem("p1-no-size-no-color")

	require.Equal(t, 1, store.Len())
	_, ok := store.ItemByID("p1-no-size-no-color")
	require.False(t, ok)
	requireDerivedFields(t, store)
}

func TestDerivedFieldsAcrossOperationSequences(t *testing.T) {
	store := NewStore()
	ops := []func(){
		func() { store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 2, SelectedSize: "S"}) },
		func() { store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 1, SelectedSize: "M"}) },
		func() { store.AddItem(Entry{Product: snapshot("p2", 25), Quantity: 3, SelectedColor: "black"}) },
		func() { store.UpdateQuantity("p1-S-no-color", 6) },
		func() { store.RemoveItem("p1-M-no-color") },
		func() { store.AddItem(Entry{Product: snapshot("p1", 10), Quantity: 2, SelectedSize: "S"}) },
		func() { store.UpdateQuantity("p2-no-size-black", -1) },
	}
	for _, op := range ops {
		op()
		requireDerivedFields(t, store)
	}
}
