package cart_test

import (
	"testing"

	"github.com/andeanlabs/usdc-storefront/internal/cart"
	"github.com/andeanlabs/usdc-storefront/pkg/products"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, price string) products.Product {
	return products.Product{
		ID:        id,
		Name:      "test product",
		PriceUSDC: decimal.RequireFromString(price),
	}
}

func TestAddItem(t *testing.T) {
	t.Run("Repeated Adds Accumulate Into One Line", func(t *testing.T) {
		store := cart.NewStore()
		p := product(1, "9.99")

		store.AddItem(p, 2)
		store.AddItem(p, 3)
		store.AddItem(p, 1)

		lines := store.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, int64(1), lines[0].Product.ID)
		assert.Equal(t, 6, lines[0].Quantity)
		assert.Equal(t, 6, store.TotalItems())
	})

	t.Run("Insertion Order Preserved", func(t *testing.T) {
		store := cart.NewStore()

		store.AddItem(product(3, "1.00"), 1)
		store.AddItem(product(1, "2.00"), 1)
		store.AddItem(product(2, "3.00"), 1)
		store.AddItem(product(1, "2.00"), 1) // increments, does not reorder

		lines := store.Lines()
		require.Len(t, lines, 3)
		assert.Equal(t, int64(3), lines[0].Product.ID)
		assert.Equal(t, int64(1), lines[1].Product.ID)
		assert.Equal(t, int64(2), lines[2].Product.ID)
	})

	t.Run("Invalid Quantity Clamped To One", func(t *testing.T) {
		store := cart.NewStore()

		store.AddItem(product(1, "9.99"), 0)
		store.AddItem(product(2, "9.99"), -5)

		lines := store.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, 1, lines[0].Quantity)
		assert.Equal(t, 1, lines[1].Quantity)
	})
}

func TestUpdateQuantity(t *testing.T) {
	t.Run("Sets Not Increments", func(t *testing.T) {
		store := cart.NewStore()
		store.AddItem(product(1, "9.99"), 2)

		store.UpdateQuantity(1, 5)

		lines := store.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 5, lines[0].Quantity)
	})

	t.Run("Zero Removes The Line", func(t *testing.T) {
		store := cart.NewStore()
		store.AddItem(product(1, "9.99"), 2)

		store.UpdateQuantity(1, 0)

		assert.Empty(t, store.Lines())
		assert.Equal(t, 0, store.TotalItems())
	})

	t.Run("Negative Removes The Line", func(t *testing.T) {
		store := cart.NewStore()
		store.AddItem(product(1, "9.99"), 2)
		store.AddItem(product(2, "1.00"), 1)

		store.UpdateQuantity(1, -3)

		lines := store.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, int64(2), lines[0].Product.ID)
		assert.Equal(t, 1, store.TotalItems())
	})

	t.Run("Unknown Product Is A No-Op", func(t *testing.T) {
		store := cart.NewStore()
		store.AddItem(product(1, "9.99"), 2)

		store.UpdateQuantity(42, 7)

		lines := store.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
	})
}

func TestRemoveItem(t *testing.T) {
	store := cart.NewStore()
	store.AddItem(product(1, "9.99"), 2)

	store.RemoveItem(1)
	store.RemoveItem(1) // no-op

	assert.Empty(t, store.Lines())
}

func TestClear(t *testing.T) {
	store := cart.NewStore()
	store.AddItem(product(1, "9.99"), 2)
	store.AddItem(product(2, "0.01"), 1)

	store.Clear()

	assert.Empty(t, store.Lines())
	assert.Equal(t, 0, store.TotalItems())
	assert.True(t, store.TotalPrice().IsZero())
}

func TestTotalPrice(t *testing.T) {
	t.Run("Empty Cart Is Exactly Zero", func(t *testing.T) {
		store := cart.NewStore()

		assert.True(t, store.TotalPrice().Equal(decimal.Zero))
	})

	t.Run("Exact Decimal Total", func(t *testing.T) {
		store := cart.NewStore()
		store.AddItem(product(1, "10.49"), 2)
		store.AddItem(product(2, "0.01"), 1)

		total := store.TotalPrice()

		assert.True(t, total.Equal(decimal.RequireFromString("20.99")), "got %s", total)
		assert.Equal(t, "20.99", total.StringFixed(2))
	})
}

func TestObservers(t *testing.T) {
	t.Run("Notified Synchronously On Every Mutation", func(t *testing.T) {
		store := cart.NewStore()

		var seen []int
		store.Subscribe(func(totalItems int) {
			seen = append(seen, totalItems)
		})

		store.AddItem(product(1, "9.99"), 2)
		store.UpdateQuantity(1, 5)
		store.RemoveItem(1)
		store.Clear()

		assert.Equal(t, []int{2, 5, 0, 0}, seen)
	})

	t.Run("All Observers Notified", func(t *testing.T) {
		store := cart.NewStore()

		var first, second int
		store.Subscribe(func(totalItems int) { first = totalItems })
		store.Subscribe(func(totalItems int) { second = totalItems })

		store.AddItem(product(1, "9.99"), 3)

		assert.Equal(t, 3, first)
		assert.Equal(t, 3, second)
	})
}
