// Package cart holds the session-scoped shopping cart. The store is owned by
// the composition root and passed by reference to whatever needs it; there is
// no ambient singleton. It is never persisted.
package cart

import (
	"sync"

	"github.com/andeanlabs/usdc-storefront/internal/models"
	"github.com/andeanlabs/usdc-storefront/internal/money"
	"github.com/andeanlabs/usdc-storefront/pkg/products"
	"github.com/shopspring/decimal"
)

// Observer is notified synchronously after every mutation, before the
// mutating call returns. The argument is the new total item count.
type Observer func(totalItems int)

type Store struct {
	mu        sync.Mutex
	lines     []models.CartLine
	observers []Observer
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, fn)
}

// AddItem appends a line for the product, or increments the existing line's
// quantity. Insertion order is preserved for display. A quantity below 1 is
// clamped to 1.
func (s *Store) AddItem(product products.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Product.ID == product.ID {
			s.lines[i].Quantity += quantity
			s.notifyLocked()

			return
		}
	}

	s.lines = append(s.lines, models.CartLine{Product: product, Quantity: quantity})
	s.notifyLocked()
}

// UpdateQuantity sets (not increments) the quantity of an existing line.
// A quantity of 0 or less removes the line. Unknown product ids are a no-op.
func (s *Store) UpdateQuantity(productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Product.ID != productID {
			continue
		}

		if quantity <= 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		} else {
			s.lines[i].Quantity = quantity
		}

		s.notifyLocked()

		return
	}
}

func (s *Store) RemoveItem(productID int64) {
	s.UpdateQuantity(productID, 0)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.notifyLocked()
}

// Lines returns a snapshot of the cart in insertion order.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]models.CartLine, len(s.lines))
	copy(lines, s.lines)

	return lines
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totalItemsLocked()
}

// TotalPrice sums unit price times quantity over all lines in exact decimal
// arithmetic. An empty cart totals exactly zero.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := money.Zero
	for _, line := range s.lines {
		total = total.Add(money.LineTotal(line.Product.PriceUSDC, line.Quantity))
	}

	return total
}

func (s *Store) totalItemsLocked() int {
	var count int
	for _, line := range s.lines {
		count += line.Quantity
	}

	return count
}

// observers run inside the critical section so no mutation is ever observed
// half-applied.
func (s *Store) notifyLocked() {
	count := s.totalItemsLocked()
	for _, fn := range s.observers {
		fn(count)
	}
}
