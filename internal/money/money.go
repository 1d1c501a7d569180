// Package money wraps the decimal arithmetic used for USDC amounts. Unit
// prices come in as decimal strings from the product service and must never
// touch binary floating point on their way to the payin provider.
package money

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is the canonical empty-cart total.
var Zero = decimal.Zero

// ParseAmount parses a non-negative decimal amount string.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q must not be negative", s)
	}

	return d, nil
}

// LineTotal is unit price times an integer quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}

	return total
}

// Format2 renders an amount with exactly two decimal places. This is the only
// representation that crosses the wire to the payin provider.
func Format2(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ParseQuantity parses a cart quantity. Only positive integers are accepted;
// anything else is invalid user input and must not reach the cart store.
func ParseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
	}

	if q < 1 {
		return 0, fmt.Errorf("quantity must be at least 1, got %d", q)
	}

	return q, nil
}
