package models

import (
	"github.com/andeanlabs/usdc-storefront/pkg/products"
	"github.com/shopspring/decimal"
)

// CartLine pairs a product with the quantity in the cart. Quantity is always
// at least 1; a line dropped to 0 is removed, never stored.
type CartLine struct {
	Product  products.Product `json:"product"`
	Quantity int              `json:"quantity"`
}

type CartLineView struct {
	CartLine
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartView struct {
	Lines      []CartLineView  `json:"lines"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity"   validate:"required,min=1"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
