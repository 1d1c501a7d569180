package models

import (
	"github.com/andeanlabs/usdc-storefront/pkg/payin"
	"github.com/shopspring/decimal"
)

// PurchaseRequest is the wire shape submitted to the purchase-initiation
// collaborator. AmountUSDC is always rendered with exactly two decimal
// places; the reference product id is used by the collaborator for routing
// and validation, not for a per-line breakdown.
type PurchaseRequest struct {
	ProductID  int64  `json:"product_id"`
	AmountUSDC string `json:"amount_usdc"`
}

// PurchaseResponse is the payment instrument returned by a purchase
// submission. Which optional fields are present depends on the payin kind;
// see the constants in pkg/payin.
type PurchaseResponse struct {
	Success           bool                `json:"success"`
	Message           string              `json:"message"`
	TransactionID     string              `json:"transaction_id,omitempty"`
	PayinID           string              `json:"payin_id,omitempty"`
	PayinStatus       *payin.Status       `json:"payin_status,omitempty"`
	PayinInstructions *payin.Instructions `json:"payin_instructions,omitempty"`
	FiatAmountCOP     *decimal.Decimal    `json:"fiat_amount_cop,omitempty"`
}

type PriceUpdateRequest struct {
	PriceUSDC string `json:"price_usdc" validate:"required"`
}
