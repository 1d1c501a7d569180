package service

import (
	"context"
	stderrors "errors"

	"github.com/andeanlabs/usdc-storefront/internal/errors"
	"github.com/andeanlabs/usdc-storefront/internal/models"
	"github.com/andeanlabs/usdc-storefront/internal/money"
	"github.com/andeanlabs/usdc-storefront/pkg/payin"
	"github.com/google/uuid"
)

// PurchaseInitiator is the narrow contract of the purchase-initiation
// collaborator: one aggregate amount in, one payment instrument out.
type PurchaseInitiator interface {
	InitiatePurchase(ctx context.Context, req *models.PurchaseRequest) (*models.PurchaseResponse, error)
}

type purchaseService struct {
	client  payin.Client
	catalog CatalogService
}

func NewPurchaseService(client payin.Client, catalog CatalogService) PurchaseInitiator {
	return &purchaseService{client: client, catalog: catalog}
}

// InitiatePurchase implements PurchaseInitiator. It settles the whole amount
// as a single payin: reference-product check, account lookup, fiat conversion
// at the provider's configured rate, then payin creation.
func (s *purchaseService) InitiatePurchase(ctx context.Context, req *models.PurchaseRequest) (*models.PurchaseResponse, error) {
	amount, err := money.ParseAmount(req.AmountUSDC)
	if err != nil {
		return nil, errors.ValidationError("Amount must be a non-negative decimal amount").WithError(err)
	}

	if !amount.IsPositive() {
		return nil, errors.ValidationError("Amount must be greater than zero")
	}

	// the reference product rides along for routing and validation; a payin
	// is never created against a product the catalog does not know.
	if _, err := s.catalog.GetProduct(ctx, req.ProductID); err != nil {
		return nil, err
	}

	accountID, err := s.client.ActiveAccountID(ctx)
	if err != nil {
		return nil, mapPayinError(err)
	}

	fiatAmount := s.client.ConvertUSDCToCOP(amount)

	created, err := s.client.CreatePayin(ctx, accountID, fiatAmount)
	if err != nil {
		return nil, mapPayinError(err)
	}

	return &models.PurchaseResponse{
		Success:           true,
		Message:           "Payin created successfully. Please complete the payment using the provided instructions.",
		TransactionID:     uuid.NewString(),
		PayinID:           created.ID,
		PayinStatus:       created.Status,
		PayinInstructions: created.Instructions,
		FiatAmountCOP:     &fiatAmount,
	}, nil
}

func mapPayinError(err error) error {
	var apiErr *payin.APIError

	if stderrors.As(err, &apiErr) {
		return errors.ThirdPartyError("Payment service rejected the request").WithDetail(apiErr.Detail).WithError(err)
	}

	return errors.UnavailableError("Could not reach the payment service").WithError(err)
}
