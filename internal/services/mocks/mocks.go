// Package mocks holds testify mocks for the service interfaces and the
// collaborator clients.
package mocks

import (
	"context"

	"github.com/andeanlabs/usdc-storefront/internal/models"
	"github.com/andeanlabs/usdc-storefront/pkg/payin"
	"github.com/andeanlabs/usdc-storefront/pkg/products"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) ListProducts(ctx context.Context) ([]products.Product, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]products.Product), args.Error(1)
}

func (m *CatalogService) GetProduct(ctx context.Context, id int64) (*products.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*products.Product), args.Error(1)
}

func (m *CatalogService) UpdatePrice(ctx context.Context, id int64, req *models.PriceUpdateRequest) (*products.Product, error) {
	args := m.Called(ctx, id, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*products.Product), args.Error(1)
}

type PurchaseInitiator struct {
	mock.Mock
}

func (m *PurchaseInitiator) InitiatePurchase(ctx context.Context, req *models.PurchaseRequest) (*models.PurchaseResponse, error) {
	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PurchaseResponse), args.Error(1)
}

type ProductsClient struct {
	mock.Mock
}

func (m *ProductsClient) ListProducts(ctx context.Context) ([]products.Product, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]products.Product), args.Error(1)
}

func (m *ProductsClient) GetProduct(ctx context.Context, id int64) (*products.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*products.Product), args.Error(1)
}

func (m *ProductsClient) UpdatePrice(ctx context.Context, id int64, update products.PriceUpdate) (*products.Product, error) {
	args := m.Called(ctx, id, update)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*products.Product), args.Error(1)
}

type PayinClient struct {
	mock.Mock
}

func (m *PayinClient) Accounts(ctx context.Context) ([]payin.Account, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]payin.Account), args.Error(1)
}

func (m *PayinClient) ActiveAccountID(ctx context.Context) (string, error) {
	args := m.Called(ctx)

	return args.String(0), args.Error(1)
}

func (m *PayinClient) CreatePayin(ctx context.Context, accountID string, fiatAmountCOP decimal.Decimal) (*payin.Payin, error) {
	args := m.Called(ctx, accountID, fiatAmountCOP)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*payin.Payin), args.Error(1)
}

func (m *PayinClient) ConvertUSDCToCOP(usdc decimal.Decimal) decimal.Decimal {
	args := m.Called(usdc)

	return args.Get(0).(decimal.Decimal)
}
