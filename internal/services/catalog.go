package service

import (
	stderrors "errors"

	"context"

	"github.com/andeanlabs/usdc-storefront/internal/errors"
	"github.com/andeanlabs/usdc-storefront/internal/models"
	"github.com/andeanlabs/usdc-storefront/internal/money"
	"github.com/andeanlabs/usdc-storefront/pkg/products"
)

type CatalogService interface {
	ListProducts(ctx context.Context) ([]products.Product, error)
	GetProduct(ctx context.Context, id int64) (*products.Product, error)
	UpdatePrice(ctx context.Context, id int64, req *models.PriceUpdateRequest) (*products.Product, error)
}

type catalogService struct {
	client products.Client
}

func NewCatalogService(client products.Client) CatalogService {
	return &catalogService{client: client}
}

// ListProducts implements CatalogService.
func (s *catalogService) ListProducts(ctx context.Context) ([]products.Product, error) {
	list, err := s.client.ListProducts(ctx)
	if err != nil {
		return nil, mapProductError(err)
	}

	return list, nil
}

// GetProduct implements CatalogService.
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*products.Product, error) {
	product, err := s.client.GetProduct(ctx, id)
	if err != nil {
		return nil, mapProductError(err)
	}

	return product, nil
}

// UpdatePrice implements CatalogService. The price is validated locally
// before it is sent: a malformed or negative price never reaches the product
// service.
func (s *catalogService) UpdatePrice(ctx context.Context, id int64, req *models.PriceUpdateRequest) (*products.Product, error) {
	price, err := money.ParseAmount(req.PriceUSDC)
	if err != nil {
		return nil, errors.ValidationError("Price must be a non-negative decimal amount").WithError(err)
	}

	product, err := s.client.UpdatePrice(ctx, id, products.PriceUpdate{PriceUSDC: price})
	if err != nil {
		return nil, mapProductError(err)
	}

	return product, nil
}

func mapProductError(err error) error {
	var apiErr *products.APIError

	if stderrors.As(err, &apiErr) {
		if apiErr.StatusCode == 404 {
			return errors.NotFoundError("Product not found").WithError(err)
		}

		return errors.ThirdPartyError("Product service rejected the request").WithDetail(apiErr.Detail).WithError(err)
	}

	return errors.UnavailableError("Could not reach the product service").WithError(err)
}
