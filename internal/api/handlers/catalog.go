package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	appErrors "github.com/andeanlabs/usdc-storefront/internal/errors"
	"github.com/andeanlabs/usdc-storefront/internal/models"
	service "github.com/andeanlabs/usdc-storefront/internal/services"
	"github.com/andeanlabs/usdc-storefront/internal/utils"
	"github.com/andeanlabs/usdc-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	validator      *validator.Validate
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, validator: validator.New()}
}

func (h *CatalogHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		products, err := h.catalogService.ListProducts(r.Context())

		if err != nil {
			slog.Error("Failed to fetch products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)

	}
}

func (h *CatalogHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := parseProductID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		product, err := h.catalogService.GetProduct(r.Context(), id)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)

	}
}

// admin surface: replaces a product's unit price. Authentication is handled
// upstream of this service.
func (h *CatalogHandler) UpdatePrice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := parseProductID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.PriceUpdateRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid request body").WithError(err))
			return
		}

		if err := utils.ValidateStruct(h.validator, req); err != nil {
			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				response.ValidationError(w, validationErrs)
				return
			}

			response.Error(w, appErrors.ValidationError(err.Error()))
			return
		}

		product, err := h.catalogService.UpdatePrice(r.Context(), id, &req)

		if err != nil {
			slog.Error("Error during price update", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("Product price updated", slog.Int64("productId", product.ID), slog.String("price", product.PriceUSDC.String()))
		response.Success(w, http.StatusOK, product)

	}
}

func parseProductID(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, appErrors.BadRequestError("Invalid product id")
	}

	return id, nil
}
