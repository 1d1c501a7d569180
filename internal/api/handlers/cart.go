package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/andeanlabs/usdc-storefront/internal/cart"
	appErrors "github.com/andeanlabs/usdc-storefront/internal/errors"
	"github.com/andeanlabs/usdc-storefront/internal/models"
	"github.com/andeanlabs/usdc-storefront/internal/money"
	service "github.com/andeanlabs/usdc-storefront/internal/services"
	"github.com/andeanlabs/usdc-storefront/internal/utils"
	"github.com/andeanlabs/usdc-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	store          *cart.Store
	catalogService service.CatalogService
	validator      *validator.Validate
}

func NewCartHandler(store *cart.Store, catalogService service.CatalogService) *CartHandler {
	return &CartHandler{
		store:          store,
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		response.Success(w, http.StatusOK, h.cartView())

	}
}

// AddItem resolves the product against the catalog before mutating the cart,
// so the store only ever holds products the collaborator knows about.
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.AddItemRequest
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

		product, err := h.catalogService.GetProduct(r.Context(), req.ProductID)

		if err != nil {
			response.Error(w, err)
			return
		}

		h.store.AddItem(*product, req.Quantity)

		slog.Info("Item added to cart", slog.Int64("productId", product.ID), slog.Int("quantity", req.Quantity))
		response.Success(w, http.StatusOK, h.cartView())

	}
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := parseProductID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateQuantityRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid request body").WithError(err))
			return
		}

		h.store.UpdateQuantity(id, req.Quantity)

		response.Success(w, http.StatusOK, h.cartView())

	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := parseProductID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		h.store.RemoveItem(id)

		response.Success(w, http.StatusOK, h.cartView())

	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		h.store.Clear()

		response.Success(w, http.StatusOK, h.cartView())

	}
}

func (h *CartHandler) cartView() models.CartView {
	lines := h.store.Lines()

	views := make([]models.CartLineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, models.CartLineView{
			CartLine:  line,
			LineTotal: money.LineTotal(line.Product.PriceUSDC, line.Quantity),
		})
	}

	return models.CartView{
		Lines:      views,
		TotalItems: h.store.TotalItems(),
		TotalPrice: h.store.TotalPrice(),
	}
}
