package handlers

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	appErrors "github.com/andeanlabs/usdc-storefront/internal/errors"
	"github.com/andeanlabs/usdc-storefront/internal/ratelimit"
	service "github.com/andeanlabs/usdc-storefront/internal/services"
	"github.com/andeanlabs/usdc-storefront/internal/utils/response"
)

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	limiter         *ratelimit.CheckoutLimiter
}

// limiter may be nil when rate limiting is disabled.
func NewCheckoutHandler(checkoutService *service.CheckoutService, limiter *ratelimit.CheckoutLimiter) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, limiter: limiter}
}

// Submit initiates a purchase for the cart's current total.
func (h *CheckoutHandler) Submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		if h.limiter != nil {
			allowed, _, retryAfter, err := h.limiter.Allow(r.Context(), clientKey(r))

			if err != nil {
				// the limiter is protection, not a dependency: fail open.
				slog.Warn("Checkout rate limiter unavailable", slog.String("error", err.Error()))
			} else if !allowed {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				response.Error(w, appErrors.TooManyRequestsError("Too many checkout attempts, please wait before retrying"))
				return
			}
		}

		instrument, err := h.checkoutService.Submit(r.Context())

		if err != nil {
			slog.Error("Checkout submission failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("Checkout submitted",
			slog.String("transactionId", instrument.TransactionID),
			slog.String("payinId", instrument.PayinID))
		response.Success(w, http.StatusOK, instrument)

	}
}

// State returns the orchestrator's renderable snapshot.
func (h *CheckoutHandler) State() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		response.Success(w, http.StatusOK, h.checkoutService.View())

	}
}

// Acknowledge is "continue shopping": discards the instrument and, when one
// was issued, clears the cart.
func (h *CheckoutHandler) Acknowledge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		if err := h.checkoutService.Acknowledge(); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, h.checkoutService.View())

	}
}

// clientKey prefers the session header the storefront UI sends; the remote
// address is the fallback.
func clientKey(r *http.Request) string {
	if session := r.Header.Get("X-Session-ID"); session != "" {
		return session
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
