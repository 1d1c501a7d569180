package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/andeanlabs/usdc-storefront/internal/cart"
	appErrors "github.com/andeanlabs/usdc-storefront/internal/errors"
	"github.com/andeanlabs/usdc-storefront/internal/models"
	service "github.com/andeanlabs/usdc-storefront/internal/services"
	"github.com/andeanlabs/usdc-storefront/internal/services/mocks"
	"github.com/andeanlabs/usdc-storefront/pkg/payin"
	"github.com/andeanlabs/usdc-storefront/pkg/products"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProduct(id int64, price string) products.Product {
	return products.Product{ID: id, Name: "test", PriceUSDC: decimal.RequireFromString(price)}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure - Empty Cart Never Calls The Collaborator", func(t *testing.T) {
		// Arrange
		mockInitiator := new(mocks.PurchaseInitiator)
		store := cart.NewStore()
		checkout := service.NewCheckoutService(store, mockInitiator)

		// Act
		resp, err := checkout.Submit(ctx)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		assert.Equal(t, service.StateIdle, checkout.View().State)
		mockInitiator.AssertNotCalled(t, "InitiatePurchase", mock.Anything, mock.Anything)
	})

	t.Run("Success - Amount Is The Literal Two-Decimal Total", func(t *testing.T) {
		// Arrange
		mockInitiator := new(mocks.PurchaseInitiator)
		store := cart.NewStore()
		store.AddItem(newProduct(7, "10.49"), 2)
		store.AddItem(newProduct(8, "0.01"), 1)
		checkout := service.NewCheckoutService(store, mockInitiator)

		expected := &models.PurchaseResponse{
			Success: true,
			Message: "Payin created successfully. Please complete the payment using the provided instructions.",
			PayinID: "payin-123",
		}

		mockInitiator.On("InitiatePurchase", ctx, mock.MatchedBy(func(req *models.PurchaseRequest) bool {
			// the reference product is the cart's first line.
			return req.ProductID == 7 && req.AmountUSDC == "20.99"
		})).Return(expected, nil).Once()

		// Act
		resp, err := checkout.Submit(ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, expected, resp)
		view := checkout.View()
		assert.Equal(t, service.StateInstructed, view.State)
		assert.Equal(t, expected, view.Instrument)
		mockInitiator.AssertExpectations(t)
	})

	t.Run("Success - Instructed Even When The Body Reports Failure", func(t *testing.T) {
		// Arrange: the collaborator answered; its success flag is its own
		// verdict on the payment, not on the request.
		mockInitiator := new(mocks.PurchaseInitiator)
		store := cart.NewStore()
		store.AddItem(newProduct(1, "5.00"), 1)
		checkout := service.NewCheckoutService(store, mockInitiator)

		declined := &models.PurchaseResponse{
			Success: false,
			Message: "Payin could not be initiated for this account",
		}
		mockInitiator.On("InitiatePurchase", ctx, mock.Anything).Return(declined, nil).Once()

		// Act
		resp, err := checkout.Submit(ctx)

		// Assert
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, service.StateInstructed, checkout.View().State)
	})

	t.Run("Success - Instructions Round-Trip Unchanged", func(t *testing.T) {
		// Arrange
		mockInitiator := new(mocks.PurchaseInitiator)
		store := cart.NewStore()
		store.AddItem(newProduct(1, "5.00"), 1)
		checkout := service.NewCheckoutService(store, mockInitiator)

		expiresAt := "2026-03-01T17:00:00Z"
		instrument := &models.PurchaseResponse{
			Success: true,
			PayinID: "payin-9",
			PayinStatus: &payin.Status{
				Kind:        payin.StatusPending,
				InitiatedAt: "2026-02-28T17:00:00Z",
			},
			PayinInstructions: &payin.Instructions{
				Kind:       payin.InstructionsCOP,
				DepositURL: "https://pay.example/deposit/9",
				ExpiresAt:  expiresAt,
			},
		}
		mockInitiator.On("InitiatePurchase", ctx, mock.Anything).Return(instrument, nil).Once()

		// Act
		_, err := checkout.Submit(ctx)

		// Assert
		require.NoError(t, err)
		view := checkout.View()
		require.NotNil(t, view.Instrument.PayinInstructions)
		assert.Equal(t, expiresAt, view.Instrument.PayinInstructions.ExpiresAt)
		assert.Equal(t, payin.StatusPending, view.Instrument.PayinStatus.Kind)
	})

	t.Run("Failure - Transport Error Then Retry", func(t *testing.T) {
		// Arrange
		mockInitiator := new(mocks.PurchaseInitiator)
		store := cart.NewStore()
		store.AddItem(newProduct(1, "5.00"), 2)
		checkout := service.NewCheckoutService(store, mockInitiator)

		netErr := appErrors.UnavailableError("Could not reach the payment service").
			WithError(errors.New("dial tcp: connection refused"))
		mockInitiator.On("InitiatePurchase", ctx, mock.Anything).Return(nil, netErr).Once()

		// Act
		resp, err := checkout.Submit(ctx)

		// Assert: Failed with the network-specific message, cart untouched.
		assert.Error(t, err)
		assert.Nil(t, resp)
		view := checkout.View()
		assert.Equal(t, service.StateFailed, view.State)
		assert.Equal(t, "Could not reach the payment service", view.Error)
		assert.Equal(t, 2, store.TotalItems())

		// Arrange retry: a fresh user-triggered submission is permitted.
		success := &models.PurchaseResponse{Success: true, PayinID: "payin-1"}
		mockInitiator.On("InitiatePurchase", ctx, mock.Anything).Return(success, nil).Once()

		// Act
		resp, err = checkout.Submit(ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "payin-1", resp.PayinID)
		assert.Equal(t, service.StateInstructed, checkout.View().State)
		mockInitiator.AssertExpectations(t)
	})

	t.Run("Failure - Rejection Detail Surfaces", func(t *testing.T) {
		// Arrange
		mockInitiator := new(mocks.PurchaseInitiator)
		store := cart.NewStore()
		store.AddItem(newProduct(1, "5.00"), 1)
		checkout := service.NewCheckoutService(store, mockInitiator)

		rejErr := appErrors.ThirdPartyError("Payment service rejected the request").
			WithDetail("Amount must be greater than zero")
		mockInitiator.On("InitiatePurchase", ctx, mock.Anything).Return(nil, rejErr).Once()

		// Act
		_, err := checkout.Submit(ctx)

		// Assert
		assert.Error(t, err)
		view := checkout.View()
		assert.Equal(t, service.StateFailed, view.State)
		assert.Equal(t, "Amount must be greater than zero", view.Error)
	})

	t.Run("Failure - Resubmit While An Instrument Is Outstanding", func(t *testing.T) {
		// Arrange
		mockInitiator := new(mocks.PurchaseInitiator)
		store := cart.NewStore()
		store.AddItem(newProduct(1, "5.00"), 1)
		checkout := service.NewCheckoutService(store, mockInitiator)

		instrument := &models.PurchaseResponse{Success: true, PayinID: "payin-1"}
		mockInitiator.On("InitiatePurchase", ctx, mock.Anything).Return(instrument, nil).Once()

		_, err := checkout.Submit(ctx)
		require.NoError(t, err)

		// Act: the instrument has not been acknowledged yet.
		resp, err := checkout.Submit(ctx)

		// Assert: rejected, and the issued instrument is untouched.
		assert.Error(t, err)
		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeConflict, appErr.Code)
		view := checkout.View()
		assert.Equal(t, service.StateInstructed, view.State)
		assert.Equal(t, instrument, view.Instrument)
		mockInitiator.AssertNumberOfCalls(t, "InitiatePurchase", 1)
	})

	t.Run("Failure - Second Submission While In Flight", func(t *testing.T) {
		// Arrange: the first submission blocks inside the collaborator call.
		mockInitiator := new(mocks.PurchaseInitiator)
		store := cart.NewStore()
		store.AddItem(newProduct(1, "5.00"), 1)
		checkout := service.NewCheckoutService(store, mockInitiator)

		entered := make(chan struct{})
		release := make(chan struct{})
		mockInitiator.On("InitiatePurchase", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				close(entered)
				<-release
			}).
			Return(&models.PurchaseResponse{Success: true}, nil).Once()

		firstDone := make(chan error, 1)
		go func() {
			_, err := checkout.Submit(ctx)
			firstDone <- err
		}()

		<-entered

		// Act
		_, err := checkout.Submit(ctx)

		// Assert
		assert.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeConflict, appErr.Code)

		close(release)
		require.NoError(t, <-firstDone)
	})
}

func TestAcknowledge(t *testing.T) {
	ctx := context.Background()

	t.Run("Instructed - Clears Cart And Resets To Idle", func(t *testing.T) {
		// Arrange
		mockInitiator := new(mocks.PurchaseInitiator)
		store := cart.NewStore()
		store.AddItem(newProduct(1, "5.00"), 2)
		checkout := service.NewCheckoutService(store, mockInitiator)

		mockInitiator.On("InitiatePurchase", ctx, mock.Anything).
			Return(&models.PurchaseResponse{Success: true, PayinID: "payin-1"}, nil).Once()

		_, err := checkout.Submit(ctx)
		require.NoError(t, err)

		// Act
		err = checkout.Acknowledge()

		// Assert
		require.NoError(t, err)
		view := checkout.View()
		assert.Equal(t, service.StateIdle, view.State)
		assert.Nil(t, view.Instrument)
		assert.Empty(t, store.Lines())
	})

	t.Run("Failed - Dismisses The Error, Cart Untouched", func(t *testing.T) {
		// Arrange
		mockInitiator := new(mocks.PurchaseInitiator)
		store := cart.NewStore()
		store.AddItem(newProduct(1, "5.00"), 2)
		checkout := service.NewCheckoutService(store, mockInitiator)

		mockInitiator.On("InitiatePurchase", ctx, mock.Anything).
			Return(nil, appErrors.UnavailableError("Could not reach the payment service")).Once()

		_, err := checkout.Submit(ctx)
		require.Error(t, err)

		// Act
		err = checkout.Acknowledge()

		// Assert
		require.NoError(t, err)
		view := checkout.View()
		assert.Equal(t, service.StateIdle, view.State)
		assert.Empty(t, view.Error)
		assert.Equal(t, 2, store.TotalItems())
	})

	t.Run("Idle - No-Op", func(t *testing.T) {
		checkout := service.NewCheckoutService(cart.NewStore(), new(mocks.PurchaseInitiator))

		assert.NoError(t, checkout.Acknowledge())
		assert.Equal(t, service.StateIdle, checkout.View().State)
	})
}
