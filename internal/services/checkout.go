package service

import (
	"context"
	"sync"

	"github.com/andeanlabs/usdc-storefront/internal/cart"
	"github.com/andeanlabs/usdc-storefront/internal/errors"
	"github.com/andeanlabs/usdc-storefront/internal/metrics"
	"github.com/andeanlabs/usdc-storefront/internal/models"
	"github.com/andeanlabs/usdc-storefront/internal/money"
)

// CheckoutState is the payment state machine of a checkout attempt.
//
//	Idle -> Submitting -> Instructed -> Idle (acknowledge, clears the cart)
//	                   -> Failed     -> Submitting (user retries)
type CheckoutState string

const (
	StateIdle       CheckoutState = "idle"
	StateSubmitting CheckoutState = "submitting"
	StateFailed     CheckoutState = "failed"
	StateInstructed CheckoutState = "instructed"
)

// CheckoutView is the renderable snapshot of the state machine.
type CheckoutView struct {
	State      CheckoutState            `json:"state"`
	Error      string                   `json:"error,omitempty"`
	Instrument *models.PurchaseResponse `json:"instrument,omitempty"`
}

// CheckoutService owns the payment instrument for the duration of one
// checkout attempt. It accepts at most one in-flight submission; the cart is
// left untouched by any failure.
type CheckoutService struct {
	mu         sync.Mutex
	state      CheckoutState
	lastError  string
	instrument *models.PurchaseResponse

	store     *cart.Store
	initiator PurchaseInitiator
}

func NewCheckoutService(store *cart.Store, initiator PurchaseInitiator) *CheckoutService {
	return &CheckoutService{
		state:     StateIdle,
		store:     store,
		initiator: initiator,
	}
}

// Submit sends the cart's current total to the purchase collaborator. The
// amount is the store total at the moment of submission, rendered with two
// decimal places; the reference product is the cart's first line.
func (s *CheckoutService) Submit(ctx context.Context) (*models.PurchaseResponse, error) {
	s.mu.Lock()

	switch s.state {
	case StateSubmitting:
		s.mu.Unlock()

		return nil, errors.ConflictError("A purchase is already being submitted")
	case StateInstructed:
		// an instrument is outstanding: it stays valid until the user
		// acknowledges it, never silently replaced by a fresh payin.
		s.mu.Unlock()

		return nil, errors.ConflictError("A payment is already awaiting completion")
	}

	lines := s.store.Lines()
	if len(lines) == 0 {
		s.mu.Unlock()
		metrics.RecordCheckout(metrics.OutcomeRejected)

		// guarded transition: the collaborator is never called for an
		// empty cart and the state machine does not leave its state.
		return nil, errors.ValidationError("Your cart is empty")
	}

	req := &models.PurchaseRequest{
		ProductID:  lines[0].Product.ID,
		AmountUSDC: money.Format2(s.store.TotalPrice()),
	}

	s.state = StateSubmitting
	s.lastError = ""
	s.instrument = nil
	s.mu.Unlock()

	resp, err := s.initiator.InitiatePurchase(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateFailed
		s.lastError = failureMessage(err)
		metrics.RecordCheckout(metrics.OutcomeFailed)

		return nil, err
	}

	// the collaborator answered: surface whatever status and instructions it
	// returned, regardless of the success flag inside the body. Deciding the
	// payment's fate is the provider's job, not ours.
	s.state = StateInstructed
	s.instrument = resp
	metrics.RecordCheckout(metrics.OutcomeInstructed)

	return resp, nil
}

// Acknowledge ends the checkout attempt ("continue shopping"). Reaching it
// from Instructed discards the instrument and clears the cart; from Failed it
// just dismisses the error. It is rejected while a submission is in flight.
func (s *CheckoutService) Acknowledge() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateSubmitting:
		return errors.ConflictError("A purchase is still being submitted")
	case StateInstructed:
		s.store.Clear()
	}

	s.state = StateIdle
	s.lastError = ""
	s.instrument = nil

	return nil
}

// View returns the current machine state for rendering.
func (s *CheckoutService) View() CheckoutView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return CheckoutView{
		State:      s.state,
		Error:      s.lastError,
		Instrument: s.instrument,
	}
}

// failureMessage prefers the collaborator's structured detail, falling back
// to the mapped message which already distinguishes "could not reach the
// service" from "service rejected the request".
func failureMessage(err error) string {
	if appErr, ok := errors.IsAppError(err); ok {
		if appErr.Detail != "" {
			return appErr.Detail
		}

		return appErr.Message
	}

	return err.Error()
}
