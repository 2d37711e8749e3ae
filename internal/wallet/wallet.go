// Package wallet abstracts the external mobile-wallet SDK. The SDK's
// success/cancel/error callback triple is re-expressed as a single call
// returning a tagged outcome.
package wallet

import (
	"context"
	"errors"
)

var ErrUnavailable = errors.New("wallet sdk unavailable")

type Scope string

const (
	ScopeUsername Scope = "username"
	ScopePayments Scope = "payments"
)

// AuthResult is the identity tuple the wallet hands back after a
// successful authentication flow.
type AuthResult struct {
	UID         string
	Username    string
	AccessToken string
	Scopes      []Scope
}

type PaymentRequest struct {
	Amount   float64
	Memo     string
	Metadata map[string]any
}

type OutcomeStatus string

const (
	// OutcomeApproved: the wallet created the payment and it is ready
	// for server-side completion.
	OutcomeApproved OutcomeStatus = "approved"
	// OutcomeCancelled: the user backed out.
	OutcomeCancelled OutcomeStatus = "cancelled"
	// OutcomeIncomplete: the wallet surfaced a stale half-finished
	// payment instead of creating a new one. Callers resolve these as
	// cancelled; there is no partial-payment carry-over.
	OutcomeIncomplete OutcomeStatus = "incomplete"
	// OutcomeFailed: the wallet reported an error. Reason carries the
	// SDK detail.
	OutcomeFailed OutcomeStatus = "failed"
)

type PaymentOutcome struct {
	Status    OutcomeStatus
	PaymentID string
	Reason    string
}

// SDK is the surface of the external wallet this app depends on.
type SDK interface {
	// Authenticate runs the wallet's auth flow for the requested scopes.
	// Returns ErrUnavailable when the wallet cannot be reached.
	Authenticate(ctx context.Context, scopes []Scope) (AuthResult, error)
	// CreatePayment asks the wallet to create a payment and blocks
	// until exactly one outcome is known.
	CreatePayment(ctx context.Context, req PaymentRequest) (PaymentOutcome, error)
}
