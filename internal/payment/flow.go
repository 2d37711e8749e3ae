// Package payment drives the client half of the payment handshake:
// wallet creates the payment, the backend completes it and persists
// the score.
package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"simon-pi/internal/apiclient"
	"simon-pi/internal/session"
	"simon-pi/internal/wallet"

	"github.com/rs/zerolog/log"
)

const gameID = "simon-pi"

// Completer is the backend completion step.
type Completer interface {
	CompletePayment(ctx context.Context, token string, req apiclient.CompletePaymentRequest) (apiclient.CompletePaymentResponse, error)
}

// IdentitySource reads the active identity. Written only by the auth
// gate.
type IdentitySource interface {
	Current() (session.Identity, bool)
}

// Result is a successfully saved score with its payment proof.
type Result struct {
	PaymentID string
	Payment   apiclient.PaymentInfo
	Score     *apiclient.ScoreInfo
	Message   string
}

type Flow struct {
	sdk    wallet.SDK
	ids    IdentitySource
	api    Completer
	amount float64

	mu   sync.Mutex
	busy bool
}

// NewFlow wires the client payment protocol. amount <= 0 falls back to
// the one-unit charge.
func NewFlow(sdk wallet.SDK, ids IdentitySource, api Completer, amount float64) *Flow {
	if amount <= 0 {
		amount = 1
	}
	return &Flow{sdk: sdk, ids: ids, api: api, amount: amount}
}

// SaveScore charges one payment unit and persists the score through
// the backend. Failures are never retried here; the caller decides
// whether to re-prompt, and the flow is always retryable afterwards.
func (f *Flow) SaveScore(ctx context.Context, score int64) (*Result, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return nil, ErrPaymentInProgress
	}
	f.busy = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	id, ok := f.ids.Current()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	out, err := f.sdk.CreatePayment(ctx, wallet.PaymentRequest{
		Amount: f.amount,
		Memo:   fmt.Sprintf("Simon: save score of %d points", score),
		Metadata: map[string]any{
			"type":      "score_save",
			"score":     score,
			"userId":    id.UID,
			"username":  id.Username,
			"gameId":    gameID,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrSDKUnavailable, err)
	}

	switch out.Status {
	case wallet.OutcomeCancelled:
		return nil, ErrUserCancelled
	case wallet.OutcomeIncomplete:
		// A stale half-finished payment resolves as cancelled; there is
		// no partial-payment carry-over.
		log.Info().Str("payment_id", out.PaymentID).Msg("incomplete payment surfaced, resolving as cancelled")
		return nil, ErrUserCancelled
	case wallet.OutcomeFailed:
		return nil, &SDKError{Reason: out.Reason}
	case wallet.OutcomeApproved:
		// fall through to completion
	default:
		return nil, &SDKError{Reason: fmt.Sprintf("unknown outcome %q", out.Status)}
	}

	resp, err := f.api.CompletePayment(ctx, id.AccessToken, apiclient.CompletePaymentRequest{
		PaymentID: out.PaymentID,
		UserID:    id.UID,
		Username:  id.Username,
		Score:     score,
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		PaymentID: out.PaymentID,
		Payment:   resp.Payment,
		Score:     resp.Score,
		Message:   resp.Message,
	}, nil
}
