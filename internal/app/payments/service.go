// Package payments finishes the two-phase payment handshake: the
// wallet creates and approves the payment client-side, this service
// completes it and writes the score record in the same request.
package payments

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"time"

	"simon-pi/internal/store"

	"github.com/rs/zerolog/log"
)

var (
	completeTotal   = expvar.NewInt("payment_complete_total")
	completeErrors  = expvar.NewInt("payment_complete_errors_total")
	integrityErrors = expvar.NewInt("score_integrity_errors_total")
)

type CompleteRequest struct {
	PaymentID string
	UserID    string
	Username  string
	Score     int64
	Amount    float64
	Memo      string
	Metadata  map[string]any
}

type Service struct {
	st     store.Store
	amount float64
}

// NewService wires the completion service. defaultAmount is the charge
// recorded when the client does not state one.
func NewService(st store.Store, defaultAmount float64) *Service {
	if defaultAmount <= 0 {
		defaultAmount = 1
	}
	return &Service{st: st, amount: defaultAmount}
}

// Complete transitions the payment to completed and records the score.
// Replays of an already-completed payment succeed without a second
// score record; only the first completion ever writes one.
func (s *Service) Complete(ctx context.Context, req CompleteRequest) (*store.Payment, *store.Score, error) {
	completeTotal.Add(1)
	p, sc, err := s.complete(ctx, req)
	if err != nil {
		completeErrors.Add(1)
	}
	return p, sc, err
}

func (s *Service) complete(ctx context.Context, req CompleteRequest) (*store.Payment, *store.Score, error) {
	if req.PaymentID == "" {
		return nil, nil, fmt.Errorf("%w: paymentId is required", ErrInvalidRequest)
	}
	if req.UserID == "" {
		return nil, nil, fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	}
	if req.Score < 0 {
		return nil, nil, fmt.Errorf("%w: score must not be negative", ErrInvalidRequest)
	}

	if _, err := s.st.UpsertUser(ctx, req.UserID, req.Username); err != nil {
		return nil, nil, fmt.Errorf("upsert user: %w", err)
	}

	p, err := s.st.GetPayment(ctx, req.PaymentID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// The wallet created the payment outside our sight; record it now,
		// already approved, so the ledger covers every completion.
		amount := req.Amount
		if amount <= 0 {
			amount = s.amount
		}
		p = &store.Payment{
			PaymentID: req.PaymentID,
			UserID:    req.UserID,
			Amount:    amount,
			Memo:      req.Memo,
			Metadata:  req.Metadata,
			Status:    store.PaymentApproved,
		}
		if err := s.st.CreatePayment(ctx, p); err != nil {
			return nil, nil, fmt.Errorf("create payment: %w", err)
		}
	case err != nil:
		return nil, nil, fmt.Errorf("load payment: %w", err)
	}

	if p.Status.Terminal() && p.Status != store.PaymentCompleted {
		return nil, nil, fmt.Errorf("%w: payment is %s", ErrInvalidRequest, p.Status)
	}

	p, transitioned, err := s.st.CompletePayment(ctx, req.PaymentID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			if serr := s.st.SetPaymentStatus(ctx, req.PaymentID, store.PaymentError); serr != nil {
				log.Error().Err(serr).Str("payment_id", req.PaymentID).Msg("mark payment errored failed")
			}
		}
		return nil, nil, fmt.Errorf("complete payment: %w", err)
	}
	if !transitioned {
		// A concurrent or earlier completion won; its score record stands.
		sc, err := s.st.ScoreForPayment(ctx, req.PaymentID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, nil, fmt.Errorf("load score: %w", err)
		}
		return p, sc, nil
	}

	username := req.Username
	if username == "" {
		username = defaultUsername(req.UserID)
	}
	sc := &store.Score{
		ID:       store.NewID(),
		UserID:   req.UserID,
		Username: username,
		Score:    req.Score,
		Receipt: store.PaymentReceipt{
			PaymentID:   p.PaymentID,
			Amount:      p.Amount,
			Status:      p.Status,
			CompletedAt: p.CompletedAt,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.st.InsertScore(ctx, sc); err != nil {
		if errors.Is(err, store.ErrDuplicateScore) {
			existing, gerr := s.st.ScoreForPayment(ctx, req.PaymentID)
			if gerr != nil {
				return p, nil, nil
			}
			return p, existing, nil
		}
		// The user has been charged but holds no score record. There is
		// no safe automatic rollback of a completed payment.
		integrityErrors.Add(1)
		log.Error().
			Err(err).
			Str("error_code", "data_integrity").
			Str("payment_id", req.PaymentID).
			Str("uid", req.UserID).
			Int64("score", req.Score).
			Msg("payment completed but score write failed")
		return p, nil, fmt.Errorf("%w: %v", ErrScoreNotRecorded, err)
	}
	return p, sc, nil
}

// Payment looks up a single payment record.
func (s *Service) Payment(ctx context.Context, paymentID string) (*store.Payment, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("%w: paymentId is required", ErrInvalidRequest)
	}
	return s.st.GetPayment(ctx, paymentID)
}

func defaultUsername(uid string) string {
	if len(uid) > 5 {
		uid = uid[:5]
	}
	return "Pioneer_" + uid
}
