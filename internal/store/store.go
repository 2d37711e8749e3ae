package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicateScore means a score already exists for the payment;
	// at most one score may ever be written per payment id.
	ErrDuplicateScore = errors.New("duplicate score for payment")
)

// Store persists users, the payment ledger, and score records.
// Implementations may be backed by Postgres or memory.
type Store interface {
	Ping(ctx context.Context) error
	Close()

	// UpsertUser creates the user on first sight and stamps last_login.
	UpsertUser(ctx context.Context, uid, username string) (*User, error)

	// CreatePayment records a payment attempt. Inserting an already
	// known payment id is a no-op, the stored record wins.
	CreatePayment(ctx context.Context, p *Payment) error
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
	SetPaymentStatus(ctx context.Context, paymentID string, status PaymentStatus) error
	// CompletePayment transitions the payment to completed exactly once.
	// The bool reports whether this call performed the transition; a
	// false result with a nil error means the payment was already
	// completed by an earlier or concurrent call.
	CompletePayment(ctx context.Context, paymentID string) (*Payment, bool, error)

	// InsertScore writes a score record. Returns ErrDuplicateScore when
	// a record for the same payment id already exists.
	InsertScore(ctx context.Context, sc *Score) error
	ScoreForPayment(ctx context.Context, paymentID string) (*Score, error)
	// TopScores returns the n highest scores, score descending, ties
	// ordered by earliest insertion first.
	TopScores(ctx context.Context, n int) ([]Score, error)
	ScoresForUser(ctx context.Context, uid string) ([]Score, error)
}
