package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Sandbox simulates the wallet for development runs and tests. Every
// payment is approved unless a scripted behavior is queued.
type Sandbox struct {
	// Username is reported for every authentication.
	Username string

	mu          sync.Mutex
	unavailable bool
	cancelNext  bool
	failNext    string
	// incompleteNext makes the next CreatePayment surface a stale
	// payment instead of creating one.
	incompleteNext bool

	authCalls    int
	createdCount int
}

func NewSandbox(username string) *Sandbox {
	return &Sandbox{Username: username}
}

func (s *Sandbox) SetUnavailable(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = v
}

func (s *Sandbox) CancelNext() { s.mu.Lock(); s.cancelNext = true; s.mu.Unlock() }

func (s *Sandbox) FailNext(reason string) { s.mu.Lock(); s.failNext = reason; s.mu.Unlock() }

func (s *Sandbox) IncompleteNext() { s.mu.Lock(); s.incompleteNext = true; s.mu.Unlock() }

// AuthCalls reports how many authentication flows ran.
func (s *Sandbox) AuthCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authCalls
}

func (s *Sandbox) Authenticate(ctx context.Context, scopes []Scope) (AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return AuthResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable {
		return AuthResult{}, ErrUnavailable
	}
	s.authCalls++
	uid := "sandbox_" + uuid.NewString()
	return AuthResult{
		UID:         uid,
		Username:    s.Username,
		AccessToken: "sandbox_token_" + uuid.NewString(),
		Scopes:      append([]Scope(nil), scopes...),
	}, nil
}

func (s *Sandbox) CreatePayment(ctx context.Context, req PaymentRequest) (PaymentOutcome, error) {
	if err := ctx.Err(); err != nil {
		return PaymentOutcome{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable {
		return PaymentOutcome{}, ErrUnavailable
	}
	if s.incompleteNext {
		s.incompleteNext = false
		return PaymentOutcome{Status: OutcomeIncomplete, PaymentID: uuid.NewString()}, nil
	}
	if s.cancelNext {
		s.cancelNext = false
		return PaymentOutcome{Status: OutcomeCancelled}, nil
	}
	if s.failNext != "" {
		reason := s.failNext
		s.failNext = ""
		return PaymentOutcome{Status: OutcomeFailed, Reason: reason}, nil
	}
	s.createdCount++
	return PaymentOutcome{
		Status:    OutcomeApproved,
		PaymentID: fmt.Sprintf("sandbox_pay_%s", uuid.NewString()),
	}, nil
}
