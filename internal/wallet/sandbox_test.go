package wallet

import (
	"context"
	"errors"
	"testing"
)

func TestSandboxApprovesByDefault(t *testing.T) {
	s := NewSandbox("PioneerTest")
	out, err := s.CreatePayment(context.Background(), PaymentRequest{Amount: 1, Memo: "m"})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if out.Status != OutcomeApproved || out.PaymentID == "" {
		t.Fatalf("outcome = %+v, want approved with payment id", out)
	}
}

func TestSandboxScriptedOutcomes(t *testing.T) {
	s := NewSandbox("PioneerTest")
	ctx := context.Background()

	s.CancelNext()
	out, err := s.CreatePayment(ctx, PaymentRequest{Amount: 1})
	if err != nil || out.Status != OutcomeCancelled {
		t.Fatalf("cancel: out=%+v err=%v", out, err)
	}

	s.FailNext("horizon timeout")
	out, err = s.CreatePayment(ctx, PaymentRequest{Amount: 1})
	if err != nil || out.Status != OutcomeFailed || out.Reason != "horizon timeout" {
		t.Fatalf("fail: out=%+v err=%v", out, err)
	}

	s.IncompleteNext()
	out, err = s.CreatePayment(ctx, PaymentRequest{Amount: 1})
	if err != nil || out.Status != OutcomeIncomplete {
		t.Fatalf("incomplete: out=%+v err=%v", out, err)
	}

	// Scripted behaviors are one-shot.
	out, err = s.CreatePayment(ctx, PaymentRequest{Amount: 1})
	if err != nil || out.Status != OutcomeApproved {
		t.Fatalf("after scripts: out=%+v err=%v", out, err)
	}
}

func TestSandboxUnavailable(t *testing.T) {
	s := NewSandbox("PioneerTest")
	s.SetUnavailable(true)
	if _, err := s.Authenticate(context.Background(), []Scope{ScopeUsername}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("auth err = %v, want ErrUnavailable", err)
	}
	if _, err := s.CreatePayment(context.Background(), PaymentRequest{Amount: 1}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("create err = %v, want ErrUnavailable", err)
	}
}

func TestSandboxAuthIdentity(t *testing.T) {
	s := NewSandbox("PioneerTest")
	res, err := s.Authenticate(context.Background(), []Scope{ScopeUsername, ScopePayments})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.UID == "" || res.AccessToken == "" || res.Username != "PioneerTest" {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Scopes) != 2 {
		t.Fatalf("scopes = %v", res.Scopes)
	}
	if s.AuthCalls() != 1 {
		t.Fatalf("auth calls = %d, want 1", s.AuthCalls())
	}
}
