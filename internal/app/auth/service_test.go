package auth

import (
	"context"
	"errors"
	"testing"

	"simon-pi/internal/store"
)

func TestVerifyUpsertsUser(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st, nil)

	u, err := svc.Verify(context.Background(), VerifyRequest{
		UID: "u123456", Username: "Alice", AccessToken: "tok",
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if u.UID != "u123456" || u.Username != "Alice" || u.LastLogin.IsZero() {
		t.Fatalf("user = %+v", u)
	}

	// A second verify refreshes last_login on the same row.
	again, err := svc.Verify(context.Background(), VerifyRequest{
		UID: "u123456", Username: "Alice", AccessToken: "tok",
	})
	if err != nil {
		t.Fatalf("second Verify: %v", err)
	}
	if again.CreatedAt != u.CreatedAt {
		t.Fatalf("created_at changed on re-verify: %v -> %v", u.CreatedAt, again.CreatedAt)
	}
	if again.LastLogin.Before(u.LastLogin) {
		t.Fatalf("last_login went backwards")
	}
}

func TestVerifyDefaultsUsername(t *testing.T) {
	svc := NewService(store.NewMemory(), nil)
	u, err := svc.Verify(context.Background(), VerifyRequest{UID: "abcdefgh", AccessToken: "tok"})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if u.Username != "Pioneer_abcde" {
		t.Fatalf("username = %q", u.Username)
	}
}

func TestVerifyValidation(t *testing.T) {
	svc := NewService(store.NewMemory(), nil)
	if _, err := svc.Verify(context.Background(), VerifyRequest{AccessToken: "tok"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("missing uid: err = %v", err)
	}
	if _, err := svc.Verify(context.Background(), VerifyRequest{UID: "u1"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("missing token: err = %v", err)
	}
}

type rejectingVerifier struct{}

func (rejectingVerifier) VerifyToken(ctx context.Context, uid, token string) error {
	return errors.New("platform says no")
}

func TestVerifyRejectedToken(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st, rejectingVerifier{})
	if _, err := svc.Verify(context.Background(), VerifyRequest{UID: "u1", AccessToken: "bad"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
