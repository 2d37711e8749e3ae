package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"simon-pi/internal/apiclient"
	"simon-pi/internal/localdata"
	"simon-pi/internal/wallet"
)

// blockingSDK parks Authenticate until released, to exercise the
// single-flight guard.
type blockingSDK struct {
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (b *blockingSDK) Authenticate(ctx context.Context, scopes []wallet.Scope) (wallet.AuthResult, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	select {
	case <-b.release:
	case <-ctx.Done():
		return wallet.AuthResult{}, ctx.Err()
	}
	return wallet.AuthResult{UID: "u1", Username: "Alice", AccessToken: "tok", Scopes: scopes}, nil
}

func (b *blockingSDK) CreatePayment(ctx context.Context, req wallet.PaymentRequest) (wallet.PaymentOutcome, error) {
	return wallet.PaymentOutcome{Status: wallet.OutcomeApproved, PaymentID: "p"}, nil
}

type fakeVerifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeVerifier) VerifyAuth(ctx context.Context, req apiclient.VerifyRequest) (apiclient.VerifiedUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return apiclient.VerifiedUser{}, f.err
	}
	return apiclient.VerifiedUser{UID: req.UID, Username: req.Username}, nil
}

func openData(t *testing.T) *localdata.Store {
	t.Helper()
	s, err := localdata.Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("localdata.Open: %v", err)
	}
	return s
}

func TestAuthenticateSingleFlight(t *testing.T) {
	sdk := &blockingSDK{release: make(chan struct{})}
	g := NewGate(sdk, openData(t), nil)

	done := make(chan error, 1)
	go func() {
		_, err := g.Authenticate(context.Background())
		done <- err
	}()

	// Wait for the first flow to be in flight.
	deadline := time.After(2 * time.Second)
	for {
		sdk.mu.Lock()
		started := sdk.calls == 1
		sdk.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first authentication never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// Second call while pending: rejected, not queued.
	if _, err := g.Authenticate(context.Background()); !errors.Is(err, ErrAuthInProgress) {
		t.Fatalf("second call err = %v, want ErrAuthInProgress", err)
	}

	close(sdk.release)
	if err := <-done; err != nil {
		t.Fatalf("first call err = %v", err)
	}
	if sdk.calls != 1 {
		t.Fatalf("sdk auth calls = %d, want exactly 1", sdk.calls)
	}
	id, ok := g.Current()
	if !ok || id.UID != "u1" {
		t.Fatalf("current = %+v ok=%v", id, ok)
	}
}

func TestAuthenticatePersistsAndRestores(t *testing.T) {
	data := openData(t)
	sdk := wallet.NewSandbox("Alice")
	g := NewGate(sdk, data, nil)

	id, err := g.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.UID == "" || id.AccessToken == "" {
		t.Fatalf("identity = %+v", id)
	}

	// A fresh gate over the same data restores the session without the
	// wallet being involved.
	g2 := NewGate(wallet.NewSandbox("other"), data, nil)
	restored, ok := g2.Restore(context.Background())
	if !ok {
		t.Fatal("restore failed")
	}
	if restored.UID != id.UID || restored.AccessToken != id.AccessToken {
		t.Fatalf("restored = %+v, want %+v", restored, id)
	}
}

func TestAuthenticateVerifierRejectionClearsNothing(t *testing.T) {
	data := openData(t)
	v := &fakeVerifier{err: &apiclient.APIError{Status: 401, Message: "invalid token"}}
	g := NewGate(wallet.NewSandbox("Alice"), data, v)

	if _, err := g.Authenticate(context.Background()); err == nil {
		t.Fatal("expected verification error")
	}
	if _, ok := g.Current(); ok {
		t.Fatal("identity set despite failed verification")
	}
	var stored Identity
	if err := data.Get(localdata.KeyIdentity, &stored); err != localdata.ErrNotFound {
		t.Fatalf("identity persisted despite failed verification: %v", err)
	}
}

func TestRestoreDiscardsCorruptIdentity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	if err := os.WriteFile(path, []byte(`{"pi_user": 42}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := localdata.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	g := NewGate(wallet.NewSandbox("Alice"), data, nil)
	if _, ok := g.Restore(context.Background()); ok {
		t.Fatal("corrupt identity restored")
	}
	if _, ok := g.Current(); ok {
		t.Fatal("current set from corrupt identity")
	}
}

func TestRestoreVerifiesInBackground(t *testing.T) {
	data := openData(t)
	g := NewGate(wallet.NewSandbox("Alice"), data, nil)
	if _, err := g.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	v := &fakeVerifier{err: errors.New("backend down")}
	g2 := NewGate(wallet.NewSandbox("Alice"), data, v)
	id, ok := g2.Restore(context.Background())
	if !ok {
		t.Fatal("restore failed")
	}
	// Failed background verification must not clear the session.
	deadline := time.After(2 * time.Second)
	for {
		v.mu.Lock()
		ran := v.calls > 0
		v.mu.Unlock()
		if ran {
			break
		}
		select {
		case <-deadline:
			t.Fatal("background verification never ran")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	cur, ok := g2.Current()
	if !ok || cur.UID != id.UID {
		t.Fatalf("session lost after background verification: %+v ok=%v", cur, ok)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	data := openData(t)
	g := NewGate(wallet.NewSandbox("Alice"), data, nil)
	if _, err := g.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if err := g.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok := g.Current(); ok {
		t.Fatal("identity survived logout")
	}
	if err := g.Logout(); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if _, ok := g.Restore(context.Background()); ok {
		t.Fatal("identity restored after logout")
	}
}
