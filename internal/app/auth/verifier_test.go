package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPlatformVerifierAcceptsValidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := NewPlatformVerifierURL("server-key", srv.URL)
	if err := v.VerifyToken(context.Background(), "u1", "good"); err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if err := v.VerifyToken(context.Background(), "u1", "bad"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestPlatformVerifierUnreachable(t *testing.T) {
	v := NewPlatformVerifierURL("server-key", "http://127.0.0.1:1")
	if err := v.VerifyToken(context.Background(), "u1", "tok"); err == nil {
		t.Fatal("expected error for unreachable platform")
	}
}
