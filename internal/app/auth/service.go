// Package auth verifies wallet-issued identities and records users.
package auth

import (
	"context"
	"errors"
	"fmt"

	"simon-pi/internal/store"
)

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrUnauthorized   = errors.New("unauthorized")
)

// TokenVerifier checks an access token against the wallet platform.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, uid, accessToken string) error
}

// SandboxVerifier accepts any non-empty token. Used in development runs
// where no wallet platform is reachable.
type SandboxVerifier struct{}

func (SandboxVerifier) VerifyToken(ctx context.Context, uid, accessToken string) error {
	if accessToken == "" {
		return ErrUnauthorized
	}
	return nil
}

type VerifyRequest struct {
	UID         string
	Username    string
	AccessToken string
}

type Service struct {
	st       store.Store
	verifier TokenVerifier
}

func NewService(st store.Store, verifier TokenVerifier) *Service {
	if verifier == nil {
		verifier = SandboxVerifier{}
	}
	return &Service{st: st, verifier: verifier}
}

// Verify validates the identity and upserts the user, stamping
// last_login. A missing username gets a stable placeholder derived
// from the uid.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (*store.User, error) {
	if req.UID == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrInvalidRequest)
	}
	if req.AccessToken == "" {
		return nil, fmt.Errorf("%w: accessToken is required", ErrInvalidRequest)
	}
	if err := s.verifier.VerifyToken(ctx, req.UID, req.AccessToken); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	username := req.Username
	if username == "" {
		username = defaultUsername(req.UID)
	}
	u, err := s.st.UpsertUser(ctx, req.UID, username)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func defaultUsername(uid string) string {
	if len(uid) > 5 {
		uid = uid[:5]
	}
	return "Pioneer_" + uid
}
