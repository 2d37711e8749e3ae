// Package session owns the authenticated identity: obtaining it from
// the wallet, persisting it locally, restoring it on startup.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"simon-pi/internal/apiclient"
	"simon-pi/internal/localdata"
	"simon-pi/internal/wallet"

	"github.com/rs/zerolog/log"
)

// ErrAuthInProgress rejects a second authentication flow while one is
// pending. Calls are not queued; the caller simply retries later.
var ErrAuthInProgress = errors.New("authentication already in progress")

// Identity is the tuple the wallet hands back, as persisted under the
// pi_user key.
type Identity struct {
	UID         string         `json:"uid"`
	Username    string         `json:"username"`
	AccessToken string         `json:"accessToken"`
	Scopes      []wallet.Scope `json:"scopes,omitempty"`
}

// Verifier checks an identity against the backend.
type Verifier interface {
	VerifyAuth(ctx context.Context, req apiclient.VerifyRequest) (apiclient.VerifiedUser, error)
}

// Gate is the single writer of the identity. Scope is recorded at
// authentication time and never re-probed; privileged operations find
// out by attempting and handling rejection.
type Gate struct {
	sdk      wallet.SDK
	data     *localdata.Store
	verifier Verifier

	mu       sync.Mutex
	inFlight bool
	current  *Identity
}

// NewGate wires the gate. data and verifier may be nil: without data
// the identity is session-only, without verifier the backend check is
// skipped.
func NewGate(sdk wallet.SDK, data *localdata.Store, verifier Verifier) *Gate {
	return &Gate{sdk: sdk, data: data, verifier: verifier}
}

// Authenticate runs the wallet auth flow, verifies the result with the
// backend, and persists the identity. Only one flow may be in flight;
// concurrent calls fail fast with ErrAuthInProgress.
func (g *Gate) Authenticate(ctx context.Context) (Identity, error) {
	g.mu.Lock()
	if g.inFlight {
		g.mu.Unlock()
		return Identity{}, ErrAuthInProgress
	}
	g.inFlight = true
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.inFlight = false
		g.mu.Unlock()
	}()

	res, err := g.sdk.Authenticate(ctx, []wallet.Scope{wallet.ScopeUsername, wallet.ScopePayments})
	if err != nil {
		return Identity{}, fmt.Errorf("wallet authentication: %w", err)
	}
	id := Identity{
		UID:         res.UID,
		Username:    res.Username,
		AccessToken: res.AccessToken,
		Scopes:      res.Scopes,
	}

	if g.verifier != nil {
		_, err := g.verifier.VerifyAuth(ctx, apiclient.VerifyRequest{
			UID:         id.UID,
			Username:    id.Username,
			AccessToken: id.AccessToken,
		})
		if err != nil {
			return Identity{}, fmt.Errorf("backend verification: %w", err)
		}
	}

	if g.data != nil {
		if err := g.data.Put(localdata.KeyIdentity, id); err != nil {
			log.Warn().Err(err).Msg("persist identity failed; session will not survive restart")
		}
	}

	g.mu.Lock()
	g.current = &id
	g.mu.Unlock()
	return id, nil
}

// Restore loads a persisted identity and trusts it locally. A
// best-effort backend verification runs in the background and only
// logs; it never blocks or clears the restored session.
func (g *Gate) Restore(ctx context.Context) (Identity, bool) {
	if g.data == nil {
		return Identity{}, false
	}
	var id Identity
	if err := g.data.Get(localdata.KeyIdentity, &id); err != nil || id.UID == "" {
		return Identity{}, false
	}
	g.mu.Lock()
	g.current = &id
	g.mu.Unlock()

	if g.verifier != nil {
		go func() {
			vctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if _, err := g.verifier.VerifyAuth(vctx, apiclient.VerifyRequest{
				UID:         id.UID,
				Username:    id.Username,
				AccessToken: id.AccessToken,
			}); err != nil {
				log.Warn().Err(err).Str("uid", id.UID).Msg("restored session failed background verification")
			}
		}()
	}
	return id, true
}

// Current returns the active identity, if any.
func (g *Gate) Current() (Identity, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return Identity{}, false
	}
	return *g.current, true
}

// Logout clears the identity. Idempotent.
func (g *Gate) Logout() error {
	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()
	if g.data == nil {
		return nil
	}
	return g.data.Delete(localdata.KeyIdentity)
}
