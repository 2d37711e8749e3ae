// Package leaderboard serves the top-N ranking and per-user score
// history.
package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"simon-pi/internal/store"
)

var ErrInvalidRequest = errors.New("invalid_request")

type Service struct {
	st store.Store
	n  int
}

// NewService wires the leaderboard over the store. n caps how many
// entries Top returns.
func NewService(st store.Store, n int) *Service {
	if n <= 0 {
		n = 10
	}
	return &Service{st: st, n: n}
}

// Top returns the highest scores, best first. Ties keep the earlier
// submission ahead.
func (s *Service) Top(ctx context.Context) ([]store.Score, error) {
	return s.st.TopScores(ctx, s.n)
}

// ForUser returns every saved score of one user, best first.
func (s *Service) ForUser(ctx context.Context, uid string) ([]store.Score, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	}
	return s.st.ScoresForUser(ctx, uid)
}
