package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is a map-backed Store for tests and DSN-less development runs.
// State is lost when the process exits.
type Memory struct {
	mu       sync.Mutex
	users    map[string]*User
	payments map[string]*Payment
	// scores keeps insertion order so leaderboard ties stay stable.
	scores    []*Score
	byPayment map[string]*Score
}

func NewMemory() *Memory {
	return &Memory{
		users:     make(map[string]*User),
		payments:  make(map[string]*Payment),
		byPayment: make(map[string]*Score),
	}
}

func (m *Memory) Ping(ctx context.Context) error { return nil }
func (m *Memory) Close()                         {}

func (m *Memory) UpsertUser(ctx context.Context, uid, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	u, ok := m.users[uid]
	if !ok {
		u = &User{UID: uid, Username: username, CreatedAt: now}
		m.users[uid] = u
	} else if username != "" {
		u.Username = username
	}
	u.LastLogin = now
	cp := *u
	return &cp, nil
}

func (m *Memory) CreatePayment(ctx context.Context, p *Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[p.PaymentID]; ok {
		return nil
	}
	now := time.Now().UTC()
	cp := *p
	if cp.Status == "" {
		cp.Status = PaymentCreated
	}
	cp.CreatedAt = now
	cp.UpdatedAt = now
	m.payments[p.PaymentID] = &cp
	return nil
}

func (m *Memory) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[paymentID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) SetPaymentStatus(ctx context.Context, paymentID string, status PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[paymentID]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) CompletePayment(ctx context.Context, paymentID string) (*Payment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[paymentID]
	if !ok {
		return nil, false, ErrNotFound
	}
	if p.Status == PaymentCompleted {
		cp := *p
		return &cp, false, nil
	}
	now := time.Now().UTC()
	p.Status = PaymentCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
	cp := *p
	return &cp, true, nil
}

func (m *Memory) InsertScore(ctx context.Context, sc *Score) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byPayment[sc.Receipt.PaymentID]; ok {
		return ErrDuplicateScore
	}
	cp := *sc
	if cp.ID == "" {
		cp.ID = NewID()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	m.scores = append(m.scores, &cp)
	m.byPayment[cp.Receipt.PaymentID] = &cp
	return nil
}

func (m *Memory) ScoreForPayment(ctx context.Context, paymentID string) (*Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sc, ok := m.byPayment[paymentID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sc
	return &cp, nil
}

func (m *Memory) TopScores(ctx context.Context, n int) ([]Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ordered := make([]*Score, len(m.scores))
	copy(ordered, m.scores)
	// Stable sort over insertion order: equal scores keep earliest first.
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})
	if n > len(ordered) {
		n = len(ordered)
	}
	out := make([]Score, 0, n)
	for _, sc := range ordered[:n] {
		out = append(out, *sc)
	}
	return out, nil
}

func (m *Memory) ScoresForUser(ctx context.Context, uid string) ([]Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Score{}
	for _, sc := range m.scores {
		if sc.UserID == uid {
			out = append(out, *sc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
