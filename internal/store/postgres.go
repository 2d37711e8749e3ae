package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres wraps DB access.
type Postgres struct {
	Pool *pgxpool.Pool
}

func NewPostgres(dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &Postgres{Pool: pool}, nil
}

func (s *Postgres) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Postgres) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

func (s *Postgres) UpsertUser(ctx context.Context, uid, username string) (*User, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO users (uid, username) VALUES ($1, $2)
		ON CONFLICT (uid) DO UPDATE
		SET username = CASE WHEN EXCLUDED.username <> '' THEN EXCLUDED.username ELSE users.username END,
		    last_login = now()
		RETURNING uid, username, last_login, created_at
	`, uid, username)
	var u User
	if err := row.Scan(&u.UID, &u.Username, &u.LastLogin, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Postgres) CreatePayment(ctx context.Context, p *Payment) error {
	status := p.Status
	if status == "" {
		status = PaymentCreated
	}
	var meta []byte
	if p.Metadata != nil {
		b, err := json.Marshal(p.Metadata)
		if err != nil {
			return err
		}
		meta = b
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO payments (payment_id, user_id, amount, memo, metadata, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (payment_id) DO NOTHING
	`, p.PaymentID, p.UserID, p.Amount, p.Memo, meta, status)
	return err
}

func (s *Postgres) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT payment_id, user_id, amount, memo, metadata, status, completed_at, created_at, updated_at
		FROM payments WHERE payment_id = $1
	`, paymentID)
	return scanPayment(row)
}

func (s *Postgres) SetPaymentStatus(ctx context.Context, paymentID string, status PaymentStatus) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE payments SET status = $2, updated_at = now() WHERE payment_id = $1
	`, paymentID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) CompletePayment(ctx context.Context, paymentID string) (*Payment, bool, error) {
	// Conditional update keeps concurrent duplicate completions from
	// both claiming the transition.
	tag, err := s.Pool.Exec(ctx, `
		UPDATE payments SET status = 'completed', completed_at = now(), updated_at = now()
		WHERE payment_id = $1 AND status <> 'completed'
	`, paymentID)
	if err != nil {
		return nil, false, err
	}
	p, err := s.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, false, err
	}
	return p, tag.RowsAffected() == 1, nil
}

func (s *Postgres) InsertScore(ctx context.Context, sc *Score) error {
	id := sc.ID
	if id == "" {
		id = NewID()
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO scores (id, user_id, username, score, payment_id, payment_amount, payment_status, payment_completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, sc.UserID, sc.Username, sc.Score, sc.Receipt.PaymentID, sc.Receipt.Amount, sc.Receipt.Status, sc.Receipt.CompletedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateScore
		}
		return err
	}
	sc.ID = id
	return nil
}

func (s *Postgres) ScoreForPayment(ctx context.Context, paymentID string) (*Score, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, user_id, username, score, payment_id, payment_amount, payment_status, payment_completed_at, created_at
		FROM scores WHERE payment_id = $1
	`, paymentID)
	return scanScore(row)
}

func (s *Postgres) TopScores(ctx context.Context, n int) ([]Score, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, user_id, username, score, payment_id, payment_amount, payment_status, payment_completed_at, created_at
		FROM scores
		ORDER BY score DESC, created_at ASC, id ASC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScores(rows)
}

func (s *Postgres) ScoresForUser(ctx context.Context, uid string) ([]Score, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, user_id, username, score, payment_id, payment_amount, payment_status, payment_completed_at, created_at
		FROM scores
		WHERE user_id = $1
		ORDER BY score DESC, created_at ASC, id ASC
	`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScores(rows)
}

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	var meta []byte
	if err := row.Scan(&p.PaymentID, &p.UserID, &p.Amount, &p.Memo, &meta, &p.Status, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(meta) > 0 {
		_ = json.Unmarshal(meta, &p.Metadata)
	}
	return &p, nil
}

func scanScore(row pgx.Row) (*Score, error) {
	var sc Score
	if err := row.Scan(&sc.ID, &sc.UserID, &sc.Username, &sc.Score, &sc.Receipt.PaymentID, &sc.Receipt.Amount, &sc.Receipt.Status, &sc.Receipt.CompletedAt, &sc.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sc, nil
}

func collectScores(rows pgx.Rows) ([]Score, error) {
	out := []Score{}
	for rows.Next() {
		var sc Score
		if err := rows.Scan(&sc.ID, &sc.UserID, &sc.Username, &sc.Score, &sc.Receipt.PaymentID, &sc.Receipt.Amount, &sc.Receipt.Status, &sc.Receipt.CompletedAt, &sc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
