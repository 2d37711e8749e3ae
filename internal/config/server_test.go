package config

import "testing"

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Fatalf("HTTPAddr = %q, want :3000", cfg.HTTPAddr)
	}
	if cfg.PaymentAmount != 1 {
		t.Fatalf("PaymentAmount = %v, want 1", cfg.PaymentAmount)
	}
	if cfg.LeaderboardN != 10 {
		t.Fatalf("LeaderboardN = %d, want 10", cfg.LeaderboardN)
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/simon?sslmode=disable")
	t.Setenv("HTTP_ADDR", ":8090")
	t.Setenv("PAYMENT_AMOUNT", "2.5")
	t.Setenv("LEADERBOARD_SIZE", "25")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.PostgresDSN == "" {
		t.Fatal("PostgresDSN not picked up")
	}
	if cfg.HTTPAddr != ":8090" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.PaymentAmount != 2.5 {
		t.Fatalf("PaymentAmount = %v, want 2.5", cfg.PaymentAmount)
	}
	if cfg.LeaderboardN != 25 {
		t.Fatalf("LeaderboardN = %d, want 25", cfg.LeaderboardN)
	}
}
