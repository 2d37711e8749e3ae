package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	// PostgresDSN empty means the server runs on the in-memory store.
	PostgresDSN string `env:"POSTGRES_DSN"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":3000"`

	// PiAPIKey authorizes calls to the Pi platform API. An empty key
	// keeps the server in sandbox mode: access tokens are accepted as
	// long as one is present.
	PiAPIKey string `env:"PI_API_KEY"`

	PaymentAmount float64 `env:"PAYMENT_AMOUNT" envDefault:"1"`
	LeaderboardN  int     `env:"LEADERBOARD_SIZE" envDefault:"10"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
