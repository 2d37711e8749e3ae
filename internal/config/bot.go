package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	APIURL   string `env:"API_URL" envDefault:"http://localhost:3000"`
	Username string `env:"BOT_USERNAME" envDefault:"PioneerBot"`
	// Rounds is how many rounds the bot replays correctly before it
	// deliberately misses and saves the resulting score.
	Rounds  int    `env:"BOT_ROUNDS" envDefault:"5"`
	DataDir string `env:"BOT_DATA_DIR" envDefault:"."`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
