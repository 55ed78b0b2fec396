package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	DataDir      string `env:"DATA_DIR" envDefault:"data"`
	SeedAccounts int    `env:"SEED_ACCOUNTS" envDefault:"10"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv       string `env:"APP_ENV" envDefault:"production"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
