package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`

	FeePercentage string `env:"FEE_PERCENTAGE" envDefault:"1"`
	MinBuyAmount  string `env:"MIN_BUY_AMOUNT" envDefault:"5000"`
	MinSellAmount string `env:"MIN_SELL_AMOUNT" envDefault:"2000"`

	// SeedNairaBalance is the fiat balance granted when the account-creation
	// collaborator provisions a user's wallets. Zero writes no deposit entry.
	SeedNairaBalance string `env:"SEED_NAIRA_BALANCE" envDefault:"0"`

	SupportedAssets []string `env:"SUPPORTED_ASSETS" envDefault:"BTC,ETH,USDT"`

	PriceSourceURL    string `env:"PRICE_SOURCE_URL" envDefault:"https://api.coingecko.com/api/v3"`
	RateCacheTTLS     int    `env:"RATE_CACHE_TTL_S" envDefault:"60"`
	RateFetchTimeoutS int    `env:"RATE_FETCH_TIMEOUT_S" envDefault:"10"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
