package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV" env-default:"local"`
	HTTP     HTTPConfig
	Database DBConfig
	Redis    RedisConfig
	Market   MarketConfig
	Bot      BotConfig
}

type HTTPConfig struct {
	Port    uint16        `env:"HTTP_PORT" env-default:"8080"`
	Timeout time.Duration `env:"HTTP_TIMEOUT" env-default:"30s"`
}

type DBConfig struct {
	// Driver selects the backing store: "sqlite" for a local file,
	// "postgres" for a server.
	Driver   string `env:"DB_DRIVER" env-default:"sqlite"`
	Path     string `env:"SQLITE_PATH" env-default:"crypto_analyst.db"`
	Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
	Port     uint16 `env:"POSTGRES_PORT" env-default:"5432"`
	User     string `env:"POSTGRES_USER" env-default:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	DBName   string `env:"POSTGRES_DB" env-default:"crypto_analyst"`
}

type RedisConfig struct {
	Addr         string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	PriceChannel string `env:"REDIS_PRICE_CHANNEL" env-default:"price-updates"`
}

type MarketConfig struct {
	BaseURL      string        `env:"COINGECKO_BASE_URL" env-default:"https://api.coingecko.com/api/v3"`
	Currency     string        `env:"MARKET_CURRENCY" env-default:"usd"`
	SyncSpec     string        `env:"MARKET_SYNC_SPEC" env-default:"0 */5 * * * *"`
	FetchTimeout time.Duration `env:"MARKET_FETCH_TIMEOUT" env-default:"30s"`
	PageSize     int           `env:"MARKET_PAGE_SIZE" env-default:"100"`
}

type BotConfig struct {
	// BootstrapAdmins are the identities granted MASTER role on startup.
	BootstrapAdmins []string `env:"BOOTSTRAP_ADMINS" env-separator:","`
	DefaultLanguage string   `env:"DEFAULT_LANGUAGE" env-default:"en"`
}

func MustLoad() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment variables")
	}

	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("failed to read environment variables", "error", err)
		os.Exit(1)
	}

	return &cfg
}
