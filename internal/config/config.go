package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

var (
	ErrMissingToken    = errors.New("TELEGRAM_TOKEN is not set")
	ErrMissingOperator = errors.New("ADMIN_ID is not set")
)

type Config struct {
	TelegramToken string        `env:"TELEGRAM_TOKEN"`
	OperatorID    int64         `env:"ADMIN_ID"`
	SupabaseURL   string        `env:"SUPABASE_URL"`
	SupabaseKey   string        `env:"SUPABASE_KEY"`
	Workers       int           `env:"WORKERS,default=4"`
	PollTimeout   int           `env:"POLL_TIMEOUT,default=60"`
	SendTimeout   time.Duration `env:"SEND_TIMEOUT,default=10s"`
	MetricsAddr   string        `env:"METRICS_ADDR,default=:9090"`
	LogLevel      string        `env:"LOG_LEVEL,default=info"`
	LogFormat     string        `env:"LOG_FORMAT,default=json"`
	CopyFile      string        `env:"COPY_FILE"`
}

// ArchiveEnabled проверяет, заданы ли реквизиты Supabase для архива эскалаций
func (c *Config) ArchiveEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// LoadConfig читает .env (если он есть) и переменные окружения.
// Без токена или ID оператора бот не запускается.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return ErrMissingToken
	}
	if c.OperatorID == 0 {
		return ErrMissingOperator
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}
