// Package config конфигурация процессов из переменных окружения.
package config

import (
	"github.com/caarlos0/env"
	"github.com/pkg/errors"
)

// Config общая конфигурация бота и вебхук-сервера.
type Config struct {
	// Telegram
	BotToken    string  `env:"BOT_TOKEN"`
	OperatorIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Postgres
	PGConn string `env:"PG_CONN"`

	// NATS
	NatsURL string `env:"NATS_URL" envDefault:"nats://127.0.0.1:4222"`

	// Robokassa
	RobokassaLogin     string `env:"ROBOKASSA_LOGIN"`
	RobokassaPassword1 string `env:"ROBOKASSA_PASSWORD1"`
	RobokassaPassword2 string `env:"ROBOKASSA_PASSWORD2"`
	RobokassaTestMode  bool   `env:"ROBOKASSA_TEST_MODE" envDefault:"true"`

	// Веб-сервер платежных callback-ов
	WebPort string `env:"PORT" envDefault:"8081"`

	// Каталог тарифов
	CatalogPath string `env:"CATALOG_PATH" envDefault:"tariffs_data.json"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "Failed parse envs.")
	}
	return cfg, nil
}

// ValidateBot проверки, без которых бот-процесс не стартует.
func (c *Config) ValidateBot() error {
	if c.BotToken == "" {
		return errors.New("ENV BOT_TOKEN must be set")
	}
	if len(c.OperatorIDs) == 0 {
		return errors.New("ENV ADMIN_IDS must be set")
	}
	if c.PGConn == "" {
		return errors.New("ENV PG_CONN must be set")
	}
	return nil
}

// ValidateWebhook проверки для вебхук-процесса.
func (c *Config) ValidateWebhook() error {
	if c.PGConn == "" {
		return errors.New("ENV PG_CONN must be set")
	}
	if c.RobokassaLogin == "" || c.RobokassaPassword2 == "" {
		return errors.New("ENV ROBOKASSA_LOGIN and ROBOKASSA_PASSWORD2 must be set")
	}
	return nil
}

// RobokassaConfigured включен ли онлайн-прием платежей.
func (c *Config) RobokassaConfigured() bool {
	return c.RobokassaLogin != "" && c.RobokassaPassword1 != "" && c.RobokassaPassword2 != ""
}
