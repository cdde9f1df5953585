package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required,notEmpty"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// Session store
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// The single privileged operator identity.
	AdminID int64 `env:"ADMIN_ID,required,notEmpty"`

	// Shown to banned users in the denial message.
	SupportContact string `env:"SUPPORT_CONTACT" envDefault:"@MargetSeller"`

	// Metrics
	MetricsPort int `env:"METRICS_PORT" envDefault:"9090"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	return telegramID == c.AdminID
}
