package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	MongoURI       string   `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB        string   `env:"MONGO_DB" envDefault:"remotebricks"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173,http://localhost:3000"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
