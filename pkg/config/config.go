package config

import (
	"errors"
	"os"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

type Config struct {
	BackendBaseURL string        `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8081"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"10s"`
	RetryAttempts  int           `env:"RETRY_ATTEMPTS"   envDefault:"3"`
	StateDir       string        `env:"STATE_DIR"        envDefault:".portal-state"`
	LogLevel       string        `env:"LOG_LEVEL"        envDefault:"info"`

	// SuperuserName enables the legacy username-based admin bypass.
	// Empty disables it.
	SuperuserName string `env:"SUPERUSER_NAME" envDefault:"zucitech"`

	FallbackPath string `env:"FALLBACK_PATH" envDefault:"/dashboard"`
	LoginPath    string `env:"LOGIN_PATH"    envDefault:"/login"`
}

func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	err = env.Parse(&c)
	if err != nil {
		return Config{}, err
	}

	if c.BackendBaseURL == "" {
		return Config{}, errors.New("BACKEND_BASE_URL must not be empty")
	}

	return c, nil
}
