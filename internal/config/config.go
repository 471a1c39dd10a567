package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

const minSecretLen = 32

type Config struct {
	APIBaseURL    string        `env:"API_BASE_URL"`
	ServerPort    string        `env:"SERVER_PORT" envDefault:"8080"`
	SessionSecret string        `env:"SESSION_SECRET"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"false"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	APITimeout    time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	LoginRate     float64       `env:"LOGIN_RATE" envDefault:"1"`
	LoginBurst    int           `env:"LOGIN_BURST" envDefault:"5"`
}

// Load reads envPath (a missing file is fine) and then the environment.
func Load(envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envPath, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is not set")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q is not an http(s) URL", c.APIBaseURL)
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is not set")
	}
	if len(c.SessionSecret) < minSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSecretLen)
	}
	if c.LoginRate <= 0 || c.LoginBurst <= 0 {
		return errors.New("LOGIN_RATE and LOGIN_BURST must be positive")
	}
	return nil
}

// ClientConfig is what clinicctl needs: only the API origin.
type ClientConfig struct {
	APIBaseURL  string        `env:"API_BASE_URL"`
	SessionFile string        `env:"CLINICCTL_SESSION_FILE"`
	APITimeout  time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"warn"`
}

func LoadClient(envPath string) (*ClientConfig, error) {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envPath, err)
	}

	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.APIBaseURL == "" {
		return nil, errors.New("API_BASE_URL is not set")
	}
	return &cfg, nil
}
