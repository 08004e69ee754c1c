package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var Empty = new(Config)

type Config struct {
	AppEnv       string  `envconfig:"APP_ENV"`
	Port         int     `envconfig:"PORT"`
	SentryDSN    string  `envconfig:"SENTRY_DSN"`
	AllowOrigins string  `envconfig:"ALLOW_ORIGINS"`
	RateLimit    float64 `envconfig:"RATE_LIMIT"`

	// MovieAPI configures the upstream movie database. Key stays server side.
	MovieAPI struct {
		Key       string        `envconfig:"MOVIE_API_KEY"`
		Host      string        `envconfig:"MOVIE_API_HOST" default:"moviesdatabase.p.rapidapi.com"`
		BaseURL   string        `envconfig:"MOVIE_API_BASE_URL" default:"https://moviesdatabase.p.rapidapi.com"`
		Timeout   time.Duration `envconfig:"MOVIE_API_TIMEOUT" default:"10s"`
		RateLimit float64       `envconfig:"MOVIE_API_RATE_LIMIT" default:"5"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	return cfg, nil
}

// Origins splits ALLOW_ORIGINS into the list echo's CORS middleware expects.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
