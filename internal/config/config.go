// apps/go-server/internal/config/config.go
//
// Process configuration read from the environment.
// A .env file in the working directory is loaded first (development only;
// a missing file is not an error), then variables are decoded into Config.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/robalobadob/lexicle/apps/go-server/internal/game"
)

// Config holds every tunable of the server.
type Config struct {
	Port     int    `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogPretty switches from JSON lines to a colored console writer.
	LogPretty bool `env:"LOG_PRETTY" envDefault:"false"`

	// DictionaryFile is a JSON object of word → definition. Empty selects
	// the embedded default dictionary.
	DictionaryFile string `env:"DICTIONARY_FILE"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"./data/app.db"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"lexicle_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	Environment    string `env:"NODE_ENV" envDefault:"development"`

	DailySalt string `env:"DAILY_SALT" envDefault:"local_dev_salt"`

	// KnowledgePolicy is "overwrite" (latest observation wins) or "upgrade".
	KnowledgePolicy string        `env:"KNOWLEDGE_POLICY" envDefault:"overwrite"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse decodes the current environment without touching .env.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	if c.JWTExpiresDays <= 0 {
		return fmt.Errorf("config: JWT_EXPIRES_DAYS must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive")
	}
	if _, err := game.PolicyByName(c.KnowledgePolicy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Production reports whether cookies must be Secure / SameSite=None.
func (c Config) Production() bool { return c.Environment == "production" }

// Addr is the listen address for net/http.
func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// JWTTTL is the lifetime of issued auth tokens.
func (c Config) JWTTTL() time.Duration { return time.Duration(c.JWTExpiresDays) * 24 * time.Hour }
