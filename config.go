package auth

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig is the environment backed configuration value object. It is
// built once at startup and injected explicitly; nothing in the engine
// reads ambient globals.
type EnvConfig struct {
	SigningKey      string        `env:"JWT_SECRET,notEmpty"`
	TokenExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"1h"`
	Issuer          string        `env:"JWT_ISSUER" envDefault:"vitasync-auth"`
	InternalAPIKey  string        `env:"INTERNAL_API_KEY"`
	ListenAddr      string        `env:"LISTEN_ADDR" envDefault:":8080"`
	DSN             string        `env:"DATABASE_DSN" envDefault:"file:vitasync.db?cache=shared"`
}

// LoadConfig parses the configuration from the environment
func LoadConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *EnvConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *EnvConfig) GetTokenExpiration() time.Duration {
	return c.TokenExpiration
}

func (c *EnvConfig) GetIssuer() string {
	return c.Issuer
}

func (c *EnvConfig) GetInternalAPIKey() string {
	return c.InternalAPIKey
}

var _ Config = (*EnvConfig)(nil)
