package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultTokenTTL is used when ACCESS_TOKEN_EXPIRE_MINUTES is unset or not positive.
const DefaultTokenTTL = 30 * time.Minute

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env        string `env:"ENV" envDefault:"development"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"mysql"`
	DatabaseURL    string `env:"DATABASE_URL" envDefault:"user:password@tcp(localhost:3306)/tasks?charset=utf8mb4&parseTime=True&loc=Local"`
	ResetDB        bool   `env:"RESET_DB"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	SecretKey                string `env:"SECRET_KEY" envDefault:"change-me"`
	Algorithm                string `env:"ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`

	OAuthHTTPTimeout time.Duration `env:"OAUTH_HTTP_TIMEOUT" envDefault:"10s"`
	OAuthStateTTL    time.Duration `env:"OAUTH_STATE_TTL" envDefault:"10m"`
	OAuthVerifyState bool          `env:"OAUTH_VERIFY_STATE"`
	Google           ProviderEnv   `envPrefix:"GOOGLE_"`
	GitHub           ProviderEnv   `envPrefix:"GITHUB_"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	CORSMethods []string `env:"CORS_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	CORSHeaders []string `env:"CORS_HEADERS" envSeparator:"," envDefault:"Authorization,Content-Type"`

	SwaggerHost string `env:"SWAGGER_HOST"`
}

// ProviderEnv holds the raw settings of one OAuth provider.
type ProviderEnv struct {
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	RedirectURI  string   `env:"REDIRECT_URI"`
	AuthURL      string   `env:"AUTH_URL"`
	TokenURL     string   `env:"TOKEN_URL"`
	UserInfoURL  string   `env:"USERINFO_URL"`
	EmailsURL    string   `env:"EMAILS_URL"`
	Scopes       []string `env:"SCOPES" envSeparator:","`
}

// Enabled reports whether the provider has enough settings to run a login flow.
func (p ProviderEnv) Enabled() bool {
	return p.ClientID != "" && p.ClientSecret != "" && p.RedirectURI != ""
}

// Load reads the optional dotenv file for the current ENV and builds Config from the environment.
// Variables already present in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(dotenvFile(os.Getenv("ENV"))); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load dotenv: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.CORSOrigins = trimCSV(cfg.CORSOrigins)
	cfg.CORSMethods = trimCSV(cfg.CORSMethods)
	cfg.CORSHeaders = trimCSV(cfg.CORSHeaders)
	cfg.Google.Scopes = trimCSV(cfg.Google.Scopes)
	cfg.GitHub.Scopes = trimCSV(cfg.GitHub.Scopes)
	return &cfg, nil
}

// TokenTTL returns the access token lifetime.
func (c *Config) TokenTTL() time.Duration {
	if c.AccessTokenExpireMinutes <= 0 {
		return DefaultTokenTTL
	}
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func dotenvFile(environment string) string {
	if environment == "production" {
		return ".env"
	}
	if environment == "" {
		environment = "development"
	}
	return ".env." + environment
}

func trimCSV(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
