package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Postgres PostgresConfig
	Redis    RedisConfig
	S3       S3Config
	Geo      GeoConfig
	Routes   RoutesConfig
}

type PostgresConfig struct {
	DSN string `env:"DATABASE_DSN, default=postgres://localhost:5432/starter?sslmode=disable"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type S3Config struct {
	Endpoint     string `env:"S3_ENDPOINT"`
	Region       string `env:"S3_REGION, default=auto"`
	Bucket       string `env:"S3_BUCKET, default=starter-avatars"`
	AccessKey    string `env:"S3_ACCESS_KEY"`
	SecretKey    string `env:"S3_SECRET_KEY"`
	PublicDomain string `env:"S3_PUBLIC_DOMAIN, default=dev-r2.wildcloud.app"`
}

// GeoConfig drives the geographic access filter. When AllowedCountries is
// non-empty it takes precedence and BlockedCountries is ignored.
type GeoConfig struct {
	BlockedCountries []string `env:"GEO_BLOCKED_COUNTRIES, default=CN,RU"`
	AllowedCountries []string `env:"GEO_ALLOWED_COUNTRIES"`
	BlockMessage     string   `env:"GEO_BLOCK_MESSAGE"`
	RedirectURL      string   `env:"GEO_REDIRECT_URL"`
}

// DefaultBlockMessage is shown on the 403 block page when no custom
// message is configured.
const DefaultBlockMessage = "Sorry, access from your region is currently restricted."

// RoutesConfig classifies request paths for the middleware pipeline.
type RoutesConfig struct {
	ProtectedPages []string `env:"PROTECTED_PAGES, default=/settings,/profile,/kv-demo"`
	ProtectedAPIs  []string `env:"PROTECTED_APIS,  default=/api/language,/api/avatar,/api/kv,/api/settings,/api/auth/logout,/api/auth/me"`
	AuthPages      []string `env:"AUTH_PAGES,      default=/signin,/register"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	if cfg.Geo.BlockMessage == "" {
		cfg.Geo.BlockMessage = DefaultBlockMessage
	}
	return &cfg
}
