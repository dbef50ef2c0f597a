package app

import (
	"errors"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":5000"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	MongoURL             string        `envconfig:"MONGODB_URL" default:"mongodb://127.0.0.1:27017"`
	MongoDatabase        string        `envconfig:"MONGODB_DATABASE" default:"odyssey_admin"`
	MongoConnectTimeout  time.Duration `envconfig:"MONGODB_CONNECT_TIMEOUT" default:"10s"`
	MongoMaxPoolSize     uint64        `envconfig:"MONGODB_MAX_POOL_SIZE" default:"50"`
	MongoMinPoolSize     uint64        `envconfig:"MONGODB_MIN_POOL_SIZE" default:"0"`
	MongoMaxConnIdleTime time.Duration `envconfig:"MONGODB_MAX_CONN_IDLE_TIME" default:"5m"`
	MongoRetryAttempts   int           `envconfig:"MONGODB_RETRY_ATTEMPTS" default:"3"`
	MongoRetryInterval   time.Duration `envconfig:"MONGODB_RETRY_INTERVAL" default:"2s"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	JWTSecret  string        `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer  string        `envconfig:"JWT_ISSUER" default:"odyssey-admin"`
	TokenTTL   time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	BcryptCost int           `envconfig:"BCRYPT_COST" default:"10"`

	LoginMaxAttempts   int           `envconfig:"LOGIN_MAX_ATTEMPTS" default:"5"`
	LoginLockoutWindow time.Duration `envconfig:"LOGIN_LOCKOUT_WINDOW" default:"15m"`

	ReportCacheTTL time.Duration `envconfig:"REPORT_CACHE_TTL" default:"30s"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`
	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
}

var dotenvOnce sync.Once

// LoadConfig reads configuration from a .env file, when present, and the environment.
func LoadConfig() (*Config, error) {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
