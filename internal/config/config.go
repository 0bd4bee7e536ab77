package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ストアバックエンドの種別
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Server
	ServerPort string `env:"PORT" envDefault:"5000"`

	// Firebase
	FirebaseKey       string `env:"FIREBASE_KEY,required,notEmpty"`
	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`
	AuthCheckRevoked  bool   `env:"AUTH_CHECK_REVOKED" envDefault:"false"`

	// Store
	StoreBackend string `env:"STORE_BACKEND" envDefault:"firestore"`
	DatabaseURL  string `env:"DATABASE_URL"`

	// Cache
	RedisAddr        string        `env:"REDIS_ADDR"`
	CategoryCacheTTL time.Duration `env:"CATEGORY_CACHE_TTL" envDefault:"5m"`

	// Events
	AMQPURL        string `env:"AMQP_URL"`
	EventsExchange string `env:"EVENTS_EXCHANGE" envDefault:"cartify.events"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Rate Limit（req/min）
	RateLimitGeneral int `env:"RATE_LIMIT_GENERAL" envDefault:"120"`
	RateLimitCreate  int `env:"RATE_LIMIT_CREATE" envDefault:"10"`

	// Product
	ProductImageProbe          bool          `env:"PRODUCT_IMAGE_PROBE" envDefault:"false"`
	ProductImageProbeTimeout   time.Duration `env:"PRODUCT_IMAGE_PROBE_TIMEOUT" envDefault:"5s"`
	ProductSanitizeDescription bool          `env:"PRODUCT_SANITIZE_DESCRIPTION" envDefault:"false"`

	// Observability
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合や値の組み合わせが不正な場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.CORSAllowedOrigins = normalizeOrigins(cfg.CORSAllowedOrigins)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDotEnv はカレントディレクトリの.envを読み込む。
// ファイルが無い場合は既存の環境変数のみで動作する。
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found; relying on existing environment")
	}
}

func (c *Config) validate() error {
	var missing []string

	switch c.StoreBackend {
	case BackendFirestore:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND: %q (allowed: %s, %s)", c.StoreBackend, BackendFirestore, BackendPostgres)
	}

	if len(missing) > 0 {
		return fmt.Errorf("required environment variables are not set: %v", missing)
	}

	if c.RateLimitGeneral <= 0 || c.RateLimitCreate <= 0 {
		return errors.New("RATE_LIMIT_GENERAL and RATE_LIMIT_CREATE must be positive")
	}

	return nil
}

// HTTPAddress はHTTPサーバーがバインドするアドレスを返す。
func (c *Config) HTTPAddress() string {
	return ":" + c.ServerPort
}

// LogLevelValue はLOG_LEVELをslog.Levelに変換する。未知の値はInfoとして扱う。
func (c *Config) LogLevelValue() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func normalizeOrigins(origins []string) []string {
	var out []string
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
