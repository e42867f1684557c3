package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/stepglobe/pkg/tgauth"
)

type Config struct {
	Env                 string        `env:"ENV" envDefault:"dev"`         // dev, staging, prod
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`  // debug, info, warn, error
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"` // json, text
	Port                int           `env:"PORT" envDefault:"8080"`       // HTTP server port
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	Issuer   string   `env:"AUTH_ISSUER" envDefault:"stepglobe"`
	Audience []string `env:"AUTH_AUDIENCE" envDefault:"stepglobe" envSeparator:","`

	// SigningKeyFile holds a PEM Ed25519 key, created on first start. When
	// empty NumKeys ephemeral keys are generated and sessions end on restart.
	SigningKeyFile string        `env:"AUTH_SIGNING_KEY_FILE" envDefault:"signing.pem"`
	NumKeys        int           `env:"AUTH_NUM_KEYS" envDefault:"1"`
	AccessTTL      time.Duration `env:"AUTH_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL     time.Duration `env:"AUTH_REFRESH_TTL" envDefault:"720h"`

	DatabaseFile string `env:"STEPGLOBE_DATABASE_FILE" envDefault:"stepglobe.db"`
	PepperFile   string `env:"STEPGLOBE_PEPPER_FILE" envDefault:"pepper"`

	// BlobDir stores screenshots. Empty disables screenshot intake.
	BlobDir string `env:"STEPGLOBE_BLOB_DIR" envDefault:"screenshots"`

	Telegram struct {
		BotToken      string        `env:"TELEGRAM_BOT_TOKEN,required"`
		KeyDerivation string        `env:"TELEGRAM_KEY_DERIVATION" envDefault:"sha256"` // sha256, raw
		ClaimMaxAge   time.Duration `env:"TELEGRAM_CLAIM_MAX_AGE" envDefault:"24h"`
		APIEndpoint   string        `env:"TELEGRAM_API_ENDPOINT"`

		// Notify turns on bot messages to admins and approved users.
		Notify      bool    `env:"TELEGRAM_NOTIFY" envDefault:"false"`
		AdminChatID int64   `env:"ADMIN_CHAT_ID"`
		AdminIDs    []int64 `env:"ADMIN_TELEGRAM_IDS" envSeparator:","`
	}

	// Redis caches the roster. Empty Addr disables the cache.
	Redis struct {
		Addr      string        `env:"REDIS_ADDR"`
		Password  string        `env:"REDIS_PASSWORD"`
		DB        int           `env:"REDIS_DB" envDefault:"0"`
		RosterTTL time.Duration `env:"REDIS_ROSTER_TTL" envDefault:"30s"`
	}

	// Gemini reads step counts off screenshots. Empty APIKey disables
	// screenshot intake.
	Gemini struct {
		APIKey            string `env:"GEMINI_API_KEY"`
		Model             string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
		BaseURL           string `env:"GEMINI_BASE_URL"`
		RequestsPerMinute int    `env:"GEMINI_REQUESTS_PER_MINUTE" envDefault:"15"`
	}

	Housekeeping struct {
		Schedule            string        `env:"HOUSEKEEPING_SCHEDULE" envDefault:"@every 1h"`
		ScreenshotRetention time.Duration `env:"HOUSEKEEPING_SCREENSHOT_RETENTION" envDefault:"720h"`
	}
}

// LoadConfig reads the environment, after loading .env when one exists.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if _, err := tgauth.ParseKeyDerivation(c.Telegram.KeyDerivation); err != nil {
		return fmt.Errorf("TELEGRAM_KEY_DERIVATION: %w", err)
	}
	if c.Issuer == "" {
		return errors.New("AUTH_ISSUER must not be empty")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("AUTH_ACCESS_TTL and AUTH_REFRESH_TTL must be positive")
	}
	return nil
}
