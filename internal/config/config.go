package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env         string
	Port        string
	CORSOrigins []string

	DatabaseURL    string
	DBMaxRetries   int
	MigrationsPath string
	MigrateOnStart bool
	SeedJSONPath   string

	RedisAddr string

	KafkaBroker        string
	OutboxEnabled      bool
	OutboxPollInterval time.Duration

	Log LogConfig

	RateLimitRPS   float64
	RateLimitBurst int
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env when present, then environment variables over the defaults below.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Env:         v.GetString("APP_ENV"),
		Port:        v.GetString("PORT"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGIN")),

		DatabaseURL:    v.GetString("DATABASE_URL"),
		DBMaxRetries:   v.GetInt("DB_MAX_RETRIES"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		MigrateOnStart: v.GetBool("MIGRATE_ON_START"),
		SeedJSONPath:   v.GetString("SEED_JSON_PATH"),

		RedisAddr: strings.TrimSpace(v.GetString("REDIS_ADDR")),

		KafkaBroker:        strings.TrimSpace(v.GetString("KAFKA_BROKER")),
		OutboxEnabled:      v.GetBool("OUTBOX_ENABLED"),
		OutboxPollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),

		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			OutputPath: v.GetString("LOG_OUTPUT"),
		},

		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3333")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_RETRIES", 5)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("MIGRATE_ON_START", true)
	v.SetDefault("SEED_JSON_PATH", "./data/funcionarios.json")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("KAFKA_BROKER", "")
	v.SetDefault("OUTBOX_ENABLED", false)
	v.SetDefault("OUTBOX_POLL_INTERVAL", 3*time.Second)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.DBMaxRetries < 1 {
		return errors.New("DB_MAX_RETRIES must be at least 1")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.OutboxPollInterval <= 0 {
		return errors.New("OUTBOX_POLL_INTERVAL must be positive")
	}
	return nil
}

// ValidateWorker adds the requirements of the outbox relay process.
func (c *Config) ValidateWorker() error {
	if c.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
