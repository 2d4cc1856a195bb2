package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"wedledger/pkg/logger"
)

type Config struct {
	HTTPPort        string
	Env             string
	PublicBaseURL   string
	DefaultLanguage string
	CORSOrigins     []string
	InviteTTL       time.Duration
	DB              DBConfig
	Auth            AuthConfig
	SMS             SMSConfig
	Rates           RatesConfig
	Redis           RedisConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type AuthConfig struct {
	SkipAuth      bool
	SessionSecret string
	SessionTTL    time.Duration
}

type SMSConfig struct {
	Provider string
	BaseURL  string
	APIKey   string
	Sender   string
	Timeout  time.Duration
}

type RatesConfig struct {
	BaseURL      string
	BaseCurrency string
	Timeout      time.Duration
	Cache        string
	CacheTTL     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:5173"), "/"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		InviteTTL:       getEnvDuration("INVITE_TTL", 7*24*time.Hour),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "wedledger"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Auth: AuthConfig{
			SkipAuth:      getEnvBool("AUTH_SKIP", false),
			SessionSecret: getEnv("SESSION_SECRET", ""),
			SessionTTL:    getEnvDuration("SESSION_TTL", 30*24*time.Hour),
		},
		SMS: SMSConfig{
			Provider: strings.ToLower(getEnv("SMS_PROVIDER", "log")),
			BaseURL:  getEnv("SMS_BASE_URL", ""),
			APIKey:   getEnv("SMS_API_KEY", ""),
			Sender:   getEnv("SMS_SENDER", ""),
			Timeout:  getEnvDuration("SMS_TIMEOUT", 10*time.Second),
		},
		Rates: RatesConfig{
			BaseURL:      getEnv("RATES_BASE_URL", "https://open.er-api.com/v6"),
			BaseCurrency: strings.ToUpper(getEnv("RATES_BASE_CURRENCY", "USD")),
			Timeout:      getEnvDuration("RATES_TIMEOUT", 5*time.Second),
			Cache:        strings.ToLower(getEnv("RATES_CACHE", "memory")),
			CacheTTL:     getEnvDuration("RATES_CACHE_TTL", time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if !c.Auth.SkipAuth && c.Auth.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required unless AUTH_SKIP is set")
	}
	switch c.SMS.Provider {
	case "log":
	case "http":
		if c.SMS.BaseURL == "" {
			return fmt.Errorf("SMS_BASE_URL is required for SMS_PROVIDER=http")
		}
	default:
		return fmt.Errorf("unknown SMS_PROVIDER %q", c.SMS.Provider)
	}
	switch c.Rates.Cache {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("unknown RATES_CACHE %q", c.Rates.Cache)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
