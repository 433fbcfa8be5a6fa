package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// HOSPITALIS_CONSOLE_API_BASE_URL.
const EnvPrefix = "hospitalis"

type Config struct {
	Console  ConsoleConfig  `mapstructure:"console" envconfig:"console"`
	Server   ServerConfig   `mapstructure:"server" envconfig:"server"`
	Database DatabaseConfig `mapstructure:"database" envconfig:"db"`
	JWT      JWTConfig      `mapstructure:"jwt" envconfig:"jwt"`
	SMTP     SMTPConfig     `mapstructure:"smtp" envconfig:"smtp"`
	Log      LogConfig      `mapstructure:"log" envconfig:"log"`
}

// ConsoleConfig configures the doctor console client.
type ConsoleConfig struct {
	APIBaseURL string        `mapstructure:"api_base_url" split_words:"true"`
	Timeout    time.Duration `mapstructure:"timeout" split_words:"true"`
	// SessionStore is one of file, redis or memory.
	SessionStore string `mapstructure:"session_store" split_words:"true"`
	SessionFile  string `mapstructure:"session_file" split_words:"true"`
	// SessionKey is a base64 AES key (16, 24 or 32 bytes). When set the
	// session file is encrypted.
	SessionKey string  `mapstructure:"session_key" split_words:"true"`
	RedisURL   string  `mapstructure:"redis_url" split_words:"true"`
	RateLimit  float64 `mapstructure:"rate_limit" split_words:"true"`
	RateBurst  int     `mapstructure:"rate_burst" split_words:"true"`
	// BreakerFailures consecutive transport failures open the breaker.
	BreakerFailures int           `mapstructure:"breaker_failures" split_words:"true"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout" split_words:"true"`
}

// ServerConfig configures the reference backend.
type ServerConfig struct {
	Port int `mapstructure:"port" split_words:"true"`
	// Storage is memory or postgres.
	Storage        string        `mapstructure:"storage" split_words:"true"`
	TimeoutSeconds int           `mapstructure:"timeoutSeconds" split_words:"true"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" split_words:"true"`
	RateLimit      float64       `mapstructure:"rate_limit" split_words:"true"`
	RateBurst      int           `mapstructure:"rate_burst" split_words:"true"`
	MaxPageSize    int           `mapstructure:"max_page_size" split_words:"true"`
	ShutdownGrace  time.Duration `mapstructure:"shutdown_grace" split_words:"true"`
	// Expired reset tokens are purged every TokenCleanupInterval once they
	// are older than TokenRetention.
	TokenCleanupInterval time.Duration `mapstructure:"token_cleanup_interval" split_words:"true"`
	TokenRetention       time.Duration `mapstructure:"token_retention" split_words:"true"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" split_words:"true"`
	Port     int    `mapstructure:"port" split_words:"true"`
	User     string `mapstructure:"user" split_words:"true"`
	Password string `mapstructure:"password" split_words:"true"`
	Name     string `mapstructure:"name" split_words:"true"`
	SSLMode  string `mapstructure:"sslmode" split_words:"true"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" split_words:"true"`
	Issuer      string `mapstructure:"issuer" split_words:"true"`
	ExpiryHours int    `mapstructure:"expiry_hours" split_words:"true"`
}

// SMTPConfig is used for password-reset mail. An empty Host logs the mail
// instead of sending it.
type SMTPConfig struct {
	Host     string `mapstructure:"host" split_words:"true"`
	Port     int    `mapstructure:"port" split_words:"true"`
	Username string `mapstructure:"username" split_words:"true"`
	Password string `mapstructure:"password" split_words:"true"`
	From     string `mapstructure:"from" split_words:"true"`
	ResetURL string `mapstructure:"reset_url" split_words:"true"`
}

type LogConfig struct {
	Level string `mapstructure:"level" split_words:"true"`
	JSON  bool   `mapstructure:"json" split_words:"true"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("console.api_base_url", "http://localhost:3000")
	v.SetDefault("console.timeout", 15*time.Second)
	v.SetDefault("console.session_store", "file")
	v.SetDefault("console.session_file", defaultSessionFile())
	v.SetDefault("console.redis_url", "redis://localhost:6379/0")
	v.SetDefault("console.rate_limit", 20.0)
	v.SetDefault("console.rate_burst", 10)
	v.SetDefault("console.breaker_failures", 5)
	v.SetDefault("console.breaker_timeout", 30*time.Second)

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.storage", "memory")
	v.SetDefault("server.timeoutSeconds", 30)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.rate_limit", 50.0)
	v.SetDefault("server.rate_burst", 100)
	v.SetDefault("server.max_page_size", 100)
	v.SetDefault("server.shutdown_grace", 5*time.Second)
	v.SetDefault("server.token_cleanup_interval", time.Hour)
	v.SetDefault("server.token_retention", 24*time.Hour)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "hospitalis")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.issuer", "hospitalis")
	v.SetDefault("jwt.expiry_hours", 24)

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "no-reply@hospitalis.local")
	v.SetDefault("smtp.reset_url", "http://localhost:5173/reset-password")

	v.SetDefault("log.level", "info")
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "hospitalis", "session.json")
}

// LoadConfig reads config.yaml from path (or ., ./config when path is
// empty), fills defaults, then applies HOSPITALIS_* environment overrides.
// A missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return &config, nil
}
