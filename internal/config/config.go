// Package config provides configuration management using viper.
// It supports loading from YAML files, a .env file and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported storage and session backends.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Validation errors.
var (
	ErrMissingToken   = errors.New("bot token is required")
	ErrUnknownDriver  = errors.New("unknown database driver")
	ErrUnknownBackend = errors.New("unknown session backend")
)

// Config holds all application configuration.
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Games    GamesConfig    `mapstructure:"games"`
	Log      LogConfig      `mapstructure:"log"`
}

// BotConfig holds Telegram bot and polling configuration.
type BotConfig struct {
	Token       string        `mapstructure:"token"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	IdleDelay   time.Duration `mapstructure:"idle_delay"`
	Synchronous bool          `mapstructure:"synchronous"`
}

// AdminConfig holds the privileged operator identities.
type AdminConfig struct {
	IDs []int64 `mapstructure:"ids"`
}

// DatabaseConfig selects and configures the relational store.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// SessionConfig selects where in-flight game sessions live.
type SessionConfig struct {
	Backend  string        `mapstructure:"backend"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// GamesConfig holds game-specific configuration.
type GamesConfig struct {
	Guess GuessConfig `mapstructure:"guess"`
	Quiz  QuizConfig  `mapstructure:"quiz"`
}

// GuessConfig holds guess-the-number configuration.
type GuessConfig struct {
	MaxNumber   int `mapstructure:"max_number"`
	MaxAttempts int `mapstructure:"max_attempts"`
}

// QuizConfig holds quiz configuration.
type QuizConfig struct {
	Points int `mapstructure:"points"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in configPath, the working directory and ./config.
// A .env file in the working directory is applied first without overriding
// variables that are already set.
func Load(configPath string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// e.g. BOT_TOKEN, ADMIN_IDS, DATABASE_DRIVER
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.poll_timeout", "30s")
	v.SetDefault("bot.retry_delay", "5s")
	v.SetDefault("bot.idle_delay", "500ms")
	v.SetDefault("bot.synchronous", true)

	v.SetDefault("admin.ids", []int64{})

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "games.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "minigames")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "minigames")
	v.SetDefault("database.pool_size", 5)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	v.SetDefault("session.backend", SessionMemory)
	v.SetDefault("session.redis_url", "redis://localhost:6379/0")
	v.SetDefault("session.ttl", "0s")

	v.SetDefault("games.guess.max_number", 10)
	v.SetDefault("games.guess.max_attempts", 3)
	v.SetDefault("games.quiz.points", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
}

// Validate checks that the configuration can start the bot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Bot.Token) == "" {
		return ErrMissingToken
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}
	switch c.Session.Backend {
	case SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Session.Backend)
	}
	return nil
}

// IsAdmin checks if a user ID is in the admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}
