package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	minSecretKeyLength = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type DatabaseConfig struct {
	Driver string
	Path   string
	URL    string
}

// DSN returns the connection string for the configured driver.
func (cfg DatabaseConfig) DSN() string {
	if cfg.Driver == DriverPostgres {
		return cfg.URL
	}
	return cfg.Path
}

type JoinAttemptsConfig struct {
	Limit  int
	Window time.Duration
}

type Config struct {
	Port         string
	Environment  string
	LogLevel     logrus.Level
	Database     DatabaseConfig
	SecretKey    string
	TokenTTL     time.Duration
	RedisURL     string
	JoinAttempts JoinAttemptsConfig
	SentryDSN    string
	CORSOrigins  string
}

func (cfg Config) IsProduction() bool {
	return cfg.Environment == "production"
}

// LoadDotEnv loads the given .env files into the process environment. Missing
// files are ignored and variables already set win.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("db_path", "data/sprintdesk.db")
	v.SetDefault("token_ttl", "168h")
	v.SetDefault("join_attempts_limit", 10)
	v.SetDefault("join_attempts_window", "15m")
	v.SetDefault("cors_origins", "*")
	v.AutomaticEnv()
	return v
}

// Load reads configuration from the environment and, when CONFIG_FILE is set,
// from that YAML file. Environment variables override file values.
func Load() (Config, error) {
	v := newViper()
	if path := strings.TrimSpace(v.GetString("config_file")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	port, err := ResolvePort(v.GetString("port"))
	if err != nil {
		return Config{}, err
	}
	secretKey, err := ResolveSecretKey(v.GetString("secret_key"))
	if err != nil {
		return Config{}, err
	}
	database, err := resolveDatabase(v)
	if err != nil {
		return Config{}, err
	}
	logLevel, err := logrus.ParseLevel(strings.TrimSpace(v.GetString("log_level")))
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	tokenTTL, err := positiveDuration(v, "token_ttl", "TOKEN_TTL")
	if err != nil {
		return Config{}, err
	}
	joinWindow, err := positiveDuration(v, "join_attempts_window", "JOIN_ATTEMPTS_WINDOW")
	if err != nil {
		return Config{}, err
	}
	joinLimit, err := strconv.Atoi(strings.TrimSpace(v.GetString("join_attempts_limit")))
	if err != nil || joinLimit <= 0 {
		return Config{}, errors.New("JOIN_ATTEMPTS_LIMIT must be a positive integer")
	}

	return Config{
		Port:         port,
		Environment:  strings.ToLower(strings.TrimSpace(v.GetString("environment"))),
		LogLevel:     logLevel,
		Database:     database,
		SecretKey:    secretKey,
		TokenTTL:     tokenTTL,
		RedisURL:     strings.TrimSpace(v.GetString("redis_url")),
		JoinAttempts: JoinAttemptsConfig{Limit: joinLimit, Window: joinWindow},
		SentryDSN:    strings.TrimSpace(v.GetString("sentry_dsn")),
		CORSOrigins:  strings.TrimSpace(v.GetString("cors_origins")),
	}, nil
}

func ResolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[secret]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func ResolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		return "8080", nil
	}
	value, err := strconv.Atoi(port)
	if err != nil || value < 1 || value > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return port, nil
}

func resolveDatabase(v *viper.Viper) (DatabaseConfig, error) {
	database := DatabaseConfig{
		Driver: strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
		Path:   strings.TrimSpace(v.GetString("db_path")),
		URL:    strings.TrimSpace(v.GetString("database_url")),
	}

	switch database.Driver {
	case DriverSQLite:
		if database.Path == "" {
			return DatabaseConfig{}, errors.New("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if database.URL == "" {
			return DatabaseConfig{}, errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return DatabaseConfig{}, fmt.Errorf("unsupported DB_DRIVER %q", database.Driver)
	}
	return database, nil
}

func positiveDuration(v *viper.Viper, key string, name string) (time.Duration, error) {
	value, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration", name)
	}
	return value, nil
}
