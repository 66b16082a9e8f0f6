package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultFeedURL = "https://s3.amazonaws.com/roxiler.com/product_transaction.json"

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Feed     FeedConfig
	Redis    RedisConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
}

// FeedConfig points at the third-party product sale feed.
type FeedConfig struct {
	URL     string
	Timeout time.Duration
}

// RedisConfig configures the summary cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a cache address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work as well (Docker/K8s)
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "3000"),
			ReadTimeout:  getSeconds("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getSeconds("SERVER_WRITE_TIMEOUT", 30),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "sales_dashboard"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getInt("DB_MAX_CONNS", 10)),
		},
		Feed: FeedConfig{
			URL:     getEnv("FEED_URL", defaultFeedURL),
			Timeout: getSeconds("FEED_TIMEOUT", 15),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
			TTL:      getSeconds("CACHE_TTL", 300),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	u, err := url.Parse(cfg.Feed.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid FEED_URL %q", cfg.Feed.URL)
	}

	return cfg, nil
}

// DSN renders the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getSeconds(key string, defaultValue int) time.Duration {
	n := getInt(key, defaultValue)
	if n <= 0 {
		n = defaultValue
	}
	return time.Duration(n) * time.Second
}
