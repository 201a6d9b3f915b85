package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	BaseURL     string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	Log    LogConfig
	Redis  RedisConfig
	Notify NotifyConfig
	SMTP   SMTPConfig
}

type LogConfig struct {
	Level       string
	Format      string
	ServiceName string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type NotifyConfig struct {
	Stream         string
	Group          string
	Consumer       string
	QueueSize      int
	HandlerTimeout time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	accessExpiry, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	handlerTimeout, err := time.ParseDuration(getEnv("NOTIFY_HANDLER_TIMEOUT", "5s"))
	if err != nil {
		handlerTimeout = 5 * time.Second
	}

	hostname, _ := os.Hostname()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),

		JWTSecret:       getEnvOrPanic("JWT_SECRET"),
		JWTAccessExpiry: accessExpiry,

		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			ServiceName: getEnv("SERVICE_NAME", "maintenance-api"),
		},

		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},

		Notify: NotifyConfig{
			Stream:         getEnv("NOTIFY_STREAM", "maintenance:events"),
			Group:          getEnv("NOTIFY_GROUP", "notifier"),
			Consumer:       getEnv("NOTIFY_CONSUMER", hostname),
			QueueSize:      getEnvInt("NOTIFY_QUEUE_SIZE", 256),
			HandlerTimeout: handlerTimeout,
		},

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
