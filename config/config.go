package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Wall-clock source for slot generation and availability.
	Timezone string `mapstructure:"TIMEZONE"`

	// Redis configuration.
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB       int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB       int    `mapstructure:"REDIS_QUEUE_DB"`
	RedisPubSubEnabled bool   `mapstructure:"REDIS_PUBSUB_ENABLED"`

	// Booking rules.
	MaxActiveReservations int `mapstructure:"MAX_ACTIVE_RESERVATIONS"`
	TxMaxRetries          int `mapstructure:"TX_MAX_RETRIES"`
	TxRetryInitialMs      int `mapstructure:"TX_RETRY_INITIAL_MS"`

	// Maintenance jobs.
	MaintenanceEnabled  bool   `mapstructure:"MAINTENANCE_ENABLED"`
	MaintenanceInterval string `mapstructure:"MAINTENANCE_INTERVAL"`
	PregenerateDays     int    `mapstructure:"PREGENERATE_DAYS"`

	// Metrics export. An empty collector address keeps counters in-process.
	OtelCollectorAddr     string `mapstructure:"OTEL_COLLECTOR_ADDR"`
	OtelExportIntervalSec int    `mapstructure:"OTEL_EXPORT_INTERVAL_SEC"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017/?replicaSet=rs0")
	viper.SetDefault("DATABASE_NAME", "courtbook")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TIMEZONE", "Local")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("REDIS_PUBSUB_ENABLED", false)
	viper.SetDefault("MAX_ACTIVE_RESERVATIONS", 2)
	viper.SetDefault("TX_MAX_RETRIES", 5)
	viper.SetDefault("TX_RETRY_INITIAL_MS", 20)
	viper.SetDefault("MAINTENANCE_ENABLED", true)
	viper.SetDefault("MAINTENANCE_INTERVAL", "@every 15m")
	viper.SetDefault("PREGENERATE_DAYS", 7)
	viper.SetDefault("OTEL_COLLECTOR_ADDR", "")
	viper.SetDefault("OTEL_EXPORT_INTERVAL_SEC", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves the configured timezone, falling back to the host zone.
func Location() *time.Location {
	if AppConfig.Timezone == "" || AppConfig.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, using host timezone", AppConfig.Timezone)
		return time.Local
	}
	return loc
}

// TxRetryInitial is the first backoff interval for transient store errors.
func TxRetryInitial() time.Duration {
	if AppConfig.TxRetryInitialMs <= 0 {
		return 20 * time.Millisecond
	}
	return time.Duration(AppConfig.TxRetryInitialMs) * time.Millisecond
}
