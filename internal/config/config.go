package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds broker settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// RedisConfig holds settings for the booking lock. An empty Addr selects the in-process lock.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ServiceConfig holds all configuration for the payment service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	DBConfig       DatabaseConfig
	KafkaConfig    KafkaConfig
	RedisConfig    RedisConfig
	BookingLockTTL time.Duration
	RequestTimeout time.Duration
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*ServiceConfig, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return &ServiceConfig{
		Port:   servicePort(v.GetString("SERVICE_PORT")),
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		KafkaConfig:    loadKafkaConfig(v),
		RedisConfig:    loadRedisConfig(v),
		BookingLockTTL: bookingLockTTL(v.GetDuration("BOOKING_LOCK_TTL"), v.GetDuration("REQUEST_TIMEOUT")),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
	}, nil
}

// bookingLockTTL keeps the lock alive at least as long as a request may run.
func bookingLockTTL(ttl, requestTimeout time.Duration) time.Duration {
	if ttl < requestTimeout {
		return requestTimeout
	}
	return ttl
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_PORT", "8084")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "venue_payments")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "venue-")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("BOOKING_LOCK_TTL", "20s")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
}

// loadKafkaConfig splits the comma-separated broker list.
func loadKafkaConfig(v *viper.Viper) KafkaConfig {
	var brokers []string
	for _, b := range strings.Split(v.GetString("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return KafkaConfig{
		Brokers:     brokers,
		GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
	}
}

func loadRedisConfig(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Addr:     v.GetString("REDIS_ADDR"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}
}

func servicePort(p string) string {
	if strings.HasPrefix(p, ":") {
		return p
	}
	return ":" + p
}
