package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	PostgresDSN string

	KafkaBrokers string
	EventsTopic  string

	// PaymentTimeout is how long an order may sit awaiting payment before
	// the expiry sweep cancels it.
	PaymentTimeout time.Duration
	// ExpirySweepInterval is how often the sweep runs.
	ExpirySweepInterval time.Duration

	// Default delivery fee policy, used for establishments that have not
	// configured their own. Amounts in centavos.
	DefaultDeliveryFee       int64
	DefaultFreeDeliveryAbove int64

	CheckoutMaxConcurrent int
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),
		EventsTopic:  getEnv("EVENTS_TOPIC", "farmadelivery.order-events"),

		PaymentTimeout:      getEnvDuration("PAYMENT_TIMEOUT", 30*time.Minute),
		ExpirySweepInterval: getEnvDuration("EXPIRY_SWEEP_INTERVAL", time.Minute),

		DefaultDeliveryFee:       getEnvInt64("DEFAULT_DELIVERY_FEE", 500),
		DefaultFreeDeliveryAbove: getEnvInt64("DEFAULT_FREE_DELIVERY_ABOVE", 5000),

		CheckoutMaxConcurrent: getEnvInt("CHECKOUT_MAX_CONCURRENT", 10),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
