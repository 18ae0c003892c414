package config

import (
	"os"
	"time"
)

type Config struct {
	HTTPAddr        string
	ServiceName     string
	Env             string
	WebhookSecret   string
	ShutdownTimeout time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ServiceName:     getenv("SERVICE_NAME", "orders-inventory"),
		Env:             getenv("ENV", "dev"),
		WebhookSecret:   getenv("WEBHOOK_SECRET", "webhook-secret-key"),
		ShutdownTimeout: getduration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
