package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	BackendURL string
	ListenAddr string
	StatePath  string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	LogLevel string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		BackendURL:   os.Getenv("BACKEND_URL"),
		ListenAddr:   envDefault("LISTEN_ADDR", ":8080"),
		StatePath:    envDefault("STATE_PATH", "liquorfront.db"),
		KafkaBrokers: csv(os.Getenv("KAFKA_BROKERS")),
		ESURL:        os.Getenv("ES_URL"),
		ESUser:       os.Getenv("ES_USER"),
		ESPassword:   os.Getenv("ES_PASSWORD"),
		ESIndex:      envDefault("ES_INDEX", "product"),
		LogLevel:     envDefault("LOG_LEVEL", "info"),
	}

	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("missing required env BACKEND_URL")
	}
	return cfg, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
