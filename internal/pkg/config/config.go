package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Server  ServerConfig
	Vending VendingConfig
	OTLP    OTLPConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type VendingConfig struct {
	CurrencyCode  string
	Denominations []int64 // empty selects the machine default set
	SpannerDB     string  // empty disables the sales journal
}

type OTLPConfig struct {
	Endpoint    string // empty disables OTLP trace export
	ServiceName string
	Environment string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	denominations, err := parseDenominations(os.Getenv("VENDING_DENOMINATIONS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Vending: VendingConfig{
			CurrencyCode:  getEnv("VENDING_CURRENCY", "SEK"),
			Denominations: denominations,
			SpannerDB:     os.Getenv("VENDING_SPANNER_DB"),
		},
		OTLP: OTLPConfig{
			Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "vending-service"),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
		},
	}, nil
}

// parseDenominations parses a comma-separated coin list, e.g. "1,5,25".
func parseDenominations(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid denomination %q: %w", part, err)
		}
		out = append(out, value)
	}
	return out, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
