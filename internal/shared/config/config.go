package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string
	AdminToken      string

	// Ledger settings. The contract address is provisioned externally;
	// the service never deploys contracts at startup.
	LedgerRPCURL          string
	LedgerContractAddress string
	LedgerPrivateKey      string
	LedgerConfirmTimeout  time.Duration
	LedgerPollInterval    time.Duration
	LedgerRPCRate         int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	if env == "production" && os.Getenv("LEDGER_CONTRACT_ADDRESS") == "" {
		log.Printf("LEDGER_CONTRACT_ADDRESS is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,
		AdminToken:      os.Getenv("ADMIN_TOKEN"),

		LedgerRPCURL:          getEnv("LEDGER_RPC_URL", "http://localhost:8545"),
		LedgerContractAddress: os.Getenv("LEDGER_CONTRACT_ADDRESS"),
		LedgerPrivateKey:      os.Getenv("LEDGER_PRIVATE_KEY"),
		LedgerConfirmTimeout:  getEnvDuration("LEDGER_CONFIRM_TIMEOUT", 30*time.Second),
		LedgerPollInterval:    getEnvDuration("LEDGER_POLL_INTERVAL", 500*time.Millisecond),
		LedgerRPCRate:         getEnvInt("LEDGER_RPC_RATE", 50),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config %s invalid duration: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
