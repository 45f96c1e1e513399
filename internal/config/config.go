package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Port        int
	APIKey      string // API key for authentication
	LogLevel    string
	LogFormat   string
	Environment string

	// Storage selects the persistence backend: "postgres" or "memory".
	// Memory mode mirrors the original JSON-file fallback and keeps the
	// server usable without a database.
	Storage    string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	TrustedProxies []string
}

// AgentConfig holds configuration for the sync agent.
type AgentConfig struct {
	ServerURL    string
	APIKey       string
	StateDir     string
	SyncInterval time.Duration
	LogLevel     string
	LogFormat    string
	Environment  string

	// ControlAddr is the loopback listen address for the local control
	// surface (manual sync, queue inspection). Empty disables it.
	ControlAddr string
}

// LoadServer loads server configuration from environment variables
func LoadServer() (*ServerConfig, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &ServerConfig{
		APIKey:      getEnv("API_KEY", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		Storage:     getEnv("STORAGE", "postgres"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "edudesk"),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if cfg.Storage != "postgres" && cfg.Storage != "memory" {
		return nil, fmt.Errorf("invalid STORAGE value %q: must be postgres or memory", cfg.Storage)
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// LoadAgent loads sync agent configuration from environment variables
func LoadAgent() (*AgentConfig, error) {
	_ = godotenv.Load()

	cfg := &AgentConfig{
		ServerURL:   getEnv("SERVER_URL", "http://localhost:8080"),
		APIKey:      getEnv("API_KEY", ""),
		StateDir:    getEnv("STATE_DIR", defaultStateDir()),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		ControlAddr: getEnv("CONTROL_ADDR", "127.0.0.1:8930"),
	}

	intervalStr := getEnv("SYNC_INTERVAL", "30s")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL value: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("SYNC_INTERVAL must be positive, got %s", interval)
	}
	cfg.SyncInterval = interval

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *ServerConfig) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".edudesk"
	}
	return home + "/.edudesk"
}
