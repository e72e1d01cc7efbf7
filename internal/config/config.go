// Package config holds runtime configuration for both binaries.
// Values come from the environment with sensible defaults; the mains
// layer command-line flags on top, with flags winning.
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// HTTP Server
	Port int

	// Store
	Backend    string // json, sqlite, or memory
	StorePath  string
	BackupPath string // empty means <StorePath>.bak
}

func Load() *Config {
	return &Config{
		Port:       getEnvInt("PORT", 8080),
		Backend:    getEnv("STORE_BACKEND", "json"),
		StorePath:  getEnv("STORE_PATH", "billcalc.json"),
		BackupPath: getEnv("BACKUP_PATH", ""),
	}
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	switch c.Backend {
	case "json", "sqlite", "memory":
	default:
		return fmt.Errorf("invalid backend %q: must be json, sqlite, or memory", c.Backend)
	}
	if c.StorePath == "" {
		return fmt.Errorf("store path must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
