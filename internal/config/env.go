// Package config loads environment-driven settings and sets up logging.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the process-level settings. Per-run match options (columns,
// thresholds, keep_all) come from CLI flags or request fields instead; they
// describe a run, not the process.
type Config struct {
	Host        string
	Port        int
	MaxUploadMB int
	LogLevel    string
	LogFile     string

	// LogPretty selects the human-readable console writer; false emits raw
	// JSON lines on stderr for log shippers.
	LogPretty bool

	// ResultStoreDSN enables Postgres persistence of match runs when set.
	ResultStoreDSN string
}

// Load reads configuration from the environment, after merging in a .env
// file when one is present.
func Load() Config {
	LoadEnv()
	return Config{
		Host:           GetEnv("HOST", "127.0.0.1"),
		Port:           GetEnvInt("PORT", 8080),
		MaxUploadMB:    GetEnvInt("MAX_UPLOAD_MB", 128),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		LogFile:        GetEnv("LOG_FILE", "logs/locmatch.log"),
		LogPretty:      GetEnvBool("LOG_PRETTY", true),
		ResultStoreDSN: GetEnv("RESULT_STORE_DSN", ""),
	}
}

// Addr returns the host:port listen address.
func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// LoadEnv loads variables from a .env file in the current or a parent
// directory. Existing environment values win.
func LoadEnv() {
	for _, envPath := range []string{".env", "../.env", "../../.env"} {
		data, err := os.ReadFile(envPath)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
		break
	}
}

// GetEnv gets an environment variable with a default.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an integer environment variable with a default.
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvBool gets a boolean environment variable with a default.
func GetEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return defaultValue
}
