package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDataDir     = "LEADSNAP_DATA_DIR"
	EnvModel       = "LEADSNAP_OPENAI_MODEL"
	EnvBaseURL     = "LEADSNAP_OPENAI_BASE_URL"
	EnvDebuggerURL = "LEADSNAP_DEBUGGER_URL"
	EnvPort        = "LEADSNAP_PORT"
)

// LoadDotEnv loads .env files into the process environment. Variables that
// are already set win. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides config values from LEADSNAP_* variables.
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		cfg.OpenAI.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.OpenAI.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDebuggerURL)); v != "" {
		cfg.Browser.DebuggerURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.App.DataDir = v
	}
}

// DataDir resolves the data directory: flag, then env, then ".".
func DataDir(flag string) string {
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		return v
	}
	return "."
}
