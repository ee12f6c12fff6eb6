package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	AppName     = "catalog-vision"
	EnvFileName = "config.env"
)

// LoadEnvFile loads environment variables from the config file in the user's
// config directory. Errors are ignored since the file may not exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// Config holds environment-derived settings for the analyzer.
type Config struct {
	GeminiAPIKey        string
	CacheCapacity       int
	CacheTTL            time.Duration
	BatchSize           int
	ConfidenceThreshold float64
	DBPath              string
}

// FromEnv reads configuration from the environment. Unset or malformed
// values fall back to zero so the analyzer applies its own defaults.
func FromEnv() Config {
	return Config{
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		CacheCapacity:       envInt("ANALYZER_CACHE_CAPACITY"),
		CacheTTL:            envDuration("ANALYZER_CACHE_TTL"),
		BatchSize:           envInt("ANALYZER_BATCH_SIZE"),
		ConfidenceThreshold: envFloat("ANALYZER_CONFIDENCE_THRESHOLD"),
		DBPath:              os.Getenv("ANALYZER_DB_PATH"),
	}
}

func envInt(name string) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return 0
	}
	return v
}

func envFloat(name string) float64 {
	v, err := strconv.ParseFloat(os.Getenv(name), 64)
	if err != nil {
		return 0
	}
	return v
}

func envDuration(name string) time.Duration {
	v, err := time.ParseDuration(os.Getenv(name))
	if err != nil {
		return 0
	}
	return v
}
