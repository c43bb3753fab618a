package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	ListenAddr         string
	PartsDataFile      string
	CacheTTL           time.Duration
	FiscalStartMonth   time.Month
	MinRecordFields    int
	CORSAllowedOrigins []string
	LogDir             string
}

// Load loads the configuration from .env files and environment variables.
// The .env next to the binary wins over the working directory one, which
// keeps deployed instances independent of where they are launched from.
func Load() (*AppConfig, error) {
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataFile := getEnv("PARTS_DATA_FILE", "")
	if dataFile == "" && exeDir != "" {
		dataFile = filepath.Join(exeDir, "data", "parts_orders.csv")
	}

	logDir := getEnv("LOGS_FOLDER", "")
	if logDir == "" {
		if exeDir != "" {
			logDir = filepath.Join(exeDir, "logs")
		} else {
			logDir = "logs"
		}
	}

	ttlSecs := getEnvInt("CACHE_TTL_SECONDS", 300)
	fiscalMonth := getEnvInt("FISCAL_START_MONTH", 2)
	if fiscalMonth < 1 || fiscalMonth > 12 {
		log.Warn().Int("month", fiscalMonth).Msg("FISCAL_START_MONTH out of range, using February")
		fiscalMonth = 2
	}

	cfg := &AppConfig{
		ListenAddr:         getEnv("LISTEN_ADDR", "localhost:8080"),
		PartsDataFile:      dataFile,
		CacheTTL:           time.Duration(ttlSecs) * time.Second,
		FiscalStartMonth:   time.Month(fiscalMonth),
		MinRecordFields:    getEnvInt("MIN_RECORD_FIELDS", 25),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogDir:             logDir,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
