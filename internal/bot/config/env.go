package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from WINELOG_* environment variables.
// Unset variables leave the current value alone. Numeric variables that
// fail to parse are ignored rather than fatal; flags can still correct them.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("WINELOG_BOT_TOKEN"); ok {
		config.BotToken = v
	}
	if v, ok := os.LookupEnv("WINELOG_DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("WINELOG_S3_ROOT_USER"); ok {
		config.S3RootUser = v
	}
	if v, ok := os.LookupEnv("WINELOG_S3_ROOT_PASSWORD"); ok {
		config.S3RootPassword = v
	}
	if v, ok := os.LookupEnv("WINELOG_S3_BUCKET"); ok {
		config.S3Bucket = v
	}
	if v, ok := os.LookupEnv("WINELOG_S3_REGION"); ok {
		config.S3Region = v
	}
	if v, ok := os.LookupEnv("WINELOG_S3_BASE_ENDPOINT"); ok {
		config.S3BaseEndpoint = v
	}
	if v, ok := os.LookupEnv("WINELOG_SESSION_BACKEND"); ok {
		config.SessionBackend = v
	}
	if v, ok := os.LookupEnv("WINELOG_SESSION_FILE_PATH"); ok {
		config.SessionFilePath = v
	}
	if v, ok := os.LookupEnv("WINELOG_SESSION_TTL_MINUTES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.SessionTTL = time.Duration(n) * time.Minute
		}
	}
	if v, ok := os.LookupEnv("WINELOG_UPLOAD_WORKERS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.UploadWorkers = n
		}
	}
	if v, ok := os.LookupEnv("WINELOG_WEB_ADDR"); ok {
		config.WebAddr = v
	}
}
