package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/winelog/internal/flagx"
	"github.com/dmitrijs2005/winelog/internal/timex"
)

// JsonConfig is the intermediate DTO for reading JSON configuration files.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "30m" and integer nanoseconds. After unmarshalling,
// its fields are copied into the runtime Config struct.
type JsonConfig struct {
	BotToken        string         `json:"bot_token"`
	DatabaseDSN     string         `json:"database_dsn"`
	S3RootUser      string         `json:"s3_root_user"`
	S3RootPassword  string         `json:"s3_root_password"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	SessionBackend  string         `json:"session_backend"`
	SessionFilePath string         `json:"session_file_path"`
	SessionTTL      timex.Duration `json:"session_ttl"`
	UploadWorkers   int            `json:"upload_workers"`
	WebAddr         string         `json:"web_addr"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.BotToken = c.BotToken
	config.DatabaseDSN = c.DatabaseDSN
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.SessionBackend = c.SessionBackend
	config.SessionFilePath = c.SessionFilePath
	config.SessionTTL = time.Duration(c.SessionTTL.Duration)
	config.UploadWorkers = c.UploadWorkers
	config.WebAddr = c.WebAddr
}
