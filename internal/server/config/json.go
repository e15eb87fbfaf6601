package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophquiz/internal/flagx"
	"github.com/dmitrijs2005/gophquiz/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations use
// timex.Duration so both "24h" and integer nanoseconds are accepted.
// Absent keys leave the current value untouched.
type JsonConfig struct {
	HTTPAddr           string         `json:"http_addr"`
	DatabaseDSN        string         `json:"database_dsn"`
	SecretKey          string         `json:"secret_key"`
	SessionTTL         timex.Duration `json:"session_ttl"`
	BcryptCost         int            `json:"bcrypt_cost"`
	LogLevel           string         `json:"log_level"`
	CatalogPath        string         `json:"catalog_path"`
	CoursesDir         string         `json:"courses_dir"`
	RedisAddr          string         `json:"redis_addr"`
	RedisPassword      string         `json:"redis_password"`
	RedisDB            *int           `json:"redis_db"`
	KafkaBrokers       []string       `json:"kafka_brokers"`
	KafkaTopic         string         `json:"kafka_topic"`
	S3RootUser         string         `json:"s3_root_user"`
	S3RootPassword     string         `json:"s3_root_password"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	LoginRatePerSecond *float64       `json:"login_rate_per_second"`
	LoginBurst         int            `json:"login_burst"`
}

// parseJson overlays config with the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.CatalogPath, c.CatalogPath)
	setString(&config.CoursesDir, c.CoursesDir)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.KafkaTopic, c.KafkaTopic)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if len(c.KafkaBrokers) > 0 {
		config.KafkaBrokers = c.KafkaBrokers
	}
	// zero is meaningful here: it turns login rate limiting off
	if c.LoginRatePerSecond != nil {
		config.LoginRatePerSecond = *c.LoginRatePerSecond
	}
	if c.LoginBurst != 0 {
		config.LoginBurst = c.LoginBurst
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
