package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophquiz/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "GOPHQUIZ_"

var lookupEnv = os.LookupEnv

// parseEnv loads the dotenv file (-env-file, or ./.env when present) into
// the process environment without overriding variables that are already
// set, then copies every GOPHQUIZ_* variable it knows into config.
func parseEnv(config *Config, args []string) error {
	if path := flagx.EnvFilePath(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	str := func(key string, dst *string) {
		if v, ok := lookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)
	str("LOG_LEVEL", &config.LogLevel)
	str("CATALOG_PATH", &config.CatalogPath)
	str("COURSES_DIR", &config.CoursesDir)
	str("REDIS_ADDR", &config.RedisAddr)
	str("REDIS_PASSWORD", &config.RedisPassword)
	str("KAFKA_TOPIC", &config.KafkaTopic)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := lookupEnv(envPrefix + "KAFKA_BROKERS"); ok {
		config.KafkaBrokers = splitList(v)
	}

	if v, ok := lookupEnv(envPrefix + "SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSESSION_TTL: %w", envPrefix, err)
		}
		config.SessionTTL = d
	}

	ints := map[string]*int{
		"BCRYPT_COST": &config.BcryptCost,
		"REDIS_DB":    &config.RedisDB,
		"LOGIN_BURST": &config.LoginBurst,
	}
	for key, dst := range ints {
		if v, ok := lookupEnv(envPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = n
		}
	}

	if v, ok := lookupEnv(envPrefix + "LOGIN_RATE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sLOGIN_RATE: %w", envPrefix, err)
		}
		config.LoginRatePerSecond = f
	}

	return nil
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
