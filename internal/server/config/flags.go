package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophquiz/internal/flagx"
)

var knownFlags = []string{
	"-a", "-d", "-s", "-t", "-l",
	"-bcrypt-cost", "-catalog", "-courses",
	"-redis", "-kafka-brokers", "-kafka-topic",
	"-u", "-p", "-b", "-g", "-e",
	"-login-rate", "-login-burst",
}

// parseFlags overlays config with command-line flags:
//
//	-a              HTTP listen address
//	-d              PostgreSQL DSN
//	-s              session signing key
//	-t              session lifetime (e.g. 24h)
//	-l              log level
//	-bcrypt-cost    bcrypt work factor
//	-catalog        path to the quiz catalog JSON
//	-courses        directory with course PDFs
//	-redis          Redis address for sessions
//	-kafka-brokers  comma separated Kafka brokers for progress events
//	-kafka-topic    Kafka topic
//	-u -p -b -g -e  S3 user, password, bucket, region, endpoint
//	-login-rate     login attempts per second per client
//	-login-burst    login burst size
//
// Unknown arguments (for example -c and -env-file) are filtered out first.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session lifetime")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.IntVar(&config.BcryptCost, "bcrypt-cost", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.CatalogPath, "catalog", config.CatalogPath, "quiz catalog file")
	fs.StringVar(&config.CoursesDir, "courses", config.CoursesDir, "course materials directory")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address")
	brokers := fs.String("kafka-brokers", strings.Join(config.KafkaBrokers, ","), "kafka brokers")
	fs.StringVar(&config.KafkaTopic, "kafka-topic", config.KafkaTopic, "kafka topic")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.Float64Var(&config.LoginRatePerSecond, "login-rate", config.LoginRatePerSecond, "login attempts per second")
	fs.IntVar(&config.LoginBurst, "login-burst", config.LoginBurst, "login burst")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	config.KafkaBrokers = splitList(*brokers)
	return nil
}
