package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophquiz/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Arguments other than -a and -t are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the quiz server")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")

	return fs.Parse(flagx.FilterArgs(args, []string{"-a", "-t"}))
}
