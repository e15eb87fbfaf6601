package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophquiz/internal/flagx"
	"github.com/dmitrijs2005/gophquiz/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
