// Package config loads runtime configuration for the gophquiz terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the quiz server
//	-t duration request timeout (e.g. 10s)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "request_timeout": "10s"
//	}
package config
