// Package config handles configuration for the command-line client:
// defaults, JSON overlay, environment and flags.
package config

import (
	"encoding/json"
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/staffql/internal/flagx"
	"github.com/dmitrijs2005/staffql/internal/timex"
)

// Config holds runtime settings for the staffql CLI.
type Config struct {
	ServerURL      string
	Token          string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with local development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:4000/graphql"
	c.RequestTimeout = 10 * time.Second
}

// JsonConfig is the on-disk shape of the client config file.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	Token          string         `json:"token"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

var lookupEnv = os.LookupEnv

// Load builds a Config from defaults, the JSON file named by -c/-config,
// STAFFQL_URL and STAFFQL_TOKEN, and finally flags. It returns the
// remaining positional arguments (the command and its arguments).
func Load(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.JsonConfigFlags(args); path != "" {
		if err := parseJson(cfg, path); err != nil {
			return nil, nil, err
		}
	}

	if v, ok := lookupEnv("STAFFQL_URL"); ok && v != "" {
		cfg.ServerURL = v
	}
	if v, ok := lookupEnv("STAFFQL_TOKEN"); ok && v != "" {
		cfg.Token = v
	}

	fs := flag.NewFlagSet("staffql-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var jsonPath string
	fs.StringVar(&jsonPath, "c", "", "path to config file")
	fs.StringVar(&jsonPath, "config", "", "path to config file")
	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "GraphQL endpoint URL")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "bearer token")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request timeout")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return cfg, fs.Args(), nil
}

func parseJson(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c := &JsonConfig{}
	if err := json.Unmarshal(b, c); err != nil {
		return err
	}
	if c.ServerURL != "" {
		cfg.ServerURL = c.ServerURL
	}
	if c.Token != "" {
		cfg.Token = c.Token
	}
	if c.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = c.RequestTimeout.Duration
	}
	return nil
}
