// Package config handles persistent tradewatch configuration.
//
// Settings live in ~/.tradewatch/config.json and can be overridden
// per-run through TRADEWATCH_* environment variables (a .env file in
// the working directory is honored too).
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config is the persistent application configuration
type Config struct {
	// Account is the trade-site account whose listings are mirrored.
	Account string `json:"account" envconfig:"TRADEWATCH_ACCOUNT"`

	// League selects the trade league to query.
	League string `json:"league" envconfig:"TRADEWATCH_LEAGUE" default:"Standard"`

	// Realm is the realm path segment on fetch requests.
	Realm string `json:"realm" envconfig:"TRADEWATCH_REALM" default:"poe2"`

	// ProxyURL is the base URL of the cookie-forwarding proxy shim that
	// provides authenticated access to the upstream trade API.
	ProxyURL string `json:"proxy_url" envconfig:"TRADEWATCH_PROXY_URL" default:"http://localhost:7555/proxy/www.pathofexile.com/api/trade2"`

	// ReferenceCurrency is the currency comparable prices are normalized
	// into before aggregation.
	ReferenceCurrency string `json:"reference_currency" envconfig:"TRADEWATCH_REFERENCE_CURRENCY" default:"exalted"`

	// DBPath is the location of the local mirror database.
	DBPath string `json:"db_path" envconfig:"TRADEWATCH_DB_PATH"`
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tradewatch", "config.json")
}

// DefaultDBPath returns the default mirror database location.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tradewatch", "mirror.db")
}

// Load reads config from disk, applies defaults for missing fields, and
// overlays environment variables last (env wins over file).
func Load() (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(ConfigPath())
	if err == nil {
		if jsonErr := json.Unmarshal(data, &cfg); jsonErr != nil {
			// Corrupt config file falls back to defaults rather than
			// blocking startup.
			cfg = Config{}
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	var env Config
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}
	cfg.overlay(&env)

	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}

	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// overlay copies env values on top of the file config. An explicitly set
// environment variable always wins; envconfig struct defaults only fill
// fields the file left blank.
func (c *Config) overlay(env *Config) {
	isSet := func(key string) bool {
		_, ok := os.LookupEnv(key)
		return ok
	}

	if isSet("TRADEWATCH_ACCOUNT") || c.Account == "" {
		c.Account = env.Account
	}
	if isSet("TRADEWATCH_LEAGUE") || c.League == "" {
		c.League = env.League
	}
	if isSet("TRADEWATCH_REALM") || c.Realm == "" {
		c.Realm = env.Realm
	}
	if isSet("TRADEWATCH_PROXY_URL") || c.ProxyURL == "" {
		c.ProxyURL = env.ProxyURL
	}
	if isSet("TRADEWATCH_REFERENCE_CURRENCY") || c.ReferenceCurrency == "" {
		c.ReferenceCurrency = env.ReferenceCurrency
	}
	if isSet("TRADEWATCH_DB_PATH") {
		c.DBPath = env.DBPath
	}
}
