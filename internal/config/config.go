// Package config handles loading and parsing application configuration.
// It supports three sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//  3. Environment variables alone — every field has a default, so the
//     server also starts with no config file at all.
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
//
// Everything is defaulted: the only knob most deployments touch is
// PORT.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"friends.db"`

	// StaticDir is the directory the map and admin pages are served from.
	StaticDir string `yaml:"static_dir" env:"STATIC_DIR" env-default:"./web/static"`

	// AdminToken gates the privileged routes (full list, create,
	// deletes, stats). Empty disables the check — the admin panel is
	// then as open as the public map, which matches the original
	// deployment on a trusted network.
	AdminToken string `yaml:"admin_token" env:"ADMIN_TOKEN"`

	// HTTPServer is embedded (not a pointer) so its fields are accessible
	// directly on Config after promotion: cfg.Port
	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Port is the TCP port the server listens on.
	Port int `yaml:"port" env:"PORT" env-default:"8080"`
}

// Addr returns the listen address for http.Server, e.g. ":8080".
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to panic/fatal on failure. Callers do not need to
// check a returned error — if this function returns, the config is valid.
func MustLoad() *Config {
	var configPath string

	// ── Source 1: environment variable ───────────────────────────────
	// Useful in Docker / Kubernetes where env vars are the standard way
	// to pass config to a container.
	configPath = os.Getenv("CONFIG_PATH")

	// ── Source 2: command-line flag ───────────────────────────────────
	// Useful when running locally:
	//   go run ./cmd/friends-api --config=config/local.yaml
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	var cfg Config

	// ── Source 3: pure environment ────────────────────────────────────
	// No config file is fine: every field carries env-default, so
	// ReadEnv alone yields a working configuration.
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err.Error())
		}
		return &cfg
	}

	// Verify the file exists before trying to read it, for a clear
	// message rather than a cryptic "open: no such file" later.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	// cleanenv.ReadConfig reads the YAML file and populates the struct,
	// then applies any env:"..." overrides from the environment.
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return &cfg
}
