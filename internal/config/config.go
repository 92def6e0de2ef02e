// Package config loads client configuration.
//
// Values are layered, later layers winning:
//
//  1. built-in defaults
//  2. the YAML config file (--config, TEAMWORK_CONFIG, or ~/.teamwork/config.yaml)
//  3. a .env file in the working directory, loaded into the environment
//  4. TEAMWORK_* environment variables
//  5. command-line flags that were set explicitly
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Mode selects where identities come from.
type Mode string

const (
	// ModeLocal synthesizes identities without a backend.
	ModeLocal Mode = "local"
	// ModeRemote sends login and registration to the API.
	ModeRemote Mode = "remote"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the client configuration.
type Config struct {
	Mode Mode `yaml:"mode"`

	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`

	// RestoreDelay is how long the loading screen shows at startup.
	RestoreDelay time.Duration `yaml:"restore_delay"`

	// DocsURL is opened by `teamwork docs` and the dashboard's "o" key.
	DocsURL string `yaml:"docs_url"`
}

// APIConfig configures the backend client.
type APIConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig configures where the session is persisted.
type StorageConfig struct {
	// Backend is "file", "redis" or "memory".
	Backend string `yaml:"backend"`
	// File is the FileKV path.
	File        string `yaml:"file"`
	RedisURL    string `yaml:"redis_url"`
	RedisPrefix string `yaml:"redis_prefix"`
}

// LogConfig configures the slog file handler.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Dir returns ~/.teamwork, the home of the default files.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".teamwork"), nil
}

// Default returns the built-in configuration.
func Default() Config {
	dir, err := Dir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), "teamwork")
	}
	return Config{
		Mode: ModeLocal,
		API: APIConfig{
			URL:     "http://localhost:3001/api",
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Backend:     BackendFile,
			File:        filepath.Join(dir, "storage.json"),
			RedisURL:    "redis://localhost:6379/0",
			RedisPrefix: "teamwork:",
		},
		Log: LogConfig{
			File:  filepath.Join(dir, "teamwork.log"),
			Level: "info",
		},
		RestoreDelay: 500 * time.Millisecond,
		DocsURL:      "https://github.com/naveenspark/teamwork#readme",
	}
}

// Load reads the config file at path over the defaults. An empty path
// falls back to TEAMWORK_CONFIG and then to ~/.teamwork/config.yaml;
// only the last of these may be missing.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := true
	if path == "" {
		path = os.Getenv("TEAMWORK_CONFIG")
	}
	if path == "" {
		explicit = false
		dir, err := Dir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config.Load: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config.Load: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process
// environment without overriding variables that are already set. A
// missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config.LoadDotEnv: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from TEAMWORK_* variables found by lookup
// (normally os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var mode string
	str("TEAMWORK_MODE", &mode)
	if mode != "" {
		c.Mode = Mode(mode)
	}
	str("TEAMWORK_API_URL", &c.API.URL)
	str("TEAMWORK_STORAGE", &c.Storage.Backend)
	str("TEAMWORK_STORAGE_FILE", &c.Storage.File)
	str("TEAMWORK_REDIS_URL", &c.Storage.RedisURL)
	str("TEAMWORK_LOG_FILE", &c.Log.File)
	str("TEAMWORK_LOG_LEVEL", &c.Log.Level)
	if _, ok := lookup("TEAMWORK_DEBUG"); ok {
		c.Log.Level = "debug"
	}

	var delay string
	str("TEAMWORK_RESTORE_DELAY", &delay)
	if delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("TEAMWORK_RESTORE_DELAY: %w", err)
		}
		c.RestoreDelay = d
	}
	return nil
}

// Flags holds the command-line overrides.
type Flags struct {
	ConfigPath   string
	Mode         string
	APIURL       string
	Storage      string
	StorageFile  string
	RedisURL     string
	LogFile      string
	RestoreDelay time.Duration
	Ephemeral    bool
}

// AddFlags registers the configuration flags on flagSet.
func (f *Flags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.ConfigPath, "config", "", "path to YAML config file (default ~/.teamwork/config.yaml)")
	flagSet.StringVar(&f.Mode, "mode", "", "identity mode: local or remote")
	flagSet.StringVar(&f.APIURL, "api-url", "", "API base URL for remote mode")
	flagSet.StringVar(&f.Storage, "storage", "", "session storage backend: file, redis or memory")
	flagSet.StringVar(&f.StorageFile, "storage-file", "", "session file for the file backend")
	flagSet.StringVar(&f.RedisURL, "redis-url", "", "redis:// URL for the redis backend")
	flagSet.StringVar(&f.LogFile, "log-file", "", "write log records to this file")
	flagSet.DurationVar(&f.RestoreDelay, "restore-delay", 0, "how long the startup loading screen shows")
	flagSet.BoolVar(&f.Ephemeral, "ephemeral", false, "keep the session in memory only (same as --storage=memory)")
}

// ApplyFlags copies the flags that were set explicitly into c.
func (c *Config) ApplyFlags(flagSet *pflag.FlagSet, f *Flags) {
	if flagSet.Changed("mode") {
		c.Mode = Mode(f.Mode)
	}
	if flagSet.Changed("api-url") {
		c.API.URL = f.APIURL
	}
	if flagSet.Changed("storage") {
		c.Storage.Backend = f.Storage
	}
	if flagSet.Changed("storage-file") {
		c.Storage.File = f.StorageFile
	}
	if flagSet.Changed("redis-url") {
		c.Storage.RedisURL = f.RedisURL
	}
	if flagSet.Changed("log-file") {
		c.Log.File = f.LogFile
	}
	if flagSet.Changed("restore-delay") {
		c.RestoreDelay = f.RestoreDelay
	}
	if f.Ephemeral {
		c.Storage.Backend = BackendMemory
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeLocal, ModeRemote:
	default:
		return fmt.Errorf("mode %q: must be %q or %q", c.Mode, ModeLocal, ModeRemote)
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.File == "" {
			return errors.New("storage.file is required for the file backend")
		}
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("storage.redis_url is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("storage.backend %q: must be file, redis or memory", c.Storage.Backend)
	}

	if c.Mode == ModeRemote {
		u, err := url.Parse(c.API.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("api.url %q: must be an http(s) URL in remote mode", c.API.URL)
		}
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout %s: must be positive", c.API.Timeout)
	}
	if c.RestoreDelay < 0 {
		return fmt.Errorf("restore_delay %s: must not be negative", c.RestoreDelay)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be debug, info, warn or error", c.Log.Level)
	}
	return nil
}
