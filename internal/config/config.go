package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"subtrack/internal/common"
)

const (
	// DirEnv overrides the directory holding the config file and credentials
	DirEnv    = "SUBTRACK_CONFIG_DIR"
	EnvPrefix = "SUBTRACK"

	DefaultServerURL = "https://subscription-tracker-4pfv.onrender.com/api/v1"

	configDirName  = ".subtrack"
	configFileName = "config.json"
	logFileName    = "subtrack.log"
)

// Config keys
const (
	KeyServerURL   = "server_url"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyHTTPTimeout = "http_timeout"
)

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"server-url":   KeyServerURL,
	"log-level":    KeyLogLevel,
	"log-format":   KeyLogFormat,
	"http-timeout": KeyHTTPTimeout,
}

// Config represents the application configuration
type Config struct {
	// API base URL including the version prefix
	ServerURL string `mapstructure:"server_url"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Zero means requests never time out
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		ServerURL: DefaultServerURL,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// GetGlobalConfigDir returns ~/.subtrack unless SUBTRACK_CONFIG_DIR is set
func GetGlobalConfigDir() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// GetGlobalConfigPath returns the path of the global config file
func GetGlobalConfigPath() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return Path(dir), nil
}

// Path returns the config file inside dir
func Path(dir string) string {
	return filepath.Join(dir, configFileName)
}

// LogPath is where the TUI writes its log
func LogPath(dir string) string {
	return filepath.Join(dir, logFileName)
}

// Option adjusts how a config is loaded
type Option func(*viper.Viper) error

// WithFlags lets explicitly set command line flags override the file and environment
func WithFlags(flags *pflag.FlagSet) Option {
	return func(v *viper.Viper) error {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("error binding flag %s: %w", name, err)
			}
		}
		return nil
	}
}

func newViper(dir string, env bool) *viper.Viper {
	v := viper.New()

	def := Default()
	v.SetDefault(KeyServerURL, def.ServerURL)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)
	v.SetDefault(KeyHTTPTimeout, def.HTTPTimeout)

	v.SetConfigFile(Path(dir))
	v.SetConfigType("json")

	if env {
		v.SetEnvPrefix(EnvPrefix)
		v.AutomaticEnv()
	}

	return v
}

// Load reads config.json in dir, layering environment variables and defaults.
// A missing file is not an error.
func Load(dir string, opts ...Option) (*Config, error) {
	v := newViper(dir, true)
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	return read(v)
}

// LoadFile reads only config.json in dir and the defaults. Use it before saving,
// so values supplied by the environment are not written to the file.
func LoadFile(dir string) (*Config, error) {
	return read(newViper(dir, false))
}

func read(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")

	return &cfg, nil
}

// LoadGlobalConfig loads the config from the global config directory
func LoadGlobalConfig(opts ...Option) (*Config, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return nil, err
	}
	return Load(dir, opts...)
}

// Save writes the config to config.json in dir
func (c *Config) Save(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	for _, key := range Keys() {
		value, _ := c.Get(key)
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(Path(dir)); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}

// SaveGlobalConfig writes cfg to the global config directory
func SaveGlobalConfig(cfg *Config) error {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return err
	}
	return cfg.Save(dir)
}

// Keys lists the settable config keys
func Keys() []string {
	keys := []string{KeyServerURL, KeyLogLevel, KeyLogFormat, KeyHTTPTimeout}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of a config value
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyServerURL:
		return c.ServerURL, nil
	case KeyLogLevel:
		return c.LogLevel, nil
	case KeyLogFormat:
		return c.LogFormat, nil
	case KeyHTTPTimeout:
		return c.HTTPTimeout.String(), nil
	}
	return "", common.NewUserError(fmt.Sprintf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", ")), nil)
}

// Set validates and assigns a config value
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case KeyServerURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return common.NewUserError(fmt.Sprintf("invalid server URL %q", value), err)
		}
		c.ServerURL = strings.TrimRight(value, "/")
	case KeyLogLevel:
		if _, err := common.ParseLevel(value); err != nil {
			return common.NewUserError(fmt.Sprintf("invalid log level %q", value), err)
		}
		c.LogLevel = value
	case KeyLogFormat:
		if value != "console" && value != "json" {
			return common.NewUserError(fmt.Sprintf("invalid log format %q (use console or json)", value), nil)
		}
		c.LogFormat = value
	case KeyHTTPTimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return common.NewUserError(fmt.Sprintf("invalid timeout %q", value), err)
		}
		c.HTTPTimeout = d
	default:
		_, err := c.Get(key)
		return err
	}
	return nil
}
