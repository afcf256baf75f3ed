// Package config loads taskboard settings from a YAML file, TASKBOARD_*
// environment variables and command-line flags, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TASKBOARD_HTTP_ADDR.
const EnvPrefix = "TASKBOARD"

// DBConfig locates the SQLite database.
type DBConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// HTTPConfig holds API server settings.
type HTTPConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// AuthConfig names the header a fronting proxy uses to pass the
// authenticated username.
type AuthConfig struct {
	UserHeader string `mapstructure:"user_header" yaml:"user_header"`
}

// StorageConfig locates uploaded file content.
type StorageConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DisplayConfig holds rendering preferences.
type DisplayConfig struct {
	Timezone   string `mapstructure:"timezone" yaml:"timezone"`
	DateFormat string `mapstructure:"date_format" yaml:"date_format"`
}

// Config is the top-level application configuration.
type Config struct {
	DB      DBConfig      `mapstructure:"db" yaml:"db"`
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http"`
	Auth    AuthConfig    `mapstructure:"auth" yaml:"auth"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultDir returns ~/.config/taskboard, or the working directory when
// the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "taskboard")
}

// DefaultPath returns the default path for the configuration file.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	dir := DefaultDir()
	v.SetDefault("db.path", filepath.Join(dir, "taskboard.db"))
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.max_upload_mb", 32)
	v.SetDefault("auth.user_header", "X-Remote-User")
	v.SetDefault("storage.dir", filepath.Join(dir, "files"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("display.timezone", "UTC")
	v.SetDefault("display.date_format", "2006-01-02")
}

// flagKeys maps command-line flag names to the config keys they set.
var flagKeys = map[string]string{
	"db":        "db.path",
	"addr":      "http.addr",
	"storage":   "storage.dir",
	"log-level": "log.level",
}

// Load reads configuration from the YAML file at path. A missing file
// yields the defaults. Environment variables override the file, and
// flags in fs (see flagKeys) override both when set on the command
// line.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to a YAML file at path, creating parent directories
// if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("db", cfg.DB)
	v.Set("http", cfg.HTTP)
	v.Set("auth", cfg.Auth)
	v.Set("storage", cfg.Storage)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if c.HTTP.MaxUploadMB <= 0 {
		return fmt.Errorf("http.max_upload_mb: must be positive")
	}
	if strings.TrimSpace(c.Auth.UserHeader) == "" {
		return fmt.Errorf("auth.user_header: must not be empty")
	}
	if strings.TrimSpace(c.Display.DateFormat) == "" {
		return fmt.Errorf("display.date_format: must not be empty")
	}
	return nil
}

// Location resolves display.timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("display.timezone: %w", err)
	}
	return loc, nil
}

// LogLevel resolves log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.HTTP.MaxUploadMB << 20
}

// NewLogger builds the process logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
