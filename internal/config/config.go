package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultRetentionDays is the artifact retention window when nothing
	// else is configured. 0 disables rotation.
	DefaultRetentionDays = 30

	// DefaultListen is the serve command's bind address.
	DefaultListen = "127.0.0.1:8787"

	defaultSystemLogDir = "/var/log/runwrap"
	fallbackLogDir      = "./logs"
)

// Config is the file/environment-backed configuration. Precedence is
// flag > environment (RUNWRAP_*) > config file > default.
type Config struct {
	LogDir        string `mapstructure:"log_dir" yaml:"log_dir"`
	RetentionDays int    `mapstructure:"retention_days" yaml:"retention_days"`
	Notify        string `mapstructure:"notify" yaml:"notify"`
	Silent        bool   `mapstructure:"silent" yaml:"silent"`
	MetricsDir    string `mapstructure:"metrics_dir" yaml:"metrics_dir"`
	Listen        string `mapstructure:"listen" yaml:"listen"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogDir:        DefaultLogDir(),
		RetentionDays: DefaultRetentionDays,
		Listen:        DefaultListen,
	}
}

// DefaultLogDir prefers the system log root and falls back to a local
// directory when it is not writable.
func DefaultLogDir() string {
	if isWritable(defaultSystemLogDir) {
		return defaultSystemLogDir
	}
	return fallbackLogDir
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".runwrap", "config.yaml")
}

// Load reads the config file (explicit path, or ~/.runwrap/config.yaml)
// plus RUNWRAP_* environment overrides on top of defaults. A missing file
// is only an error when the path was given explicitly.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("log_dir", "")
	v.SetDefault("retention_days", DefaultRetentionDays)
	v.SetDefault("notify", "")
	v.SetDefault("silent", false)
	v.SetDefault("metrics_dir", "")
	v.SetDefault("listen", DefaultListen)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".runwrap"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("RUNWRAP")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" {
			return Config{}, fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.LogDir == "" {
		cfg.LogDir = DefaultLogDir()
	}
	return cfg, nil
}

// WriteDefault writes a starter config file to path. Refuses to overwrite.
func WriteDefault(path string) error {
	if path == "" {
		return fmt.Errorf("no config path available")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// isWritable checks if a directory exists (or can be created) and accepts
// writes.
func isWritable(path string) bool {
	if err := os.MkdirAll(path, 0755); err != nil {
		return false
	}
	testFile := filepath.Join(path, ".write_test")
	f, err := os.Create(testFile)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(testFile)
	return true
}
