package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level sweep configuration.
type Config struct {
	ScanPath     string        `mapstructure:"scan_path"`
	MaxDepth     int           `mapstructure:"max_depth"`
	MinSize      string        `mapstructure:"min_size"`
	OlderThan    string        `mapstructure:"older_than"`
	Sort         string        `mapstructure:"sort"`
	SkipDirs     []string      `mapstructure:"skip_dirs"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	ProbeWorkers int           `mapstructure:"probe_workers"`
	Output       Output        `mapstructure:"output"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
}

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("invalid configuration")

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("scan_path", DefaultScanPath)
	v.SetDefault("max_depth", DefaultMaxDepth)
	v.SetDefault("min_size", DefaultMinSize)
	v.SetDefault("older_than", "")
	v.SetDefault("sort", DefaultSort)
	v.SetDefault("skip_dirs", []string{})
	v.SetDefault("probe_timeout", DefaultProbeTimeout)
	v.SetDefault("probe_workers", DefaultProbeWorkers)
	v.SetDefault("output.color", DefaultOutput.Color)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.ScanPath = expandPath(cfg.ScanPath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the scanner cannot use.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max_depth must not be negative, got %d", ErrInvalid, c.MaxDepth)
	}
	if c.ProbeWorkers < 1 {
		return fmt.Errorf("%w: probe_workers must be at least 1, got %d", ErrInvalid, c.ProbeWorkers)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("%w: probe_timeout must be positive, got %s", ErrInvalid, c.ProbeTimeout)
	}
	return nil
}

// DBPath returns the full path to the SQLite ledger.
func DBPath() string {
	return filepath.Join(ConfigDir(), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
