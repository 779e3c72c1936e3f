// Package config loads rowdiff settings from a YAML file, ROWDIFF_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/interpretive-systems/rowdiff/internal/diffview"
)

// LocalFile is read from the working directory in preference to the user
// config file.
const LocalFile = ".rowdiff.yaml"

type Config struct {
	Mode    string `mapstructure:"mode"`  // split or unified
	Style   string `mapstructure:"style"` // chroma style name
	Theme   string `mapstructure:"theme"` // dark or light
	Context int    `mapstructure:"context"`
	LogFile string `mapstructure:"log_file"`
	Debug   bool   `mapstructure:"debug"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("mode", "split")
	v.SetDefault("style", "monokai")
	v.SetDefault("theme", "dark")
	v.SetDefault("context", 3)
	v.SetDefault("log_file", "")
	v.SetDefault("debug", false)

	v.SetEnvPrefix("ROWDIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Dir returns the user config directory for rowdiff.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rowdiff"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "rowdiff"), nil
}

// Load reads the config file into v and decodes the result. An explicit file
// must exist; otherwise ./.rowdiff.yaml or <Dir>/config.yaml are used when
// present.
func Load(v *viper.Viper, file string) (*Config, error) {
	switch {
	case file != "":
		v.SetConfigFile(file)
	case fileExists(LocalFile):
		v.SetConfigFile(LocalFile)
	default:
		dir, err := Dir()
		if err != nil {
			return nil, fmt.Errorf("config dir: %w", err)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if _, err := cfg.DiffMode(); err != nil {
		return nil, err
	}
	if cfg.Context < 0 {
		return nil, fmt.Errorf("context must not be negative, got %d", cfg.Context)
	}
	return &cfg, nil
}

// DiffMode parses Mode.
func (c *Config) DiffMode() (diffview.Mode, error) {
	return diffview.ParseMode(c.Mode)
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
