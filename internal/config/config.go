package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir     string `mapstructure:"data_dir"`
	DBName      string `mapstructure:"db_name"`
	Seed        bool   `mapstructure:"seed"`
	DefaultSort string `mapstructure:"default_sort"`
}

// Load reads configuration from defaults, PROMPTLIB_* environment variables
// and an optional config.yaml in the data directory, then makes sure the data
// directory exists.
func Load() (*Config, error) {
	return LoadWith(viper.GetViper())
}

// LoadWith is Load against a specific viper instance.
func LoadWith(v *viper.Viper) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	defaultDataDir := filepath.Join(homeDir, ".promptlib")

	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("db_name", "prompt-library.db")
	v.SetDefault("seed", true)
	v.SetDefault("default_sort", "newest")

	// Environment variable overrides
	v.SetEnvPrefix("PROMPTLIB")
	v.AutomaticEnv()
	v.BindEnv("data_dir", "PROMPTLIB_DATA_DIR")
	v.BindEnv("seed", "PROMPTLIB_SEED")

	// Config file lives in the data dir, which may itself come from env or a flag.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString("data_dir"))
	if v.GetString("data_dir") != defaultDataDir {
		v.AddConfigPath(defaultDataDir)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	return &cfg, nil
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, c.DBName)
}
